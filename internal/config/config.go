// Package config loads and validates the startup config file: default
// dog speed/bag capacity, the retirement timeout, the loot generator
// parameters, and the map list. The load path is read, unmarshal,
// validate, wrapping every error with enough context to find the
// offending field from the command line.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/lootgen"
	"github.com/kanelabs/dogrun-engine/pkg/model"
)

// defaultDogRetirementTime and defaultLootPeriod are applied when the
// corresponding config field is absent, per the seconds-at-the-boundary
// standardization.
const (
	defaultDogRetirementTime = 60 * time.Second
	defaultLootPeriod        = 5 * time.Second
)

// lootGeneratorFile is the lootGeneratorConfig shape: period in
// seconds, at the JSON boundary.
type lootGeneratorFile struct {
	PeriodSeconds *float64 `json:"period"`
	Probability   float64  `json:"probability"`
}

// File is the top-level config file shape.
type File struct {
	DefaultDogSpeed      *float64           `json:"defaultDogSpeed"`
	DefaultBagCapacity   *int               `json:"defaultBagCapacity"`
	DogRetirementTimeSec *float64           `json:"dogRetirementTime"`
	LootGeneratorConfig  *lootGeneratorFile `json:"lootGeneratorConfig"`
	Maps                 []*model.Map       `json:"maps"`
}

// Resolved is the File translated into the units the engine actually
// uses (milliseconds-resolution durations), with defaults applied.
type Resolved struct {
	DefaultDogSpeed    float64
	DefaultBagCapacity *int
	DogRetirementTime  time.Duration
	LootGenConfig      lootgen.Config
	Maps               []*model.Map
}

// Load reads path, unmarshals it as File, validates it, and resolves it
// into engine-ready units.
func Load(path string) (*Resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if err := Validate(&f); err != nil {
		return nil, fmt.Errorf("config: invalid %q: %w", path, err)
	}

	return resolve(&f), nil
}

// Validate checks the config's structural invariants: at least one map,
// unique map ids, unique office ids per map (delegated to model.Map),
// and that any present bagCapacity/dogSpeed override is positive.
func Validate(f *File) error {
	if len(f.Maps) == 0 {
		return fmt.Errorf("at least one map is required")
	}

	seen := make(map[string]bool, len(f.Maps))
	for _, m := range f.Maps {
		if m.ID == "" {
			return fmt.Errorf("map with empty id")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate map id %q", m.ID)
		}
		seen[m.ID] = true

		if err := m.Validate(); err != nil {
			return err
		}
		if m.DogSpeed != nil && *m.DogSpeed <= 0 {
			return fmt.Errorf("map %q: dogSpeed must be positive, got %v", m.ID, *m.DogSpeed)
		}
		if m.BagCapacity != nil && *m.BagCapacity <= 0 {
			return fmt.Errorf("map %q: bagCapacity must be positive, got %v", m.ID, *m.BagCapacity)
		}
	}

	if f.DefaultBagCapacity != nil && *f.DefaultBagCapacity <= 0 {
		return fmt.Errorf("defaultBagCapacity must be positive, got %v", *f.DefaultBagCapacity)
	}
	if f.DefaultDogSpeed != nil && *f.DefaultDogSpeed <= 0 {
		return fmt.Errorf("defaultDogSpeed must be positive, got %v", *f.DefaultDogSpeed)
	}
	if f.LootGeneratorConfig != nil {
		if f.LootGeneratorConfig.Probability < 0 || f.LootGeneratorConfig.Probability > 1 {
			return fmt.Errorf("lootGeneratorConfig.probability must be within [0,1], got %v", f.LootGeneratorConfig.Probability)
		}
		if f.LootGeneratorConfig.PeriodSeconds != nil && *f.LootGeneratorConfig.PeriodSeconds <= 0 {
			return fmt.Errorf("lootGeneratorConfig.period must be positive, got %v", *f.LootGeneratorConfig.PeriodSeconds)
		}
	}

	return nil
}

func resolve(f *File) *Resolved {
	r := &Resolved{
		DefaultBagCapacity: f.DefaultBagCapacity,
		DogRetirementTime:  defaultDogRetirementTime,
		LootGenConfig:      lootgen.Config{BaseInterval: defaultLootPeriod, Probability: 1.0},
		Maps:               f.Maps,
	}

	if f.DefaultDogSpeed != nil {
		r.DefaultDogSpeed = *f.DefaultDogSpeed
	}
	if f.DogRetirementTimeSec != nil {
		r.DogRetirementTime = time.Duration(*f.DogRetirementTimeSec * float64(time.Second))
	}
	if f.LootGeneratorConfig != nil {
		if f.LootGeneratorConfig.PeriodSeconds != nil {
			r.LootGenConfig.BaseInterval = time.Duration(*f.LootGeneratorConfig.PeriodSeconds * float64(time.Second))
		}
		r.LootGenConfig.Probability = f.LootGeneratorConfig.Probability
	}

	return r
}
