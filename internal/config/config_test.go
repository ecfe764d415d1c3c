package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `{
	"defaultDogSpeed": 3,
	"dogRetirementTime": 45,
	"lootGeneratorConfig": {"period": 2.5, "probability": 0.5},
	"maps": [
		{
			"id": "map1",
			"name": "First map",
			"roads": [{"x0": 0, "y0": 0, "x1": 10}],
			"offices": [{"id": "o1", "x": 5, "y": 0, "offsetX": 0, "offsetY": 1}],
			"lootTypes": [{"name": "key", "file": "key.obj", "type": 0, "value": 10}]
		}
	]
}`

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ResolvesUnitsAndDefaults(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.DefaultDogSpeed != 3 {
		t.Errorf("DefaultDogSpeed = %v, want 3", r.DefaultDogSpeed)
	}
	if r.DogRetirementTime != 45*time.Second {
		t.Errorf("DogRetirementTime = %v, want 45s", r.DogRetirementTime)
	}
	if r.LootGenConfig.BaseInterval != 2500*time.Millisecond {
		t.Errorf("LootGenConfig.BaseInterval = %v, want 2.5s", r.LootGenConfig.BaseInterval)
	}
	if r.LootGenConfig.Probability != 0.5 {
		t.Errorf("LootGenConfig.Probability = %v, want 0.5", r.LootGenConfig.Probability)
	}
	if len(r.Maps) != 1 || r.Maps[0].ID != "map1" {
		t.Fatalf("unexpected maps: %+v", r.Maps)
	}
}

func TestLoad_AppliesDefaultsWhenAbsent(t *testing.T) {
	path := writeTempConfig(t, `{"maps":[{"id":"m","roads":[{"x0":0,"y0":0,"x1":1}]}]}`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.DogRetirementTime != defaultDogRetirementTime {
		t.Errorf("DogRetirementTime = %v, want default %v", r.DogRetirementTime, defaultDogRetirementTime)
	}
	if r.LootGenConfig.BaseInterval != defaultLootPeriod {
		t.Errorf("BaseInterval = %v, want default %v", r.LootGenConfig.BaseInterval, defaultLootPeriod)
	}
}

func TestLoad_RejectsDuplicateMapIDs(t *testing.T) {
	path := writeTempConfig(t, `{
		"maps": [
			{"id":"dup","roads":[{"x0":0,"y0":0,"x1":1}]},
			{"id":"dup","roads":[{"x0":0,"y0":0,"x1":1}]}
		]
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for duplicate map ids")
	}
}

func TestLoad_RejectsEmptyMapList(t *testing.T) {
	path := writeTempConfig(t, `{"maps":[]}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an empty map list")
	}
}

func TestLoad_RejectsNonPositiveBagCapacity(t *testing.T) {
	path := writeTempConfig(t, `{
		"maps": [{"id":"m","bagCapacity":0,"roads":[{"x0":0,"y0":0,"x1":1}]}]
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a non-positive bagCapacity override")
	}
}
