package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/lootgen"
	"github.com/kanelabs/dogrun-engine/pkg/model"
)

// Config holds the game-wide defaults and options resolved from the
// startup config file and process flags.
type Config struct {
	DefaultDogSpeed    float64
	DefaultBagCapacity *int
	DogRetirementTime  time.Duration
	RandomizeSpawn     bool
}

// RetiredRecord is one player's final tally, handed to the leaderboard
// sink when they are evicted from the registry.
type RetiredRecord struct {
	Token         string
	UserName      string
	Score         int
	PlayingTimeMs int64
}

// Game is the top-level model: it owns every map (by id, immutable once
// added), every active session (one per map that any player has joined;
// a session stays in place after its last dog retires), and
// the player/token registry. All of Game's mutating methods are meant to
// be called only from within the single-threaded strand (see
// Scheduler), Game itself holds no lock, by design: the strand is what
// makes that safe.
type Game struct {
	Config   Config
	Maps     map[string]*model.Map
	Sessions map[string]*GameSession
	Registry *PlayerRegistry

	LootGenConfig lootgen.Config

	tokens      *tokenGenerator
	nextDogID   int64
	nextLootID  int64
	seedCounter int64
	rng         *rand.Rand
}

// NewGame creates an empty Game seeded from OS entropy (via
// crypto/rand, the same source the token generator's seeds come from).
// Maps must be added with AddMap before any player can join.
func NewGame(cfg Config) *Game {
	return NewGameSeeded(cfg, int64(seedFromEntropy()))
}

// NewGameSeeded creates an empty Game whose every session PRNG descends
// deterministically from seed. Used by the determinism checker to run
// two otherwise-identical games side by side.
func NewGameSeeded(cfg Config, seed int64) *Game {
	return &Game{
		Config:   cfg,
		Maps:     make(map[string]*model.Map),
		Sessions: make(map[string]*GameSession),
		Registry: NewPlayerRegistry(),
		tokens:   newTokenGenerator(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// AddMap registers a map. Maps are exclusively owned by Game and never
// moved or mutated after insertion, only Validate()'d up front.
func (g *Game) AddMap(m *model.Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := g.Maps[m.ID]; exists {
		return fmt.Errorf("duplicate map id %q", m.ID)
	}
	g.Maps[m.ID] = m
	return nil
}

func (g *Game) nextLootIDFunc() int64 {
	g.nextLootID++
	return g.nextLootID
}

// sessionFor returns the active session for mapID, creating one (seeded
// independently of every other session) if it does not exist yet.
func (g *Game) sessionFor(m *model.Map) *GameSession {
	if s, ok := g.Sessions[m.ID]; ok {
		return s
	}
	g.seedCounter++
	s := NewGameSession(m, g.LootGenConfig, g.rng.Int63()+g.seedCounter)
	g.Sessions[m.ID] = s
	return s
}

// Join binds a new player to a dog on the given map: it obtains or
// creates that map's session, spawns a dog (randomized or at the start
// of the map's first road, per Config.RandomizeSpawn), mints a fresh
// token, and registers the player.
func (g *Game) Join(userName, mapID string) (*Player, error) {
	m, ok := g.Maps[mapID]
	if !ok {
		return nil, ErrMapNotFound
	}
	if !m.Joinable() {
		return nil, ErrMapNotFound
	}

	session := g.sessionFor(m)

	var start model.Vec2
	if g.Config.RandomizeSpawn {
		start = m.RandomPositionOnRoad(g.rng)
	} else {
		start = m.Roads[0].StartVec()
	}

	g.nextDogID++
	dog := NewDog(g.nextDogID, start, time.Now())
	session.AddDog(dog)

	token := g.tokens.Next()
	player := g.Registry.Add(userName, token, session.MapID, dog.ID)
	return player, nil
}

// SetPlayerDirection validates code against the four direction codes
// (or the empty stop code) and, if the token is still registered, sets
// its dog's velocity at the map's effective speed. Returns
// ErrInvalidDirection for any other code and ErrUnknownToken if the
// token is not currently registered.
func (g *Game) SetPlayerDirection(token, code string) error {
	switch code {
	case DirLeft, DirRight, DirUp, DirDown, DirStop:
	default:
		return ErrInvalidDirection
	}

	p := g.Registry.ByToken(token)
	if p == nil {
		return ErrUnknownToken
	}
	m, dog := g.mapAndDog(p)
	if m == nil || dog == nil {
		return ErrUnknownToken
	}
	dog.SetDirection(code, m.EffectiveDogSpeed(g.Config.DefaultDogSpeed))
	return nil
}

// dogFor resolves a player's dog through its owning session. Returns nil
// if the session or dog no longer exists (should not happen while the
// player is registered).
func (g *Game) dogFor(p *Player) *Dog {
	s, ok := g.Sessions[p.SessionID]
	if !ok {
		return nil
	}
	return s.Dogs[p.DogID]
}

// Think advances the whole game by elapsed: every player's dog is moved
// along its velocity and clamped to its map's roads, retirement is
// evaluated, then every session runs its own per-tick procedure. It
// returns the tokens of players who crossed the retirement threshold
// this tick, the caller (the scheduler) is responsible for persisting
// and evicting them.
func (g *Game) Think(elapsed time.Duration) []string {
	var retired []string

	elapsedSeconds := elapsed.Seconds()
	elapsedMs := elapsed.Milliseconds()

	for _, p := range g.Registry.All() {
		m, dog := g.mapAndDog(p)
		if m == nil || dog == nil {
			continue
		}

		desired := dog.Position.Add(dog.Velocity.Scale(elapsedSeconds))
		next, ok := m.BoundedMove(dog.Position, desired)
		if !ok {
			continue
		}
		dog.SetPosition(next)

		if !approxEqual(next, desired) {
			dog.SetDirection(DirStop, 0)
		}

		p.PlayingTimeMs += elapsedMs
		if dog.IsStopped() {
			p.StoppedTimeMs += elapsedMs
		} else {
			p.StoppedTimeMs = 0
		}

		if g.Config.DogRetirementTime > 0 &&
			time.Duration(p.StoppedTimeMs)*time.Millisecond >= g.Config.DogRetirementTime {
			retired = append(retired, p.Token)
		}
	}

	// Sessions share one loot id counter, so tick them in map id order to
	// keep id assignment reproducible.
	mapIDs := make([]string, 0, len(g.Sessions))
	for id := range g.Sessions {
		mapIDs = append(mapIDs, id)
	}
	sort.Strings(mapIDs)
	for _, id := range mapIDs {
		s := g.Sessions[id]
		bagCapacity := s.Map.EffectiveBagCapacity(g.Config.DefaultBagCapacity)
		s.Tick(elapsed, bagCapacity, g.nextLootIDFunc)
	}

	return retired
}

// Retire removes a player from the registry and its dog from its
// session, and reports the record the caller should persist. It is
// idempotent: retiring an already-unknown token is a no-op returning ok=false.
func (g *Game) Retire(token string) (RetiredRecord, bool) {
	p := g.Registry.ByToken(token)
	if p == nil {
		return RetiredRecord{}, false
	}
	var score int
	if s, ok := g.Sessions[p.SessionID]; ok {
		if dog, ok := s.Dogs[p.DogID]; ok {
			score = dog.Score
		}
		s.RemoveDog(p.DogID)
	}
	g.Registry.Remove(token)
	return RetiredRecord{
		Token:         token,
		UserName:      p.UserName,
		Score:         score,
		PlayingTimeMs: p.PlayingTimeMs,
	}, true
}

func (g *Game) mapAndDog(p *Player) (*model.Map, *Dog) {
	s, ok := g.Sessions[p.SessionID]
	if !ok {
		return nil, nil
	}
	m := s.Map
	dog := s.Dogs[p.DogID]
	return m, dog
}

func approxEqual(a, b model.Vec2) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

var (
	// ErrMapNotFound is returned by Join when the requested map id does
	// not exist or is not joinable.
	ErrMapNotFound = fmt.Errorf("map not found")

	// ErrInvalidDirection is returned by SetPlayerDirection for any move
	// code outside L, R, U, D, and the empty stop code.
	ErrInvalidDirection = fmt.Errorf("invalid direction code")

	// ErrUnknownToken is returned by SetPlayerDirection when the token
	// does not resolve to a currently registered player.
	ErrUnknownToken = fmt.Errorf("unknown token")
)
