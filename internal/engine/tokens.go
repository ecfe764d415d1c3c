package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// tokenGenerator produces 32-character lowercase hex bearer tokens by
// concatenating two 64-bit values drawn from two independent PRNGs, each
// seeded from OS entropy at construction. Token collisions are not
// handled, as their probability is negligible.
type tokenGenerator struct {
	a *rand.Rand
	b *rand.Rand
}

func seedFromEntropy() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed seed rather than panic so the
		// server can still start in a degraded (non-cryptographic) mode.
		return 0x9e3779b97f4a7c15
	}
	return binary.BigEndian.Uint64(buf[:])
}

func newTokenGenerator() *tokenGenerator {
	return &tokenGenerator{
		a: rand.New(rand.NewPCG(seedFromEntropy(), seedFromEntropy())),
		b: rand.New(rand.NewPCG(seedFromEntropy(), seedFromEntropy())),
	}
}

// Next returns a fresh 32-character lowercase hex token.
func (g *tokenGenerator) Next() string {
	hi := g.a.Uint64()
	lo := g.b.Uint64()
	return fmt.Sprintf("%016x%016x", hi, lo)
}

// ValidToken reports whether s has the shape of a bearer token: exactly
// 32 lowercase hex characters.
func ValidToken(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
