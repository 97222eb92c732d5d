package services

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ReferenceCodeLength is the number of digits in a generated payment reference
const ReferenceCodeLength = 11

// ReferenceGenerator produces numeric payment references: the last 8 digits of
// the current Unix time in milliseconds followed by 3 random digits
type ReferenceGenerator struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewReferenceGenerator creates a generator seeded from the wall clock
func NewReferenceGenerator() *ReferenceGenerator {
	seed := uint64(time.Now().UnixNano())
	return &ReferenceGenerator{
		now: time.Now,
		rng: rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Generate returns a new 11-digit reference code. Uniqueness is not guaranteed;
// callers rely on the store's unique index and retry on collision.
func (g *ReferenceGenerator) Generate() string {
	ms := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	} else {
		ms = strings.Repeat("0", 8-len(ms)) + ms
	}

	g.mu.Lock()
	tail := g.rng.IntN(1000)
	g.mu.Unlock()

	return fmt.Sprintf("%s%03d", ms, tail)
}
