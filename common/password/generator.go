// Package password generates random passwords from fixed character
// pools. Each pool is sampled with replacement a random number of
// times, and the result is shuffled.
//
// The generator uses math/rand; it is meant for everyday website
// passwords, not for long-term keys.
package password

import (
	"math/rand/v2"
	"strings"
)

// The default pools.
const (
	Letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits  = "0123456789"
	Symbols = "!#$%&()*+"
)

// A Pool is a character set that is sampled between Min and Max
// times (inclusive).
type Pool struct {
	Chars string
	Min   int
	Max   int
}

// DefaultPools returns the letter, digit, and symbol pools.
func DefaultPools() []Pool {
	return []Pool{
		{Chars: Letters, Min: 8, Max: 14},
		{Chars: Digits, Min: 2, Max: 4},
		{Chars: Symbols, Min: 2, Max: 4},
	}
}

// A Generator produces passwords from its pools. Pools with no
// characters are skipped. The zero value is not usable; use New.
type Generator struct {
	pools []Pool
	rng   *rand.Rand
}

// New returns a Generator over the default pools. If src is nil, the
// generator draws from the global math/rand source, which is safe for
// concurrent use; a Generator with its own source is not.
func New(src rand.Source) *Generator {
	g := &Generator{pools: DefaultPools()}
	if src != nil {
		g.rng = rand.New(src)
	}
	return g
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

func (g *Generator) shuffle(n int, swap func(i, j int)) {
	if g.rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	g.rng.Shuffle(n, swap)
}

// between returns a uniform value in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.intN(hi-lo+1)
}

// MinLength returns the shortest password the generator can produce.
func (g *Generator) MinLength() int {
	var n int
	for _, p := range g.pools {
		if p.Chars != "" {
			n += p.Min
		}
	}
	return n
}

// MaxLength returns the longest password the generator can produce.
func (g *Generator) MaxLength() int {
	var n int
	for _, p := range g.pools {
		if p.Chars != "" {
			n += max(p.Min, p.Max)
		}
	}
	return n
}

// Generate returns a new password.
func (g *Generator) Generate() string {
	chars := make([]byte, 0, g.MaxLength())
	for _, p := range g.pools {
		if len(p.Chars) == 0 {
			continue
		}

		count := g.between(p.Min, p.Max)
		for i := 0; i < count; i++ {
			chars = append(chars, p.Chars[g.intN(len(p.Chars))])
		}
	}

	g.shuffle(len(chars), func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})
	return string(chars)
}

var defaultGenerator = New(nil)

// Generate returns a new password from the default pools: 8-14
// letters, 2-4 digits, and 2-4 symbols, shuffled together.
func Generate() string {
	return defaultGenerator.Generate()
}

// Count returns how many characters of s appear in pool.
func Count(s, pool string) int {
	var n int
	for _, c := range s {
		if strings.ContainsRune(pool, c) {
			n++
		}
	}
	return n
}
