// Package bitchain implements chains of '0' and '1' symbols, the genome mutated by package mutation.
package bitchain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Zero byte = '0'
	One  byte = '1'
)

var (
	ErrInvalidSymbol  = errors.New("invalid bit symbol")
	ErrLengthMismatch = errors.New("bit chain lengths differ")
)

// BitChain is an ordered, fixed-length sequence of '0'/'1' symbols.
//
// Operations in this package never write through their receiver or arguments;
// anything that changes bits returns a newly allocated chain.
type BitChain []byte

// Parse reads a BitChain from its string form. Spaces are ignored, so the
// grouped output of String may be parsed back.
func Parse(s string) (BitChain, error) {
	s = strings.ReplaceAll(s, " ", "")

	chain := make(BitChain, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != Zero && c != One {
			return nil, symbolError(c, i)
		}
		chain[i] = c
	}
	return chain, nil
}

// MustParse is like Parse but panics on malformed input. Meant for literals.
func MustParse(s string) BitChain {
	chain, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return chain
}

// Random creates a chain of n bits, each set with probability 1/2
func Random(n int, src interface{ Float64() float64 }) BitChain {
	chain := make(BitChain, n)
	for i := range chain {
		if src.Float64() < 0.5 {
			chain[i] = One
		} else {
			chain[i] = Zero
		}
	}
	return chain
}

func symbolError(c byte, i int) error {
	return fmt.Errorf("%w: unrecognized bit character %q at position %d, expected '1' or '0'", ErrInvalidSymbol, c, i)
}

// Flip inverts a single valid bit symbol
func Flip(b byte) byte {
	return b ^ (Zero ^ One)
}

func (c BitChain) String() string {
	return string(c)
}

// Grouped renders the chain with a space between every groupSize bits
func (c BitChain) Grouped(groupSize int) string {
	if groupSize <= 0 || len(c) <= groupSize {
		return c.String()
	}

	var buf strings.Builder
	buf.Grow(len(c) + len(c)/groupSize)
	for i, b := range c {
		if i > 0 && i%groupSize == 0 {
			buf.WriteByte(' ')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}

func (c BitChain) Len() int {
	return len(c)
}

// Validate reports the first symbol that is neither '0' nor '1'
func (c BitChain) Validate() error {
	for i, b := range c {
		if b != Zero && b != One {
			return symbolError(b, i)
		}
	}
	return nil
}

// Clone returns a copy that shares no storage with c. The copy of an empty
// chain is empty, never nil.
func (c BitChain) Clone() BitChain {
	cloned := make(BitChain, len(c))
	copy(cloned, c)
	return cloned
}

// Complement returns a new chain with every bit inverted
func (c BitChain) Complement() (BitChain, error) {
	complemented := make(BitChain, len(c))
	for i, b := range c {
		if b != Zero && b != One {
			return nil, symbolError(b, i)
		}
		complemented[i] = Flip(b)
	}
	return complemented, nil
}

func (c BitChain) Equal(other BitChain) bool {
	return string(c) == string(other)
}

// Ones counts the set bits
func (c BitChain) Ones() int {
	n := 0
	for _, b := range c {
		if b == One {
			n++
		}
	}
	return n
}

// HammingDistance counts the positions at which a and b differ
func HammingDistance(a, b BitChain) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w (%d != %d)", ErrLengthMismatch, len(a), len(b))
	}

	distance := 0
	for i := range a {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance, nil
}
