package compiler

import (
	"encoding/base32"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/fncompile/core/invariant"
)

// DefaultIDStem prefixes every identifier token: SYSTEM_FUNCTION(0), SYSTEM_FUNCTION(1), ...
const DefaultIDStem = "SYSTEM_FUNCTION"

// saltEncoding renders stem salts as uppercase letters and digits only.
var saltEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// idAllocator issues identifier tokens from a per-compiler counter.
type idAllocator struct {
	stem string
	next int
}

// newIDAllocator returns an allocator whose tokens cannot appear in src,
// nor in any text the scanner builds from it.
//
// Tokens have the form stem(n). Escape processing can join characters that
// are apart in src ("stem\(" reads as "stem("), so collisions are checked
// against src with every escape character removed. If that text contains
// "stem(", the stem is extended with a salt derived from a BLAKE2b digest of
// src. The salt depends only on src, so two compilers over the same source
// issue the same tokens.
func newIDAllocator(stem, src string, escape rune) *idAllocator {
	invariant.Precondition(stem != "", "identifier stem must not be empty")
	unescaped := strings.ReplaceAll(src, string(escape), "")
	return &idAllocator{stem: saltedStem(stem, src, unescaped)}
}

// saltedStem returns stem, or a salted variant, such that "<result>(" does
// not occur in text.
func saltedStem(stem, src, text string) string {
	if !strings.Contains(text, stem+"(") {
		return stem
	}
	for round := byte(0); ; round++ {
		digest := blake2b.Sum256(append([]byte(src), round))
		candidate := stem + "_" + saltEncoding.EncodeToString(digest[:5])
		if !strings.Contains(text, candidate+"(") {
			return candidate
		}
		invariant.Invariant(round < 255, "no collision-free identifier stem for source")
	}
}

// Stem returns the stem in use after salting.
func (a *idAllocator) Stem() string {
	return a.stem
}

// allocate returns a fresh identifier token.
func (a *idAllocator) allocate() string {
	n := a.next
	a.next++
	invariant.Postcondition(a.next > n, "identifier counter overflow")
	return a.stem + "(" + strconv.Itoa(n) + ")"
}
