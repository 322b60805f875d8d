// Package hebrew provides niqqud-aware text utilities used by the analysis
// fallback path and by result validation.
package hebrew

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Niqqud combining marks live in U+05B0..U+05BC plus the shin/sin dots and
// qamats qatan.
const (
	markFirst     = 'ְ' // sheva
	markLast      = 'ּ' // dagesh
	shinDot       = 'ׁ'
	sinDot        = 'ׂ'
	qamatsQatan   = 'ׇ'
	letterFirst   = 'א' // alef
	letterLast    = 'ת' // tav
	maqaf         = '־'
	cantillationA = '֑'
	cantillationB = '֯'
)

// IsLetter reports whether r is a Hebrew consonant.
func IsLetter(r rune) bool {
	return r >= letterFirst && r <= letterLast
}

// IsNiqqud reports whether r is a vocalization mark (including dagesh and
// the shin/sin dots).
func IsNiqqud(r rune) bool {
	return (r >= markFirst && r <= markLast) || r == shinDot || r == sinDot || r == qamatsQatan
}

// isVowel reports whether r is a vowel-bearing mark. Sheva, dagesh and the
// shin/sin dots do not open a new syllable on their own.
func isVowel(r rune) bool {
	return (r > markFirst && r < markLast) || r == qamatsQatan
}

func isCantillation(r rune) bool {
	return r >= cantillationA && r <= cantillationB
}

// Normalize returns s in NFC form with maqaf converted to a plain hyphen.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.ReplaceAll(s, string(maqaf), "-")
}

// HasNiqqud reports whether s carries any vocalization marks.
func HasNiqqud(s string) bool {
	for _, r := range s {
		if IsNiqqud(r) {
			return true
		}
	}
	return false
}

// IsHebrew reports whether s contains at least one Hebrew consonant.
func IsHebrew(s string) bool {
	for _, r := range s {
		if IsLetter(r) {
			return true
		}
	}
	return false
}

// StripNiqqud removes all vocalization and cantillation marks, leaving the
// consonantal text.
func StripNiqqud(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsNiqqud(r) || isCantillation(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cluster is one consonant with its trailing combining marks.
type cluster struct {
	text  string
	vowel bool
}

func clusters(word string) []cluster {
	var result []cluster
	for _, r := range word {
		if IsNiqqud(r) || isCantillation(r) {
			if len(result) == 0 {
				// stray mark with no base letter, keep it standalone
				result = append(result, cluster{})
			}
			last := &result[len(result)-1]
			last.text += string(r)
			if isVowel(r) {
				last.vowel = true
			}
			continue
		}
		result = append(result, cluster{text: string(r)})
	}
	return result
}

// SplitSyllables splits a single pointed word into syllables: a syllable
// closes at the first consonant carrying a vowel mark, and trailing vowelless
// consonants attach to the last syllable. Unpointed words come back whole,
// since consonantal text carries no syllable information.
func SplitSyllables(word string) []string {
	word = Normalize(strings.TrimSpace(word))
	if word == "" {
		return nil
	}
	if !HasNiqqud(word) {
		return []string{word}
	}

	cs := clusters(word)
	var syllables []string
	var current strings.Builder

	for _, c := range cs {
		current.WriteString(c.text)
		if c.vowel {
			syllables = append(syllables, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		if len(syllables) == 0 {
			return []string{current.String()}
		}
		syllables[len(syllables)-1] += current.String()
	}
	return syllables
}

// Words splits s on whitespace and returns the Hebrew tokens, punctuation
// trimmed.
func Words(s string) []string {
	fields := strings.Fields(Normalize(s))
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !IsLetter(r) && !IsNiqqud(r)
		})
		if f != "" && IsHebrew(f) {
			result = append(result, f)
		}
	}
	return result
}
