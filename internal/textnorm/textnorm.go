// Package textnorm turns user-authored review text into comparable values:
// localized digits become ASCII digits, scores become numbers and names become
// case-insensitive comparison keys.
package textnorm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	persianZero            = '۰' // Extended Arabic-Indic digit zero
	arabicIndicZero        = '٠'
	arabicDecimalSeparator = '٫'
)

// digitMapper is stateless, so it can be shared across goroutines.
var digitMapper = runes.Map(func(r rune) rune {
	switch {
	case r >= persianZero && r <= persianZero+9:
		return '0' + (r - persianZero)
	case r >= arabicIndicZero && r <= arabicIndicZero+9:
		return '0' + (r - arabicIndicZero)
	}
	return r
})

// numberPrefix matches the leading decimal literal of a string, the same prefix
// a browser's parseFloat would consume.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// NormalizeDigits replaces Persian and Arabic-Indic digits with ASCII digits,
// rune for rune. Every other rune is kept. An empty input yields "0".
func NormalizeDigits(text string) string {
	if text == "" {
		return "0"
	}
	out, _, err := transform.String(digitMapper, text)
	if err != nil {
		return text
	}
	return out
}

// ParseScore reads a score the way it is ranked: digits are normalized, the
// Arabic decimal separator counts as a decimal point and the longest leading
// number is parsed. Anything that does not yield a finite number scores 0.
func ParseScore(text string) float64 {
	normalized := strings.Map(func(r rune) rune {
		if r == arabicDecimalSeparator {
			return '.'
		}
		return r
	}, NormalizeDigits(text))
	normalized = strings.TrimLeftFunc(normalized, unicode.IsSpace)

	literal := numberPrefix.FindString(normalized)
	if literal == "" {
		return 0
	}
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// Fold returns the case-insensitive comparison key of text. Code points are
// never composed, so a decomposed letter still contains its base letter.
// A Caser keeps state, so a fresh one is built per call.
func Fold(text string) string {
	return cases.Lower(language.Und).String(text)
}

// ContainsFolded reports whether foldedNeedle occurs in text, ignoring case.
// The needle must already be folded with Fold.
func ContainsFolded(text, foldedNeedle string) bool {
	return strings.Contains(Fold(text), foldedNeedle)
}
