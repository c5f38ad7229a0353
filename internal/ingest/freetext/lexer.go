package freetext

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokTimes            // x, ×, *
	tokUnit             // kg / lb family
	tokAt               // @
	tokRPE              // the word "rpe"
	tokWord             // anything else made of letters
	tokOther            // punctuation we don't understand
	tokEOF
)

type unit int

const (
	unitKg unit = iota
	unitLb
)

type token struct {
	kind  tokenKind
	text  string
	num   float64 // tokNumber
	isInt bool    // tokNumber without a decimal part
	unit  unit    // tokUnit
}

var unitWords = map[string]unit{
	"kg":        unitKg,
	"kgs":       unitKg,
	"kilo":      unitKg,
	"kilos":     unitKg,
	"kilogramm": unitKg,
	"lb":        unitLb,
	"lbs":       unitLb,
	"pound":     unitLb,
	"pounds":    unitLb,
	"pfund":     unitLb,
}

// lex splits the set-notation part of a line into tokens. Numbers accept
// both "." and "," as decimal separator. Whitespace is dropped.
func lex(s string) []token {
	var toks []token
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			isInt := true
			if j+1 < len(runes) && (runes[j] == '.' || runes[j] == ',') && unicode.IsDigit(runes[j+1]) {
				isInt = false
				j++
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
			}
			text := string(runes[i:j])
			n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
			if err != nil || math.IsInf(n, 0) {
				// out of float64 range
				toks = append(toks, token{kind: tokOther, text: text})
			} else {
				toks = append(toks, token{kind: tokNumber, text: text, num: n, isInt: isInt})
			}
			i = j
		case r == '×' || r == '*':
			toks = append(toks, token{kind: tokTimes, text: string(r)})
			i++
		case r == '@':
			toks = append(toks, token{kind: tokAt, text: "@"})
			i++
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			toks = append(toks, classifyWord(string(runes[i:j])))
			i = j
		default:
			toks = append(toks, token{kind: tokOther, text: string(r)})
			i++
		}
	}
	return append(toks, token{kind: tokEOF})
}

// classifyWord maps a run of letters to a token. A lone "x" is the set separator.
func classifyWord(w string) token {
	lower := strings.ToLower(w)
	switch lower {
	case "x":
		return token{kind: tokTimes, text: w}
	case "rpe":
		return token{kind: tokRPE, text: w}
	}
	if u, ok := unitWords[lower]; ok {
		return token{kind: tokUnit, text: w, unit: u}
	}
	return token{kind: tokWord, text: w}
}
