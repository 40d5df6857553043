package shaping

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Shape converts a name from storage order into the order and letterforms it
// must be drawn in by a renderer that places glyphs left to right without
// its own shaping engine.
//
// Arabic letters are first replaced by their contextual presentation forms
// (including lam-alef ligatures), then the text is split into directional
// runs and laid out visually: right-to-left runs are reversed, and in a
// right-to-left paragraph the run order is reversed as well.
//
// Text without right-to-left characters is returned unchanged. Shape has no
// side effects and returns the same output for the same input.
func Shape(s string) string {
	if !HasRTL(s) {
		return s
	}
	return reorder(reshape(s))
}

// HasRTL reports whether s contains any strong right-to-left character.
func HasRTL(s string) bool {
	for _, r := range s {
		switch class(r) {
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

// baseDirection applies the first-strong-character rule.
func baseDirection(s string) bidi.Direction {
	for _, r := range s {
		switch class(r) {
		case bidi.L:
			return bidi.LeftToRight
		case bidi.R, bidi.AL:
			return bidi.RightToLeft
		}
	}
	return bidi.LeftToRight
}

func class(r rune) bidi.Class {
	props, _ := bidi.LookupRune(r)
	return props.Class()
}

// reorder returns s in visual order. Runs from the bidi package come back in
// logical order with a direction each.
func reorder(s string) string {
	base := baseDirection(s)

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(base)); err != nil {
		return reverseRTL(s, base)
	}
	order, err := p.Order()
	if err != nil {
		return reverseRTL(s, base)
	}

	runs := make([]string, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(text)
		}
		runs = append(runs, text)
	}

	if base == bidi.RightToLeft {
		for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
			runs[i], runs[j] = runs[j], runs[i]
		}
	}
	return strings.Join(runs, "")
}

// reverseRTL is the whole-string fallback used if the paragraph cannot be
// analysed.
func reverseRTL(s string, base bidi.Direction) string {
	if base == bidi.RightToLeft {
		return bidi.ReverseString(s)
	}
	return s
}
