package shaping

// joining describes how a letter connects to its neighbours.
type joining uint8

const (
	joinNone  joining = iota // never connects (hamza)
	joinRight                // connects to the preceding letter only
	joinDual                 // connects on both sides
)

// Indices into letter.forms.
const (
	formIsolated = iota
	formFinal
	formInitial
	formMedial
)

type letter struct {
	join  joining
	forms [4]rune
}

// letters maps Arabic (and Persian) base letters to their presentation forms.
// Right-joining letters repeat their isolated and final forms in the unused
// initial and medial slots.
var letters = map[rune]letter{
	'ء': {joinNone, [4]rune{0xFE80, 0xFE80, 0xFE80, 0xFE80}},  // hamza
	'آ': {joinRight, [4]rune{0xFE81, 0xFE82, 0xFE81, 0xFE82}}, // alef madda
	'أ': {joinRight, [4]rune{0xFE83, 0xFE84, 0xFE83, 0xFE84}}, // alef hamza above
	'ؤ': {joinRight, [4]rune{0xFE85, 0xFE86, 0xFE85, 0xFE86}}, // waw hamza
	'إ': {joinRight, [4]rune{0xFE87, 0xFE88, 0xFE87, 0xFE88}}, // alef hamza below
	'ئ': {joinDual, [4]rune{0xFE89, 0xFE8A, 0xFE8B, 0xFE8C}},  // yeh hamza
	'ا': {joinRight, [4]rune{0xFE8D, 0xFE8E, 0xFE8D, 0xFE8E}}, // alef
	'ب': {joinDual, [4]rune{0xFE8F, 0xFE90, 0xFE91, 0xFE92}},  // beh
	'ة': {joinRight, [4]rune{0xFE93, 0xFE94, 0xFE93, 0xFE94}}, // teh marbuta
	'ت': {joinDual, [4]rune{0xFE95, 0xFE96, 0xFE97, 0xFE98}},  // teh
	'ث': {joinDual, [4]rune{0xFE99, 0xFE9A, 0xFE9B, 0xFE9C}},  // theh
	'ج': {joinDual, [4]rune{0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0}},  // jeem
	'ح': {joinDual, [4]rune{0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4}},  // hah
	'خ': {joinDual, [4]rune{0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8}},  // khah
	'د': {joinRight, [4]rune{0xFEA9, 0xFEAA, 0xFEA9, 0xFEAA}}, // dal
	'ذ': {joinRight, [4]rune{0xFEAB, 0xFEAC, 0xFEAB, 0xFEAC}}, // thal
	'ر': {joinRight, [4]rune{0xFEAD, 0xFEAE, 0xFEAD, 0xFEAE}}, // reh
	'ز': {joinRight, [4]rune{0xFEAF, 0xFEB0, 0xFEAF, 0xFEB0}}, // zain
	'س': {joinDual, [4]rune{0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4}},  // seen
	'ش': {joinDual, [4]rune{0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8}},  // sheen
	'ص': {joinDual, [4]rune{0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC}},  // sad
	'ض': {joinDual, [4]rune{0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0}},  // dad
	'ط': {joinDual, [4]rune{0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4}},  // tah
	'ظ': {joinDual, [4]rune{0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8}},  // zah
	'ع': {joinDual, [4]rune{0xFEC9, 0xFECA, 0xFECB, 0xFECC}},  // ain
	'غ': {joinDual, [4]rune{0xFECD, 0xFECE, 0xFECF, 0xFED0}},  // ghain
	'ـ': {joinDual, [4]rune{0x0640, 0x0640, 0x0640, 0x0640}},  // tatweel
	'ف': {joinDual, [4]rune{0xFED1, 0xFED2, 0xFED3, 0xFED4}},  // feh
	'ق': {joinDual, [4]rune{0xFED5, 0xFED6, 0xFED7, 0xFED8}},  // qaf
	'ك': {joinDual, [4]rune{0xFED9, 0xFEDA, 0xFEDB, 0xFEDC}},  // kaf
	'ل': {joinDual, [4]rune{0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0}},  // lam
	'م': {joinDual, [4]rune{0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4}},  // meem
	'ن': {joinDual, [4]rune{0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8}},  // noon
	'ه': {joinDual, [4]rune{0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC}},  // heh
	'و': {joinRight, [4]rune{0xFEED, 0xFEEE, 0xFEED, 0xFEEE}}, // waw
	'ى': {joinRight, [4]rune{0xFEEF, 0xFEF0, 0xFEEF, 0xFEF0}}, // alef maksura
	'ي': {joinDual, [4]rune{0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4}},  // yeh
	'پ': {joinDual, [4]rune{0xFB56, 0xFB57, 0xFB58, 0xFB59}},  // peh
	'چ': {joinDual, [4]rune{0xFB7A, 0xFB7B, 0xFB7C, 0xFB7D}},  // tcheh
	'ژ': {joinRight, [4]rune{0xFB8A, 0xFB8B, 0xFB8A, 0xFB8B}}, // jeh
	'ک': {joinDual, [4]rune{0xFB8E, 0xFB8F, 0xFB90, 0xFB91}},  // keheh
	'گ': {joinDual, [4]rune{0xFB92, 0xFB93, 0xFB94, 0xFB95}},  // gaf
	'ی': {joinDual, [4]rune{0xFBFC, 0xFBFD, 0xFBFE, 0xFBFF}},  // farsi yeh
}

const lam = 'ل'

// lamAlef maps the alef that follows a lam to the combined ligature. The
// ligature itself joins only to the right.
var lamAlef = map[rune]letter{
	'آ': {joinRight, [4]rune{0xFEF5, 0xFEF6, 0xFEF5, 0xFEF6}},
	'أ': {joinRight, [4]rune{0xFEF7, 0xFEF8, 0xFEF7, 0xFEF8}},
	'إ': {joinRight, [4]rune{0xFEF9, 0xFEFA, 0xFEF9, 0xFEFA}},
	'ا': {joinRight, [4]rune{0xFEFB, 0xFEFC, 0xFEFB, 0xFEFC}},
}

// isHaraka reports whether r is a combining mark that is transparent to
// joining.
func isHaraka(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670:
		return true
	case r >= 0x06D6 && r <= 0x06DC:
		return true
	case r >= 0x06DF && r <= 0x06E4:
		return true
	case r == 0x06E7 || r == 0x06E8:
		return true
	case r >= 0x06EA && r <= 0x06ED:
		return true
	}
	return false
}

type glyph struct {
	r      rune
	letter *letter
	mark   bool
}

// reshape replaces Arabic letters in logical-order text with the contextual
// presentation form each takes next to its neighbours.
func reshape(s string) string {
	runes := []rune(s)
	glyphs := make([]glyph, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isHaraka(r) {
			glyphs = append(glyphs, glyph{r: r, mark: true})
			continue
		}
		if r == lam && i+1 < len(runes) {
			if lig, ok := lamAlef[runes[i+1]]; ok {
				glyphs = append(glyphs, glyph{r: r, letter: &lig})
				i++
				continue
			}
		}
		if l, ok := letters[r]; ok {
			glyphs = append(glyphs, glyph{r: r, letter: &l})
			continue
		}
		glyphs = append(glyphs, glyph{r: r})
	}

	out := make([]rune, 0, len(glyphs))
	for i, g := range glyphs {
		if g.letter == nil {
			out = append(out, g.r)
			continue
		}

		prev := neighbour(glyphs, i, -1)
		next := neighbour(glyphs, i, +1)

		before := g.letter.join != joinNone && prev != nil && prev.join == joinDual
		after := g.letter.join == joinDual && next != nil && next.join != joinNone

		form := formIsolated
		switch {
		case before && after:
			form = formMedial
		case before:
			form = formFinal
		case after:
			form = formInitial
		}
		out = append(out, g.letter.forms[form])
	}
	return string(out)
}

// neighbour returns the nearest letter in direction step, skipping harakat.
// Any other character breaks the chain.
func neighbour(glyphs []glyph, i, step int) *letter {
	for j := i + step; j >= 0 && j < len(glyphs); j += step {
		if glyphs[j].mark {
			continue
		}
		return glyphs[j].letter
	}
	return nil
}
