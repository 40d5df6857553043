// Package shaping prepares right-to-left names for drawing with a plain
// glyph-by-glyph font renderer.
//
// golang.org/x/image/font draws runes left to right and performs no
// contextual substitution, so Arabic text must arrive already converted to
// presentation forms and already in visual order. Shape does both; for text
// with no right-to-left characters it is the identity.
package shaping
