// Package web serves a small local page for generating certificates from a
// browser: four path fields, a replace checkbox, a Generate button and a
// progress bar.
package web
