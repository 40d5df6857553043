// Package ocr reads rendered certificates back with Tesseract to check that
// the name came out legibly.
//
// It wraps the Tesseract engine through gosseract/v2, so building it
// requires the Tesseract and Leptonica development libraries, and running it
// requires training data for each language used:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Arabic names need tesseract-ocr-ara and the language "ara".
//
// # Verification
//
// Verify crops the text box the renderer reported, recognizes it and looks
// for the expected name in the result after Normalize. A mismatch is not an
// error; callers decide what to do with it. Errors mean Tesseract itself
// could not run.
//
// # Performance
//
// Recognition is CPU-intensive. Verify only looks at the padded text box,
// never the whole page.
package ocr
