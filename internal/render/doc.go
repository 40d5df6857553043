// Package render draws one certificate: a name set in a TrueType font on a
// template image, optionally with a QR code, exported as PDF or a raster
// image.
//
// Output is deterministic. Rendering the same request twice produces
// byte-identical files, because the PDF creation date is taken from the
// template's modification time and the PDF catalog is written sorted.
//
// Files are written through a temporary file in the destination directory
// and renamed into place, so a failed render never leaves a partial file.
package render
