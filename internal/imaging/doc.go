// Package imaging provides the template-side image operations for certgen.
//
// It decodes and caches certificate templates, parses text colors, produces
// the mutable canvas a name is drawn on, crops regions for verification and
// draws coordinate grids used to choose explicit text positions.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner; X increases rightward and Y increases downward. Regions
// are half-open: Min is inclusive, Max is exclusive.
//
// # Thread Safety
//
// TemplateCache is safe for concurrent use. Cached templates are treated as
// read-only; Flatten returns an independent copy for drawing.
//
// # Color Representation
//
// Text colors are given as hex strings ("000000", "#FF8000", "#fff") and
// parsed into RGBColor.
package imaging
