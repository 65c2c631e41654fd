// Package grid owns the binary raster used by the morphology engine.
//
// A Grid is a fixed-size rectangle of boolean pixels stored in a flat,
// row-major buffer: the pixel at (x, y) lives at index x + y*width.
// Reads outside the rectangle are defined and return false, which lets
// neighbourhood sweeps run off the image edge without special cases.
//
// Kernels (structuring elements) are ordinary Grids.
package grid
