// Package morph implements binary dilation and erosion of a grid.Grid
// against a rectangular kernel.
//
// Both operations share one neighbourhood test, CheckNeighbours, which is
// parameterised by flip: true asks "is any pixel under the kernel set?"
// (dilation), false asks "is every pixel under the kernel set?" (erosion).
//
// Only the kernel's width and height are used. Its cell values are not
// consulted, so every kernel behaves as a dense rectangle. Output row 0 and
// column 0 are never evaluated and stay unset.
package morph
