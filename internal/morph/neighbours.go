package morph

import "github.com/banshee-data/binmorph/internal/grid"

// CheckNeighbours evaluates the kernel footprint anchored at image pixel
// (x, y). The anchor is the kernel centre (Width()/2, Height()/2). Near the
// top and left edges the sweep start is clamped so no coordinate left of or
// above the image is computed; cells past the right and bottom edges read as
// false via grid.Get.
//
// It returns flip as soon as a visited pixel equals flip, and !flip if none
// does.
func CheckNeighbours(image, kernel *grid.Grid, x, y int, flip bool) bool {
	ax := kernel.Width() / 2
	ay := kernel.Height() / 2

	ox := ax - min(ax, x)
	oy := ay - min(ay, y)

	for dx := ox; dx < kernel.Width()-ox; dx++ {
		for dy := oy; dy < kernel.Height()-oy; dy++ {
			if image.Get(x+dx-ax, y+dy-ay) == flip {
				return flip
			}
		}
	}
	return !flip
}
