package analyzer

import (
	"image"
	"sort"
)

// Block represents a detected drawn region in a frame
type Block struct {
	Rect       image.Rectangle
	Type       string  // "ink", "edge"
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for frame analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// ClippedBlocks returns the blocks that come within margin pixels of the
// frame bounds, in reading order. Such blocks are usually cut off by the
// edge of the video.
func ClippedBlocks(blocks []Block, bounds image.Rectangle, margin int) []Block {
	inner := bounds.Inset(margin)
	var clipped []Block
	for _, b := range blocks {
		if !b.Rect.In(inner) {
			clipped = append(clipped, b)
		}
	}
	SortBlocks(clipped)
	return clipped
}

// SortBlocks orders blocks top-to-bottom, then left-to-right within a row.
func SortBlocks(blocks []Block) {
	// blocks whose tops differ by less than this share a row
	const rowThreshold = 20

	sort.SliceStable(blocks, func(i, j int) bool {
		yDiff := blocks[i].Rect.Min.Y - blocks[j].Rect.Min.Y
		if abs(yDiff) > rowThreshold {
			return yDiff < 0
		}
		return blocks[i].Rect.Min.X < blocks[j].Rect.Min.X
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
