package analyzer

import (
	"image"
	"image/color"
	"math"
)

// ContrastDetector finds drawn regions with the Sobel operator. It works on
// any frame, including thumbnails whose background is not flat.
type ContrastDetector struct {
	MinBlockArea  int     // Minimum area in pixels²
	EdgeThreshold float64 // Gradient magnitude threshold
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	gray := toGrayscale(img)
	edges := sobelEdgeDetection(gray, d.EdgeThreshold)
	// connect the edges of glyphs into words and lines
	dilated := dilate(edges, 5, 2)
	return collectBlocks(findContours(dilated), d.MinBlockArea, "edge", 0.7), nil
}

// InkDetector marks every pixel that differs from a flat background. Frames
// rendered by this tool have exactly such a background, which makes this
// both faster and exact at the frame border, where Sobel has no neighbours.
type InkDetector struct {
	Background   color.Color
	Threshold    uint8 // Largest per-channel difference still counted as background
	MinBlockArea int
}

func NewInkDetector(bg color.Color) *InkDetector {
	if bg == nil {
		bg = color.Black
	}
	return &InkDetector{Background: bg, Threshold: 24, MinBlockArea: 16}
}

func (d *InkDetector) Detect(img image.Image) ([]Block, error) {
	bounds := img.Bounds()
	mask := image.NewGray(bounds)
	br, bgG, bb, _ := d.Background.RGBA()
	bgc := [3]uint8{uint8(br >> 8), uint8(bgG >> 8), uint8(bb >> 8)}

	rgba, fast := img.(*image.RGBA)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var px [3]uint8
			if fast {
				i := rgba.PixOffset(x, y)
				px = [3]uint8{rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]}
			} else {
				r, g, b, _ := img.At(x, y).RGBA()
				px = [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
			}
			if channelDiff(px, bgc) > d.Threshold {
				mask.Pix[mask.PixOffset(x, y)] = 255
			}
		}
	}

	// dilation keeps the pixel border untouched, so the raw mask is merged
	// back in to keep ink that touches the frame edge
	dilated := dilate(mask, 3, 2)
	for i, v := range mask.Pix {
		if v > dilated.Pix[i] {
			dilated.Pix[i] = v
		}
	}
	return collectBlocks(findContours(dilated), d.MinBlockArea, "ink", 0.9), nil
}

func channelDiff(a, b [3]uint8) uint8 {
	var m uint8
	for i := range a {
		d := a[i] - b[i]
		if b[i] > a[i] {
			d = b[i] - a[i]
		}
		if d > m {
			m = d
		}
	}
	return m
}

func collectBlocks(contours []image.Rectangle, minArea int, kind string, confidence float64) []Block {
	blocks := []Block{}
	for _, rect := range contours {
		if rect.Dx()*rect.Dy() >= minArea {
			blocks = append(blocks, Block{Rect: rect, Type: kind, Confidence: confidence})
		}
	}
	return blocks
}

func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := rgba.PixOffset(x, y)
				r, g, b := uint32(rgba.Pix[i]), uint32(rgba.Pix[i+1]), uint32(rgba.Pix[i+2])
				// same weights as color.GrayModel
				gray.Pix[gray.PixOffset(x, y)] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
			}
		}
		return gray
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	gx := [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return edges
}

// dilate performs morphological dilation with a square kernel. Pixels closer
// than kernelSize/2 to the border are left at zero.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)

		for y := bounds.Min.Y + half; y < bounds.Max.Y-half; y++ {
			for x := bounds.Min.X + half; x < bounds.Max.X-half; x++ {
				maxVal := uint8(0)
				for ky := -half; ky <= half && maxVal < 255; ky++ {
					for kx := -half; kx <= half; kx++ {
						if val := result.GrayAt(x+kx, y+ky).Y; val > maxVal {
							maxVal = val
						}
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}

		result = temp
	}

	return result
}

// findContours returns the bounding rectangles of connected white regions
func findContours(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	visited := make([][]bool, bounds.Dy())
	for i := range visited {
		visited[i] = make([]bool, bounds.Dx())
	}

	contours := []image.Rectangle{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[y-bounds.Min.Y][x-bounds.Min.X] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}
	return contours
}

func floodFill(img *image.Gray, visited [][]bool, startX, startY int) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		if visited[y-bounds.Min.Y][x-bounds.Min.X] || img.GrayAt(x, y).Y <= 128 {
			continue
		}
		visited[y-bounds.Min.Y][x-bounds.Min.X] = true

		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
