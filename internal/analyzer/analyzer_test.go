package analyzer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameWithRects(w, h int, bg color.Color, rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	}
	return img
}

func TestContrastDetector(t *testing.T) {
	img := frameWithRects(200, 200, color.Black, image.Rect(50, 50, 150, 150))

	blocks, err := NewContrastDetector().Detect(img)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)

	block := blocks[0]
	assert.GreaterOrEqual(t, block.Rect.Dx(), 80, "block too small: %v", block.Rect)
	assert.GreaterOrEqual(t, block.Rect.Dy(), 80, "block too small: %v", block.Rect)
	assert.Equal(t, "edge", block.Type)
}

func TestInkDetector(t *testing.T) {
	bg := color.RGBA{R: 10, G: 10, B: 30, A: 255}
	img := frameWithRects(320, 180, bg,
		image.Rect(20, 20, 60, 40),
		image.Rect(200, 100, 260, 170),
	)

	blocks, err := NewInkDetector(bg).Detect(img)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	SortBlocks(blocks)
	// dilation grows each region by up to two pixels per side
	assert.True(t, image.Rect(20, 20, 60, 40).In(blocks[0].Rect))
	assert.True(t, blocks[0].Rect.In(image.Rect(18, 18, 62, 42)))
	assert.True(t, image.Rect(200, 100, 260, 170).In(blocks[1].Rect))
}

func TestInkDetectorEmptyFrame(t *testing.T) {
	img := frameWithRects(64, 64, color.Black)
	blocks, err := NewInkDetector(color.Black).Detect(img)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestClippedBlocks(t *testing.T) {
	bounds := image.Rect(0, 0, 320, 180)
	img := frameWithRects(320, 180, color.Black,
		image.Rect(100, 60, 200, 120),
		image.Rect(0, 10, 30, 40),
		image.Rect(250, 150, 320, 180),
	)

	blocks, err := NewInkDetector(color.Black).Detect(img)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	clipped := ClippedBlocks(blocks, bounds, 4)
	require.Len(t, clipped, 2)
	assert.Equal(t, 0, clipped[0].Rect.Min.X)
	assert.Equal(t, 320, clipped[1].Rect.Max.X)
}

func TestSortBlocks(t *testing.T) {
	blocks := []Block{
		{Rect: image.Rect(300, 105, 350, 130)},
		{Rect: image.Rect(10, 100, 50, 120)},
		{Rect: image.Rect(10, 10, 50, 30)},
	}
	SortBlocks(blocks)
	assert.Equal(t, 10, blocks[0].Rect.Min.Y)
	assert.Equal(t, 10, blocks[1].Rect.Min.X)
	assert.Equal(t, 300, blocks[2].Rect.Min.X)
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"ink", false},
		{"", false},
		{"ocr", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant, color.Black)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, detector)
		})
	}
}
