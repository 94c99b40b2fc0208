package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2video/internal/config"
)

func TestBuildFFmpegArgs(t *testing.T) {
	e := &FFmpegEncoder{}
	params := config.SegmentParams{Width: 1280, Height: 720, FPS: 30, Frames: 36}

	args := e.buildFFmpegArgs("out/s005.mp4", params, "libx264", 23)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-f rawvideo -pixel_format rgba -video_size 1280x720 -framerate 30 -i -")
	assert.Contains(t, joined, "-frames:v 36")
	assert.Contains(t, joined, "-c:v libx264 -crf 23 -preset medium")
	assert.NotContains(t, joined, "-vf")
	assert.Equal(t, "out/s005.mp4", args[len(args)-1])

	params.Filter = "drawtext=text='x'"
	args = e.buildFFmpegArgs("s.mp4", params, "h264_nvenc", 28)
	joined = strings.Join(args, " ")
	assert.Contains(t, joined, "-vf drawtext=text='x'")
	assert.Contains(t, joined, "-c:v h264_nvenc -cq 28")
}

func TestQualityArgs(t *testing.T) {
	assert.Equal(t, []string{"-b:v", "7500k"}, qualityArgs("h264_videotoolbox", 75))
	assert.Equal(t, []string{"-cq", "28"}, qualityArgs("h264_nvenc", 28))
	assert.Equal(t, []string{"-crf", "18", "-preset", "medium"}, qualityArgs("libx264", 18))
}

func TestConcatArgs(t *testing.T) {
	args := concatArgs("list.txt", "final.mp4", "")
	assert.Equal(t, []string{"-y", "-f", "concat", "-safe", "0", "-i", "list.txt", "-c", "copy", "final.mp4"}, args)

	args = concatArgs("list.txt", "final.mp4", "voice.mp3")
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i voice.mp3 -map 0:v -map 1:a -c:v copy -c:a aac -shortest final.mp4")
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "inputs.txt")
	segs := []string{filepath.Join(dir, "s000.mp4"), filepath.Join(dir, "s001.mp4")}
	require.NoError(t, writeConcatList(list, segs))

	data, err := os.ReadFile(list)
	require.NoError(t, err)
	assert.Equal(t, "file '"+segs[0]+"'\nfile '"+segs[1]+"'\n", string(data))
}

func TestWriteRawRGBA(t *testing.T) {
	e := &FFmpegEncoder{}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	var buf bytes.Buffer
	require.NoError(t, e.writeRawRGBA(&buf, img))
	assert.Equal(t, img.Pix, buf.Bytes())

	// sub-images are copied out row by row
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.Set(2, 2, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	sub := big.SubImage(image.Rect(2, 2, 4, 4))
	buf.Reset()
	require.NoError(t, e.writeRawRGBA(&buf, sub))
	require.Len(t, buf.Bytes(), 2*2*4)
	assert.Equal(t, []byte{1, 2, 3, 255}, buf.Bytes()[:4])
}

func TestEncodeSegmentRejectsEmpty(t *testing.T) {
	e := &FFmpegEncoder{}
	err := e.EncodeSegment(context.Background(), nil, "s.mp4", config.SegmentParams{Index: 3}, "libx264", 23)
	assert.Error(t, err)

	err = e.Concatenate(context.Background(), nil, "final.mp4", t.TempDir(), config.Config{})
	assert.Error(t, err)
}
