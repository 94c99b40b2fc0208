package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ivlev/scene2video/internal/config"
)

// FrameSource отдает кадры одного сегмента по порядку.
type FrameSource interface {
	// Frame возвращает кадр i сегмента, 0 <= i < params.Frames
	Frame(i int) (*image.RGBA, error)
	// Release возвращает кадр после записи
	Release(img *image.RGBA)
}

type VideoEncoder interface {
	EncodeSegment(ctx context.Context, frames FrameSource, videoPath string, params config.SegmentParams, encoderName string, quality int) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.Config) error
}

type FFmpegEncoder struct{}

func (e *FFmpegEncoder) EncodeSegment(
	ctx context.Context,
	frames FrameSource,
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) error {
	if params.Frames <= 0 {
		return fmt.Errorf("segment %d has no frames", params.Index)
	}

	args := e.buildFFmpegArgs(videoPath, params, encoderName, quality)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Кадры идут в ffmpeg как raw RGBA без промежуточных файлов
	for i := 0; i < params.Frames; i++ {
		img, err := frames.Frame(i)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		err = e.writeRawRGBA(stdin, img)
		frames.Release(img)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error: %w, output: %s", err, out.String())
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if params.Filter != "" {
		args = append(args, "-vf", params.Filter)
	}
	args = append(args,
		"-frames:v", fmt.Sprintf("%d", params.Frames),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, videoPath)
	return args
}

// qualityArgs переводит одно число качества в параметры конкретного энкодера
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox не везде понимает -q:v, поэтому битрейт: 75 -> 7.5 Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func (e *FFmpegEncoder) writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// Concatenate склеивает сегменты через concat demuxer. Кодек и размер кадра у
// сегментов общие, поэтому видео копируется без перекодирования. Аудио, если
// задано, подмешивается, а результат обрезается по более короткому потоку.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.Config) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concatenate")
	}

	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	if err := writeConcatList(concatFilePath, segmentPaths); err != nil {
		return err
	}

	args := concatArgs(concatFilePath, finalPath, params.AudioPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %w, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range segmentPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", absPath); err != nil {
			return err
		}
	}
	return nil
}

func concatArgs(listPath, finalPath, audioPath string) []string {
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if audioPath == "" {
		return append(args, "-c", "copy", finalPath)
	}
	return append(args,
		"-i", audioPath,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "copy", "-c:a", "aac",
		"-shortest",
		finalPath,
	)
}
