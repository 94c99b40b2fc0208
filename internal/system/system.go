package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
	imageExtensions = []string{".jpg", ".jpeg", ".png"}
)

// InitResourceLimits поднимает лимит открытых файлов: каждый сегмент держит
// процесс ffmpeg и его пайпы.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warnf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warnf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		log.Debugf("[*] Системный лимит открытых файлов увеличен до %d", rLimit.Cur)
	}
}

// FindLatestPDF находит самый свежий PDF в папке
func FindLatestPDF(dir string) (string, error) {
	return findLatest(dir, []string{".pdf"}, "PDF-файлов")
}

// FindLatestAudio находит самый свежий аудио-файл в папке
func FindLatestAudio(dir string) (string, error) {
	return findLatest(dir, audioExtensions, "аудио-файлов")
}

// FindLatestImage находит самое свежее изображение в папке
func FindLatestImage(dir string) (string, error) {
	return findLatest(dir, imageExtensions, "изображений")
}

func findLatest(dir string, extensions []string, what string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено %s", dir, what)
	}
	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetAudioDuration получает длительность аудио через ffprobe
func GetAudioDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}

// GetBestH264Encoder выбирает аппаратный H.264 энкодер, если он есть в ffmpeg.
// Порядок: VideoToolbox (macOS), NVENC (NVIDIA), затем libx264.
func GetBestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encoders string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoders, name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality - качество по умолчанию для каждого энкодера
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

// CheckFilterSupport проверяет, собран ли ffmpeg с указанным фильтром
func CheckFilterSupport(name string) bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").CombinedOutput()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
