package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/engine"
	"github.com/ivlev/scene2video/internal/progress"
	"github.com/ivlev/scene2video/internal/scenes"
	"github.com/ivlev/scene2video/internal/system"
	"github.com/ivlev/scene2video/internal/video"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML-файл конфигурации (флаги имеют приоритет)")
	scenePtr := flag.String("scene", "hello-triangle", "Сцены через запятую: "+strings.Join(scenes.Names(), ", "))
	listPtr := flag.Bool("list", false, "Показать доступные сцены и выйти")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	fontsPtr := flag.String("fonts", "assets/fonts", "Папка со шрифтами сцен")
	thumbsPtr := flag.String("thumbnails", "", "PDF или папка с изображениями для превью демо (по умолчанию: input/thumbnails/)")
	endCardPtr := flag.String("end-card-url", "", "URL для финальной карточки с QR-кодом (добавляет сцену end-card)")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", false, "Продлить финальную паузу до длины аудио")
	cuesPtr := flag.String("cues", "", "Папка для cue sheet (YAML-расписание анимаций)")
	dryRunPtr := flag.Bool("dry-run", false, "Только показать план сегментов")
	checkPtr := flag.Bool("check", false, "Проверить, что ничего не обрезано краем кадра")
	detectorPtr := flag.String("detector", "ink", "Детектор для -check: ink или contrast")
	snapshotPtr := flag.Float64("snapshot", -1, "Сохранить один кадр в момент T (сек) вместо видео")
	snapshotOutPtr := flag.String("snapshot-out", "", "Путь к PNG для -snapshot")
	debugPtr := flag.Bool("debug", false, "Наложить номер сегмента и время на видео")
	statsPtr := flag.Bool("stats", false, "Отчет о производительности и запись в benchmark.log")
	tuiPtr := flag.Bool("tui", false, "Интерактивный прогресс в терминале")
	mqttPtr := flag.String("mqtt", "", "MQTT-брокер для публикации прогресса, например tcp://localhost:1883")
	verbosePtr := flag.Bool("verbose", false, "Подробный лог")

	flag.Parse()

	if *listPtr {
		for _, name := range scenes.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения конфигурации: %v", err)
		}
		cfg = loaded
	}

	// флаги, заданные явно, перекрывают файл конфигурации
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	apply := func(name string, fn func()) {
		if set[name] || *configPtr == "" {
			fn()
		}
	}
	apply("scene", func() { cfg.Scenes = splitList(*scenePtr) })
	apply("output", func() { cfg.OutputVideo = *outputPtr })
	apply("width", func() { cfg.Width = *widthPtr })
	apply("height", func() { cfg.Height = *heightPtr })
	apply("fps", func() { cfg.FPS = *fpsPtr })
	apply("workers", func() { cfg.Workers = *workersPtr })
	apply("preset", func() { cfg.Preset = *presetPtr })
	apply("quality", func() { cfg.Quality = *qualityPtr })
	apply("fonts", func() { cfg.FontsDir = *fontsPtr })
	apply("thumbnails", func() { cfg.Thumbnails = *thumbsPtr })
	apply("end-card-url", func() { cfg.EndCardURL = *endCardPtr })
	apply("audio", func() { cfg.AudioPath = *audioPtr })
	apply("audio-sync", func() { cfg.AudioSync = *audioSyncPtr })
	apply("cues", func() { cfg.CueSheet = *cuesPtr })
	apply("dry-run", func() { cfg.DryRun = *dryRunPtr })
	apply("check", func() { cfg.Check = *checkPtr })
	apply("detector", func() { cfg.Detector = *detectorPtr })
	apply("snapshot-out", func() { cfg.SnapshotOutput = *snapshotOutPtr })
	apply("debug", func() { cfg.Debug = *debugPtr })
	apply("stats", func() { cfg.ShowStats = *statsPtr })
	apply("tui", func() { cfg.TUI = *tuiPtr })
	apply("mqtt", func() { cfg.MQTT.URL = *mqttPtr })
	apply("verbose", func() { cfg.Verbose = *verbosePtr })
	if set["snapshot"] {
		cfg.SnapshotTime = *snapshotPtr
	}
	cfg.BuildVersion = version

	logOut := io.Writer(os.Stderr)
	if cfg.TUI {
		// прогресс-бар занимает терминал, лог уходит в файл
		f, err := os.OpenFile("scene2video.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("[-] Не удалось открыть лог: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	system.SetupLogging(logOut, cfg.Verbose)

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	for _, d := range []string{"input/audio", "input/thumbnails", "output"} {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Warnf("[!] Не удалось создать %s: %v", d, err)
		}
	}

	if err := cfg.ApplyPreset(); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	if len(cfg.Scenes) == 0 {
		log.Fatalf("[-] Не выбрана ни одна сцена. Доступны: %s", strings.Join(scenes.Names(), ", "))
	}

	if cfg.EndCardURL != "" && !contains(cfg.Scenes, "end-card") {
		cfg.Scenes = append(cfg.Scenes, "end-card")
	}

	if cfg.Thumbnails == "" {
		cfg.Thumbnails = findThumbnails("input/thumbnails")
		if cfg.Thumbnails != "" {
			fmt.Printf("[*] Превью: %s\n", cfg.Thumbnails)
		}
	}

	if cfg.AudioPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			cfg.AudioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", cfg.AudioPath)
		}
	}

	sceneTag := strings.Join(cfg.Scenes, "+")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if cfg.OutputVideo == "" {
		cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", sceneTag, timestamp))
	}
	if set["snapshot"] && cfg.SnapshotOutput == "" {
		cfg.SnapshotOutput = filepath.Join("output", fmt.Sprintf("%s_%.2fs.png", cfg.Scenes[0], cfg.SnapshotTime))
	}

	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
	}
	if cfg.Debug && !system.CheckFilterSupport("drawtext") {
		log.Warnf("[!] FFmpeg собран без drawtext, отладочный оверлей отключен")
		cfg.Debug = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := buildReporter(cfg)

	project := engine.NewVideoProject(cfg, &video.FFmpegEncoder{}, reporter)
	log.Debugf("run %s, build %s", project.RunID(), version)

	if cfg.SnapshotOutput != "" {
		if err := project.Snapshot(ctx, cfg.Scenes[0], cfg.SnapshotTime, cfg.SnapshotOutput); err != nil {
			reporter.Close()
			log.Fatalf("[-] Ошибка снимка кадра: %v", err)
		}
		reporter.Close()
		return
	}

	if err := project.Run(ctx); err != nil {
		reporter.Close()
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}
	reporter.Close()

	if !cfg.DryRun {
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	}
}

func buildReporter(cfg *config.Config) progress.Reporter {
	var reporters progress.Multi
	if cfg.TUI {
		reporters = append(reporters, progress.NewTUIReporter(os.Stderr))
	} else {
		reporters = append(reporters, progress.NewLogReporter())
	}
	if cfg.MQTT.URL != "" {
		r, err := progress.NewMQTTReporter(progress.MQTTOptions{
			URL:      cfg.MQTT.URL,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
		})
		if err != nil {
			log.Warnf("[!] MQTT недоступен, прогресс не публикуется: %v", err)
		} else {
			reporters = append(reporters, r)
		}
	}
	return reporters
}

// findThumbnails prefers the newest PDF in dir, then the images in it.
func findThumbnails(dir string) string {
	if pdf, err := system.FindLatestPDF(dir); err == nil {
		return pdf
	}
	if _, err := system.FindLatestImage(dir); err == nil {
		return dir
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
