package engine

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/scene2video/internal/system"
)

const benchmarkLog = "benchmark.log"

type perfReport struct {
	Total    time.Duration
	Render   time.Duration
	Concat   time.Duration
	Frames   int
	Segments int
	Scenes   []string
	Host     system.HostStats
}

func (r perfReport) fps() float64 {
	if r.Render <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Render.Seconds()
}

func (p *VideoProject) writeReport(r perfReport) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Run: %s\n"+
			"Total Time: %.2fs\n"+
			"Render+Encode: %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Frames: %d in %d segments\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, p.runID, r.Total.Seconds(), r.Render.Seconds(), r.Concat.Seconds(),
		r.Frames, r.Segments, r.fps(), r.Host,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Scenes: %s | Frames: %d | %dx%d@%d | Total: %.2fs | Render: %.2fs | FPS: %.2f | CPU: %d | Heap: %d MB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		strings.Join(r.Scenes, ","),
		r.Frames,
		p.Config.Width, p.Config.Height, p.Config.FPS,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.fps(),
		r.Host.LogicalCPUs,
		r.Host.HeapAllocMB,
	)

	f, err := os.OpenFile(benchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Warnf("[!] Не удалось записать %s: %v", benchmarkLog, err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		log.Warnf("[!] Не удалось записать %s: %v", benchmarkLog, err)
	}
}

func printPlan(segments []Segment, fps int) {
	fmt.Println("[*] План сегментов (dry run):")
	for _, s := range segments {
		kind := "анимация"
		if s.Static {
			kind = "статичный"
		}
		fmt.Printf("  #%02d %-16s %7.2fs +%5.2fs  %4d кадров  %-9s %s\n",
			s.Index, s.Scene.Name, s.Offset, s.Duration(fps), s.Frames, kind, s.Label)
	}
}
