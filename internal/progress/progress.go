package progress

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Stage of a render run.
type Stage string

const (
	StagePlan    Stage = "plan"
	StageRender  Stage = "render"
	StageConcat  Stage = "concat"
	StageDone    Stage = "done"
	StageFailed  Stage = "failed"
	StageCheck   Stage = "check"
	StageCueList Stage = "cues"
)

// Event is a progress update. Done and Total count segments.
type Event struct {
	RunID   string    `json:"run_id"`
	Stage   Stage     `json:"stage"`
	Scene   string    `json:"scene,omitempty"`
	Segment int       `json:"segment"`
	Label   string    `json:"label,omitempty"`
	Done    int       `json:"done"`
	Total   int       `json:"total"`
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

// Fraction is Done/Total, or 0 when nothing is planned yet.
func (e Event) Fraction() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Done) / float64(e.Total)
}

// Reporter receives progress events. Report must be safe for concurrent use.
type Reporter interface {
	Report(Event)
	Close() error
}

// Multi fans every event out to all reporters.
type Multi []Reporter

func (m Multi) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// Close closes every reporter and returns the first error.
func (m Multi) Close() error {
	var first error
	for _, r := range m {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogReporter writes events to a logrus logger.
type LogReporter struct {
	Logger log.FieldLogger
}

func NewLogReporter() *LogReporter {
	return &LogReporter{Logger: log.StandardLogger()}
}

func (r *LogReporter) Report(e Event) {
	entry := r.Logger.WithFields(log.Fields{"prefix": string(e.Stage), "run": shortID(e.RunID)})
	switch e.Stage {
	case StageRender:
		entry.Infof("[>] Готово: %d/%d (%s #%d %s)", e.Done, e.Total, e.Scene, e.Segment, e.Label)
	case StageFailed:
		entry.Errorf("[!] %s", e.Message)
	case StageDone:
		entry.Infof("[+++] %s", e.Message)
	default:
		entry.Infof("[*] %s", e.Message)
	}
}

func (r *LogReporter) Close() error { return nil }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
