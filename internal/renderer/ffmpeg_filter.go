package renderer

import (
	"fmt"
	"strings"
)

// GenerateDebugFilter creates an FFmpeg drawtext overlay that prints the
// segment number, its label and the scene time. offset is the segment start
// within its scene, so the printed time matches the cue sheet.
func GenerateDebugFilter(segment int, label string, offset float64) string {
	return fmt.Sprintf(
		"drawtext=text='Segment %d | %s | %%{pts\\:hms\\:%.3f}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5",
		segment+1, escapeDrawtext(label), offset,
	)
}

// escapeDrawtext strips characters that would end the quoted text or the
// filter option.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		"\\", "",
		"'", "",
		":", "\\:",
		"%", "",
		",", "\\,",
	)
	return r.Replace(s)
}
