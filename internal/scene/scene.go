package scene

import (
	"errors"
	"fmt"
)

var (
	ErrUndeclared       = errors.New("object was never added to the scene")
	ErrForwardReference = errors.New("object is added after the directive that uses it")
	ErrNotOnStage       = errors.New("object is not on stage")
	ErrAlreadyOnStage   = errors.New("object is already on stage")
	ErrDuplicateID      = errors.New("duplicate object id")
	ErrDuplicateTarget  = errors.New("object appears twice in one play group")
	ErrInvalidTiming    = errors.New("invalid timing")
)

// EntryKind distinguishes play groups from pauses.
type EntryKind int

const (
	EntryPlay EntryKind = iota
	EntryWait
)

func (k EntryKind) String() string {
	if k == EntryWait {
		return "wait"
	}
	return "play"
}

// Entry is one step of the Timeline: a group of directives that play
// together, or a pause.
type Entry struct {
	Kind       EntryKind
	Directives []Directive
	Wait       float64
}

// Duration of the entry in seconds.
func (e Entry) Duration() float64 {
	if e.Kind == EntryWait {
		return e.Wait
	}
	var d float64
	for _, dir := range e.Directives {
		if end := dir.End(); end > d {
			d = end
		}
	}
	return d
}

// Span is the absolute time range of a timeline entry.
type Span struct {
	Start float64
	End   float64
}

// Cue is a directive placed on the absolute time axis.
type Cue struct {
	Entry     int
	Directive Directive
	Start     float64
	End       float64
}

// Scene is an ordered set of declared objects and the timeline that animates them.
type Scene struct {
	Name     string
	Timeline []Entry

	objects []*Object
	byID    map[string]*Object
	errs    []error
}

func New(name string) *Scene {
	return &Scene{Name: name, byID: make(map[string]*Object)}
}

// Add declares objects. A directive may only use objects added before it.
func (s *Scene) Add(objs ...*Object) *Scene {
	for _, o := range objs {
		if o.ID == "" {
			s.errs = append(s.errs, fmt.Errorf("%s: empty id: %w", o.Kind, ErrDuplicateID))
			continue
		}
		if _, ok := s.byID[o.ID]; ok {
			s.errs = append(s.errs, fmt.Errorf("%q: %w", o.ID, ErrDuplicateID))
			continue
		}
		o.declared = true
		o.declaredAt = len(s.Timeline)
		s.byID[o.ID] = o
		s.objects = append(s.objects, o)
	}
	return s
}

// Play appends a group of directives that start together.
func (s *Scene) Play(ds ...Directive) *Scene {
	s.Timeline = append(s.Timeline, Entry{Kind: EntryPlay, Directives: ds})
	return s
}

// Wait appends a pause.
func (s *Scene) Wait(seconds float64) *Scene {
	s.Timeline = append(s.Timeline, Entry{Kind: EntryWait, Wait: seconds})
	return s
}

// Objects returns the declared objects in declaration order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Object returns the object with the given id.
func (s *Scene) Object(id string) (*Object, bool) {
	o, ok := s.byID[id]
	return o, ok
}

// Duration is the total length of the timeline in seconds.
func (s *Scene) Duration() float64 {
	var total float64
	for _, e := range s.Timeline {
		total += e.Duration()
	}
	return total
}

// Spans returns the absolute time range of every timeline entry.
func (s *Scene) Spans() []Span {
	spans := make([]Span, len(s.Timeline))
	var t float64
	for i, e := range s.Timeline {
		spans[i] = Span{Start: t, End: t + e.Duration()}
		t = spans[i].End
	}
	return spans
}

// Schedule places every directive on the absolute time axis, in timeline order.
func (s *Scene) Schedule() []Cue {
	var cues []Cue
	for i, span := range s.Spans() {
		for _, d := range s.Timeline[i].Directives {
			start := span.Start + d.Delay()
			cues = append(cues, Cue{Entry: i, Directive: d, Start: start, End: start + d.RunTime})
		}
	}
	return cues
}

// OnStageAfter returns the objects on stage once entry i has finished, in
// declaration order. i < 0 means before the first entry.
func (s *Scene) OnStageAfter(i int) []*Object {
	stage := make(map[*Object]bool)
	for j := 0; j <= i && j < len(s.Timeline); j++ {
		for _, d := range s.Timeline[j].Directives {
			applyStage(stage, d)
		}
	}
	var out []*Object
	for _, o := range s.objects {
		if stage[o] {
			out = append(out, o)
		}
	}
	return out
}

func applyStage(stage map[*Object]bool, d Directive) {
	switch {
	case d.Action == ActionFadeTransform:
		delete(stage, d.Target)
		stage[d.Replacement] = true
	case d.Action.Brings():
		stage[d.Target] = true
	case d.Action.Removes():
		delete(stage, d.Target)
	}
}

// Validate checks the timeline: objects are declared before use, on-stage
// state is consistent for every directive, and timings are sane.
func (s *Scene) Validate() error {
	errs := append([]error(nil), s.errs...)
	stage := make(map[*Object]bool)

	for i, e := range s.Timeline {
		if e.Kind == EntryWait {
			if e.Wait < 0 {
				errs = append(errs, fmt.Errorf("entry %d: wait %.2fs: %w", i, e.Wait, ErrInvalidTiming))
			}
			continue
		}

		seen := make(map[*Object]bool)
		for _, d := range e.Directives {
			if d.RunTime <= 0 || d.LagRatio < 0 || d.LagRatio > 1 {
				errs = append(errs, fmt.Errorf("entry %d: %s run_time=%.2f lag_ratio=%.2f: %w",
					i, d.Action, d.RunTime, d.LagRatio, ErrInvalidTiming))
			}
			if d.Action == ActionFadeTransform && d.Replacement == nil {
				errs = append(errs, fmt.Errorf("entry %d: %s without replacement: %w", i, d.Action, ErrUndeclared))
				continue
			}
			for _, o := range d.Objects() {
				if err := s.checkDeclared(i, o); err != nil {
					errs = append(errs, fmt.Errorf("entry %d: %s: %w", i, d.Action, err))
				}
				if seen[o] {
					errs = append(errs, fmt.Errorf("entry %d: %s: %w", i, o, ErrDuplicateTarget))
				}
				seen[o] = true
			}
			if err := checkStage(stage, d); err != nil {
				errs = append(errs, fmt.Errorf("entry %d: %s: %w", i, d.Action, err))
			}
		}
		// the whole group starts from the same stage
		for _, d := range e.Directives {
			if d.Target != nil && (d.Action != ActionFadeTransform || d.Replacement != nil) {
				applyStage(stage, d)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) checkDeclared(entry int, o *Object) error {
	if o == nil {
		return ErrUndeclared
	}
	if !o.declared || s.byID[o.ID] != o {
		return fmt.Errorf("%s: %w", o, ErrUndeclared)
	}
	if o.declaredAt > entry {
		return fmt.Errorf("%s: %w", o, ErrForwardReference)
	}
	return nil
}

func checkStage(stage map[*Object]bool, d Directive) error {
	if d.Target == nil {
		return nil
	}
	switch {
	case d.Action == ActionFadeTransform:
		if !stage[d.Target] {
			return fmt.Errorf("%s: %w", d.Target, ErrNotOnStage)
		}
		if stage[d.Replacement] {
			return fmt.Errorf("%s: %w", d.Replacement, ErrAlreadyOnStage)
		}
	case d.Action.Brings():
		if stage[d.Target] {
			return fmt.Errorf("%s: %w", d.Target, ErrAlreadyOnStage)
		}
	case d.Action.Removes():
		if !stage[d.Target] {
			return fmt.Errorf("%s: %w", d.Target, ErrNotOnStage)
		}
	}
	return nil
}
