package effects

import (
	"github.com/ivlev/scene2video/internal/scene"
)

// State is the render state of one object at one instant.
type State struct {
	Object  *scene.Object
	Visible bool
	// Alpha multiplies the object's opacity.
	Alpha float64
	// Reveal is the drawn portion of the outline or text, 0..1.
	Reveal float64
	// FillAlpha multiplies the fill opacity.
	FillAlpha float64
	Center    scene.Vec
	Scale     float64
}

func settled(o *scene.Object) State {
	return State{
		Object:    o,
		Visible:   true,
		Alpha:     1,
		Reveal:    1,
		FillAlpha: 1,
		Center:    o.Center,
		Scale:     o.Scale,
	}
}

// Evaluate returns the visible objects of sc at time t, in declaration order.
func Evaluate(sc *scene.Scene, t float64) []State {
	return EvaluateCues(sc.Objects(), sc.Schedule(), t)
}

// EvaluateCues is Evaluate over a precomputed schedule.
func EvaluateCues(objects []*scene.Object, cues []scene.Cue, t float64) []State {
	states := make(map[*scene.Object]*State, len(objects))
	for _, o := range objects {
		st := State{Object: o}
		states[o] = &st
	}

	for _, c := range cues {
		if t < c.Start {
			continue
		}
		d := c.Directive
		if t >= c.End {
			finish(states, d)
			continue
		}

		eff, easing, err := Lookup(d.Action)
		if err != nil {
			continue
		}
		p := easing(clamp01((t - c.Start) / d.RunTime))

		if st, ok := states[d.Target]; ok {
			*st = settled(d.Target)
			eff.Apply(st, d, RoleTarget, p)
		}
		if d.Replacement != nil {
			if st, ok := states[d.Replacement]; ok {
				*st = settled(d.Replacement)
				eff.Apply(st, d, RoleReplacement, p)
			}
		}
	}

	var out []State
	for _, o := range objects {
		if st := states[o]; st.Visible {
			out = append(out, *st)
		}
	}
	return out
}

func finish(states map[*scene.Object]*State, d scene.Directive) {
	set := func(o *scene.Object, visible bool) {
		st, ok := states[o]
		if !ok {
			return
		}
		if visible {
			*st = settled(o)
		} else {
			*st = State{Object: o}
		}
	}

	switch {
	case d.Action == scene.ActionFadeTransform:
		set(d.Target, false)
		set(d.Replacement, true)
	case d.Action.Brings():
		set(d.Target, true)
	case d.Action.Removes():
		set(d.Target, false)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
