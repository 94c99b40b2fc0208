package effects

import (
	"fmt"

	"github.com/fogleman/ease"

	"github.com/ivlev/scene2video/internal/scene"
)

// Role tells an Effect which side of a directive it is applied to.
type Role int

const (
	RoleTarget Role = iota
	RoleReplacement
)

// Effect maps the eased progress of a directive onto the render state of one
// of its objects.
type Effect interface {
	Apply(st *State, d scene.Directive, role Role, p float64)
}

// EffectFunc adapts a function to the Effect interface.
type EffectFunc func(st *State, d scene.Directive, role Role, p float64)

func (f EffectFunc) Apply(st *State, d scene.Directive, role Role, p float64) {
	f(st, d, role, p)
}

type entry struct {
	effect Effect
	easing func(float64) float64
}

var registry = map[scene.Action]entry{
	scene.ActionWrite:         {EffectFunc(write), ease.Linear},
	scene.ActionFadeIn:        {EffectFunc(fadeIn), ease.InOutCubic},
	scene.ActionFadeOut:       {EffectFunc(fadeOut), ease.InOutCubic},
	scene.ActionCreate:        {EffectFunc(create), ease.InOutCubic},
	scene.ActionUncreate:      {EffectFunc(uncreate), ease.InOutCubic},
	scene.ActionFadeTransform: {EffectFunc(fadeTransform), ease.InOutCubic},
}

// Lookup returns the effect and its rate function for an action.
func Lookup(a scene.Action) (Effect, func(float64) float64, error) {
	e, ok := registry[a]
	if !ok {
		return nil, nil, fmt.Errorf("unknown action: %s", a)
	}
	return e.effect, e.easing, nil
}

func write(st *State, _ scene.Directive, _ Role, p float64) {
	st.Reveal = p
}

func fadeIn(st *State, _ scene.Directive, _ Role, p float64) {
	st.Alpha = p
}

func fadeOut(st *State, _ scene.Directive, _ Role, p float64) {
	st.Alpha = 1 - p
}

func create(st *State, _ scene.Directive, _ Role, p float64) {
	st.Reveal = p
	st.FillAlpha = p
}

func uncreate(st *State, d scene.Directive, role Role, p float64) {
	create(st, d, role, 1-p)
}

// fadeTransform moves both objects from the source bounds to the replacement
// bounds while cross-fading them.
func fadeTransform(st *State, d scene.Directive, role Role, p float64) {
	src, dst := d.Target, d.Replacement
	st.Center = src.Center.Lerp(dst.Center, p)

	ratio := 1.0
	if h, hd := src.Bounds().Height(), dst.Bounds().Height(); h > 0 && hd > 0 {
		ratio = hd / h
	}

	switch role {
	case RoleTarget:
		st.Scale = src.Scale * lerp(1, ratio, p)
		st.Alpha = 1 - p
	case RoleReplacement:
		st.Scale = dst.Scale * lerp(1/ratio, 1, p)
		st.Alpha = p
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
