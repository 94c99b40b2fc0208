package scene

// Action is the kind of an Animation Directive.
type Action string

const (
	ActionWrite         Action = "write"
	ActionFadeIn        Action = "fade_in"
	ActionFadeOut       Action = "fade_out"
	ActionCreate        Action = "create"
	ActionUncreate      Action = "uncreate"
	ActionFadeTransform Action = "fade_transform"
)

// DefaultRunTime is the run time of a directive without an explicit one.
const DefaultRunTime = 1.0

// Brings reports whether the action puts its target on stage.
func (a Action) Brings() bool {
	return a == ActionWrite || a == ActionFadeIn || a == ActionCreate
}

// Removes reports whether the action takes its target off stage.
func (a Action) Removes() bool {
	return a == ActionFadeOut || a == ActionUncreate || a == ActionFadeTransform
}

// Directive is an Animation Directive bound to one object, or to a source and
// its replacement for ActionFadeTransform.
type Directive struct {
	Action      Action
	Target      *Object
	Replacement *Object
	RunTime     float64
	LagRatio    float64
}

// DirectiveOption adjusts the timing of a Directive.
type DirectiveOption func(*Directive)

// RunTime sets the run time in seconds.
func RunTime(seconds float64) DirectiveOption {
	return func(d *Directive) { d.RunTime = seconds }
}

// LagRatio delays the directive by ratio*runTime from the start of its group.
func LagRatio(ratio float64) DirectiveOption {
	return func(d *Directive) { d.LagRatio = ratio }
}

func newDirective(a Action, target, replacement *Object, opts []DirectiveOption) Directive {
	d := Directive{Action: a, Target: target, Replacement: replacement, RunTime: DefaultRunTime}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func Write(o *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionWrite, o, nil, opts)
}

func FadeIn(o *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionFadeIn, o, nil, opts)
}

func FadeOut(o *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionFadeOut, o, nil, opts)
}

func Create(o *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionCreate, o, nil, opts)
}

func Uncreate(o *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionUncreate, o, nil, opts)
}

// FadeTransform fades from into to while morphing between their bounds.
func FadeTransform(from, to *Object, opts ...DirectiveOption) Directive {
	return newDirective(ActionFadeTransform, from, to, opts)
}

// Delay is the offset of the directive from the start of its group.
func (d Directive) Delay() float64 {
	return d.LagRatio * d.RunTime
}

// End is the directive end relative to the start of its group.
func (d Directive) End() float64 {
	return d.Delay() + d.RunTime
}

// Objects returns the objects the directive touches.
func (d Directive) Objects() []*Object {
	if d.Replacement != nil {
		return []*Object{d.Target, d.Replacement}
	}
	return []*Object{d.Target}
}
