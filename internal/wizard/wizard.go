package wizard

// Option customizes a Wizard.
type Option func(*Wizard)

// WithCompletion registers fn to run when the wizard enters the submitting
// state. It receives a copy of the final values.
func WithCompletion(fn func(Values)) Option {
	return func(w *Wizard) {
		if fn != nil {
			w.onComplete = fn
		}
	}
}

// Wizard is a mutable handle over Reduce.
type Wizard struct {
	def        Definition
	state      State
	onComplete func(Values)
}

// New creates a wizard positioned on its first step.
func New(def Definition, opts ...Option) *Wizard {
	w := &Wizard{def: def, state: def.Start()}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Dispatch applies a and returns the new state. The completion callback runs
// on the transition into the submitting state only.
func (w *Wizard) Dispatch(a Action) State {
	prev := w.state
	w.state = Reduce(w.def, prev, a)
	if !prev.Submitting() && w.state.Submitting() && w.onComplete != nil {
		w.onComplete(w.state.Values.Clone())
	}
	return w.state
}

// State returns the current state.
func (w *Wizard) State() State { return w.state }

// Definition returns the wizard's definition.
func (w *Wizard) Definition() Definition { return w.def }

// Current returns the field of the current step.
func (w *Wizard) Current() Field {
	if w.def.Len() == 0 {
		return Field{}
	}
	return w.def.Fields[clampStep(w.state.Step, w.def.Len())]
}

// Progress returns the 1-based step number and the step count.
func (w *Wizard) Progress() (int, int) {
	return clampStep(w.state.Step, w.def.Len()) + 1, w.def.Len()
}

// Percent returns how far through the steps the wizard is, 0-100.
func (w *Wizard) Percent() int {
	step, total := w.Progress()
	if total == 0 {
		return 100
	}
	return step * 100 / total
}

// First reports whether the wizard is on its first step.
func (w *Wizard) First() bool { return w.state.Step == 0 }

// Last reports whether the wizard is on its last step.
func (w *Wizard) Last() bool { return w.state.Step >= w.def.Len()-1 }
