package wizard

// Phase distinguishes editing from the terminal submitting state.
type Phase int

const (
	PhaseStep Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "step"
}

// State is a snapshot of a wizard. Treat it as a value: Reduce never mutates
// the maps of the state it was given.
type State struct {
	Step   int
	Phase  Phase
	Values Values
	Errors map[string]string
}

// Submitting reports whether the wizard has passed its last step.
func (s State) Submitting() bool { return s.Phase == PhaseSubmitting }

// Error returns the validation message recorded for id.
func (s State) Error(id string) string {
	if s.Errors == nil {
		return ""
	}
	return s.Errors[id]
}

// HasErrors reports whether any validation message is recorded.
func (s State) HasErrors() bool { return len(s.Errors) > 0 }

// Action is an input to Reduce.
type Action interface {
	action()
}

// SetValue replaces the text value of a field (or of a paired "other" field).
type SetValue struct {
	Field string
	Value string
}

// Toggle adds Option to a multi-choice field, or removes it when present.
type Toggle struct {
	Field  string
	Option string
}

// Advance validates the current step and moves forward.
type Advance struct{}

// Retreat moves back one step and clears all messages.
type Retreat struct{}

// Reset returns to the first step with the initial values.
type Reset struct{}

// Resume leaves the submitting state for the last step, keeping values.
// Callers dispatch it when the submission failed and may be retried.
type Resume struct{}

func (SetValue) action() {}
func (Toggle) action()   {}
func (Advance) action()  {}
func (Retreat) action()  {}
func (Reset) action()    {}
func (Resume) action()   {}

// Reduce applies a to s and returns the next state.
func Reduce(def Definition, s State, a Action) State {
	switch a.(type) {
	case Reset:
		return def.Start()
	case Resume:
		if !s.Submitting() {
			return s
		}
		next := s.copy()
		next.Phase = PhaseStep
		next.Step = max(0, def.Len()-1)
		return next
	}
	if s.Submitting() {
		return s
	}
	switch act := a.(type) {
	case SetValue:
		next := s.copy()
		next.Values.Text[act.Field] = act.Value
		delete(next.Errors, act.Field)
		return next
	case Toggle:
		f, ok := def.Field(act.Field)
		if !ok || !f.Kind.IsList() {
			return s
		}
		next := s.copy()
		list := next.Values.Lists[act.Field]
		if idx := indexOf(list, act.Option); idx >= 0 {
			list = append(list[:idx:idx], list[idx+1:]...)
		} else {
			list = append(list, act.Option)
		}
		next.Values.Lists[act.Field] = list
		delete(next.Errors, act.Field)
		return next
	case Advance:
		if def.Len() == 0 {
			next := s.copy()
			next.Phase = PhaseSubmitting
			return next
		}
		step := clampStep(s.Step, def.Len())
		next := s.copy()
		next.Step = step
		next.Errors = Validate(def.Fields[step], next.Values)
		if len(next.Errors) > 0 {
			return next
		}
		if step < def.Len()-1 {
			next.Step = step + 1
		} else {
			next.Phase = PhaseSubmitting
		}
		return next
	case Retreat:
		if s.Step <= 0 {
			return s
		}
		next := s.copy()
		next.Step = clampStep(s.Step-1, def.Len())
		next.Errors = map[string]string{}
		return next
	}
	return s
}

func (s State) copy() State {
	errs := make(map[string]string, len(s.Errors))
	for k, v := range s.Errors {
		errs[k] = v
	}
	return State{
		Step:   s.Step,
		Phase:  s.Phase,
		Values: s.Values.Clone(),
		Errors: errs,
	}
}

func clampStep(step, n int) int {
	if step < 0 {
		return 0
	}
	if n > 0 && step >= n {
		return n - 1
	}
	return step
}

func indexOf(list []string, target string) int {
	for i, item := range list {
		if item == target {
			return i
		}
	}
	return -1
}
