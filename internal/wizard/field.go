package wizard

import "strings"

// Kind selects the input widget and the validation rules of a field.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPassword
	KindChoice
	KindMultiChoice
	KindTextArea
	KindOrganization
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	case KindChoice:
		return "choice"
	case KindMultiChoice:
		return "multi-choice"
	case KindTextArea:
		return "textarea"
	case KindOrganization:
		return "organization"
	default:
		return "unknown"
	}
}

// IsList reports whether values of this kind are ordered lists.
func (k Kind) IsList() bool { return k == KindMultiChoice }

// IsFreeText reports whether the field is typed rather than picked.
func (k Kind) IsFreeText() bool {
	switch k {
	case KindText, KindEmail, KindPassword, KindTextArea:
		return true
	}
	return false
}

// Other pairs a choice field with a free-text field that becomes required
// once Trigger is selected.
type Other struct {
	Trigger     string
	FieldID     string
	Message     string
	Placeholder string
}

// Field is one step of a wizard.
type Field struct {
	ID       string
	Title    string
	Subtitle string
	Kind     Kind
	Options  []string
	Required bool
	Other    *Other
}

// HasOption reports whether option is one of the field's options.
func (f Field) HasOption(option string) bool {
	for _, o := range f.Options {
		if o == option {
			return true
		}
	}
	return false
}

// OtherActive reports whether the paired free-text field is currently shown.
func (f Field) OtherActive(values Values) bool {
	if f.Other == nil {
		return false
	}
	if f.Kind.IsList() {
		return values.Has(f.ID, f.Other.Trigger)
	}
	return values.Get(f.ID) == f.Other.Trigger
}

// Definition is the immutable description of a wizard.
type Definition struct {
	Fields  []Field
	Initial Values
}

// Len returns the number of steps.
func (d Definition) Len() int { return len(d.Fields) }

// Field looks up a field by id.
func (d Definition) Field(id string) (Field, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Start returns the state a fresh wizard begins in.
func (d Definition) Start() State {
	return State{
		Step:   0,
		Phase:  PhaseStep,
		Values: d.Initial.Clone(),
		Errors: map[string]string{},
	}
}

// Values holds the current input of every field. Free-text and single
// choice fields live in Text; multi-choice fields live in Lists.
type Values struct {
	Text  map[string]string
	Lists map[string][]string
}

// NewValues returns an empty value set.
func NewValues() Values {
	return Values{Text: map[string]string{}, Lists: map[string][]string{}}
}

// Get returns the text value of id.
func (v Values) Get(id string) string {
	if v.Text == nil {
		return ""
	}
	return v.Text[id]
}

// Trimmed returns the text value of id without surrounding whitespace.
func (v Values) Trimmed(id string) string {
	return strings.TrimSpace(v.Get(id))
}

// List returns a copy of the list value of id.
func (v Values) List(id string) []string {
	if v.Lists == nil {
		return nil
	}
	src := v.Lists[id]
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Has reports whether the list value of id contains option.
func (v Values) Has(id, option string) bool {
	if v.Lists == nil {
		return false
	}
	for _, item := range v.Lists[id] {
		if item == option {
			return true
		}
	}
	return false
}

// Clone deep-copies the value set.
func (v Values) Clone() Values {
	out := NewValues()
	for k, val := range v.Text {
		out.Text[k] = val
	}
	for k, list := range v.Lists {
		cp := make([]string, len(list))
		copy(cp, list)
		out.Lists[k] = cp
	}
	return out
}

// WithText returns a copy of v with id set to value.
func (v Values) WithText(id, value string) Values {
	out := v.Clone()
	out.Text[id] = value
	return out
}

// WithList returns a copy of v with id set to list.
func (v Values) WithList(id string, list []string) Values {
	out := v.Clone()
	cp := make([]string, len(list))
	copy(cp, list)
	out.Lists[id] = cp
	return out
}
