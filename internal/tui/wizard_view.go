package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/researchmatch/internal/wizard"
)

type wizardOutcome int

const (
	wizardEditing wizardOutcome = iota
	wizardSubmitted
	wizardCancelled
)

// wizardView renders a wizard.Wizard one step at a time. Widgets only mirror
// the wizard values; every edit goes through Dispatch.
type wizardView struct {
	title string
	wiz   *wizard.Wizard

	input textinput.Model
	area  textarea.Model
	other textinput.Model

	cursor       int
	otherFocused bool
	completed    *wizard.Values
}

func newWizardView(title string, def wizard.Definition) *wizardView {
	v := &wizardView{
		title: title,
		input: newTextInput(),
		area:  textarea.New(),
		other: newTextInput(),
	}
	v.area.ShowLineNumbers = false
	v.area.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	v.area.SetHeight(5)
	v.area.Cursor.SetMode(cursor.CursorStatic)
	v.wiz = wizard.New(def, wizard.WithCompletion(func(values wizard.Values) {
		v.completed = &values
	}))
	v.loadStep()
	return v
}

func newTextInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

// Values returns the submitted values, or the in-progress values while the
// wizard is still editing.
func (v *wizardView) Values() wizard.Values {
	if v.completed != nil {
		return v.completed.Clone()
	}
	return v.wiz.State().Values.Clone()
}

// Resume returns a submitted wizard to its last step after a failed request.
func (v *wizardView) Resume() {
	v.wiz.Dispatch(wizard.Resume{})
	v.completed = nil
	v.loadStep()
}

func (v *wizardView) SetWidth(width int) {
	w := max(20, width-4)
	v.input.Width = w
	v.other.Width = w
	v.area.SetWidth(w)
}

// loadStep copies the current field's value into its widget and focuses it.
func (v *wizardView) loadStep() {
	f := v.wiz.Current()
	values := v.wiz.State().Values
	v.input.Blur()
	v.area.Blur()
	v.other.Blur()
	v.otherFocused = false
	v.cursor = 0
	switch {
	case f.Kind == wizard.KindTextArea:
		v.area.SetValue(values.Get(f.ID))
		v.area.Focus()
	case f.Kind.IsFreeText():
		v.input.Reset()
		v.input.Placeholder = f.Subtitle
		v.input.EchoMode = textinput.EchoNormal
		if f.Kind == wizard.KindPassword {
			v.input.EchoMode = textinput.EchoPassword
		}
		v.input.SetValue(values.Get(f.ID))
		v.input.Focus()
	default:
		for i, opt := range f.Options {
			if opt == values.Get(f.ID) {
				v.cursor = i
				break
			}
		}
	}
	if f.Other != nil {
		v.other.Placeholder = f.Other.Placeholder
		v.other.SetValue(values.Get(f.Other.FieldID))
	}
}

func (v *wizardView) focusOther(on bool) {
	v.otherFocused = on
	if on {
		v.other.Focus()
		return
	}
	v.other.Blur()
}

func (v *wizardView) Update(msg tea.Msg) (wizardOutcome, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || v.wiz.State().Submitting() {
		return wizardEditing, nil
	}
	f := v.wiz.Current()
	switch keyMsg.String() {
	case "esc":
		if v.wiz.First() {
			return wizardCancelled, nil
		}
		v.wiz.Dispatch(wizard.Retreat{})
		v.loadStep()
		return wizardEditing, nil
	case "tab":
		if f.OtherActive(v.wiz.State().Values) {
			v.focusOther(!v.otherFocused)
		}
		return wizardEditing, nil
	case "enter":
		return v.enter(f), nil
	}

	var cmd tea.Cmd
	switch {
	case v.otherFocused:
		v.other, cmd = v.other.Update(keyMsg)
		v.wiz.Dispatch(wizard.SetValue{Field: f.Other.FieldID, Value: v.other.Value()})
	case f.Kind == wizard.KindTextArea:
		v.area, cmd = v.area.Update(keyMsg)
		v.wiz.Dispatch(wizard.SetValue{Field: f.ID, Value: v.area.Value()})
	case f.Kind.IsFreeText():
		v.input, cmd = v.input.Update(keyMsg)
		v.wiz.Dispatch(wizard.SetValue{Field: f.ID, Value: v.input.Value()})
	default:
		v.navigate(f, keyMsg.String())
	}
	return wizardEditing, cmd
}

func (v *wizardView) navigate(f wizard.Field, key string) {
	if len(f.Options) == 0 {
		return
	}
	switch key {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(f.Options)-1 {
			v.cursor++
		}
	case " ", "x":
		option := f.Options[v.cursor]
		if f.Kind.IsList() {
			v.wiz.Dispatch(wizard.Toggle{Field: f.ID, Option: option})
		} else {
			v.wiz.Dispatch(wizard.SetValue{Field: f.ID, Value: option})
		}
		if f.Other != nil && option == f.Other.Trigger {
			v.focusOther(f.OtherActive(v.wiz.State().Values))
		}
	}
}

func (v *wizardView) enter(f wizard.Field) wizardOutcome {
	if !f.Kind.IsFreeText() && !f.Kind.IsList() && !v.otherFocused && len(f.Options) > 0 {
		option := f.Options[v.cursor]
		v.wiz.Dispatch(wizard.SetValue{Field: f.ID, Value: option})
		values := v.wiz.State().Values
		if f.Other != nil && option == f.Other.Trigger && values.Trimmed(f.Other.FieldID) == "" {
			v.focusOther(true)
			return wizardEditing
		}
	}
	before := v.wiz.State().Step
	state := v.wiz.Dispatch(wizard.Advance{})
	if state.Submitting() {
		return wizardSubmitted
	}
	if state.Step != before {
		v.loadStep()
		return wizardEditing
	}
	if f.Other != nil && state.Error(f.Other.FieldID) != "" {
		v.focusOther(true)
	}
	return wizardEditing
}

func (v *wizardView) View(width int) string {
	f := v.wiz.Current()
	st := v.wiz.State()
	step, total := v.wiz.Progress()

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.title))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Step %d of %d", step, total)))
	b.WriteString("  ")
	b.WriteString(progressBar(v.wiz.Percent(), max(10, width-24)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(f.Title))
	b.WriteString("\n")
	if f.Subtitle != "" {
		b.WriteString(subtleStyle.Render(f.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case f.Kind == wizard.KindTextArea:
		b.WriteString(v.area.View())
	case f.Kind.IsFreeText():
		b.WriteString(v.input.View())
	default:
		b.WriteString(v.renderOptions(f, st.Values))
	}
	if msg := st.Error(f.ID); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msg))
	}
	if f.OtherActive(st.Values) {
		b.WriteString("\n\n")
		b.WriteString(v.other.View())
		if msg := st.Error(f.Other.FieldID); msg != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(msg))
		}
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(v.hint(f)))
	return b.String()
}

func (v *wizardView) renderOptions(f wizard.Field, values wizard.Values) string {
	lines := make([]string, 0, len(f.Options))
	for i, opt := range f.Options {
		pointer := "  "
		if i == v.cursor && !v.otherFocused {
			pointer = "› "
		}
		var mark string
		if f.Kind.IsList() {
			mark = "[ ]"
			if values.Has(f.ID, opt) {
				mark = "[x]"
			}
		} else {
			mark = "( )"
			if values.Get(f.ID) == opt {
				mark = "(•)"
			}
		}
		line := fmt.Sprintf("%s%s %s", pointer, mark, opt)
		if i == v.cursor {
			line = titleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *wizardView) hint(f wizard.Field) string {
	back := "esc back"
	if v.wiz.First() {
		back = "esc cancel"
	}
	next := "enter next"
	if v.wiz.Last() {
		next = "enter submit"
	}
	switch {
	case f.Kind == wizard.KindTextArea:
		return fmt.Sprintf("%s • ctrl+j newline • %s", next, back)
	case f.Kind.IsList():
		return fmt.Sprintf("↑/↓ move • space toggle • %s • %s", next, back)
	case !f.Kind.IsFreeText():
		return fmt.Sprintf("↑/↓ move • enter select • %s", back)
	}
	return fmt.Sprintf("%s • %s", next, back)
}

func progressBar(percent, width int) string {
	percent = min(100, max(0, percent))
	filled := width * percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(colorAccent).Render(bar) + fmt.Sprintf(" %d%%", percent)
}
