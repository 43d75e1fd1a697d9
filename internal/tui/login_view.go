package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/forms"
	"github.com/kingrea/researchmatch/internal/wizard"
)

// loginView is the flat two-field form. Unlike the wizards it validates every
// field at once on submit.
type loginView struct {
	fields []wizard.Field
	inputs []textinput.Model
	focus  int
	errors map[string]string
}

func newLoginView() *loginView {
	fields := forms.Login()
	v := &loginView{fields: fields, errors: map[string]string{}}
	for _, f := range fields {
		in := newTextInput()
		in.Placeholder = f.Subtitle
		if f.Kind == wizard.KindPassword {
			in.EchoMode = textinput.EchoPassword
		}
		v.inputs = append(v.inputs, in)
	}
	v.inputs[0].Focus()
	return v
}

func (v *loginView) values() wizard.Values {
	values := wizard.NewValues()
	for i, f := range v.fields {
		values.Text[f.ID] = v.inputs[i].Value()
	}
	return values
}

func (v *loginView) credentials() domain.Credentials {
	return forms.LoginRequest(v.values())
}

func (v *loginView) setFocus(i int) {
	n := len(v.inputs)
	v.focus = ((i % n) + n) % n
	for idx := range v.inputs {
		if idx == v.focus {
			v.inputs[idx].Focus()
		} else {
			v.inputs[idx].Blur()
		}
	}
}

// Update returns true when the form is valid and should be submitted.
func (v *loginView) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		v.setFocus(v.focus + 1)
		return false, nil
	case "shift+tab", "up":
		v.setFocus(v.focus - 1)
		return false, nil
	case "enter":
		if v.focus < len(v.inputs)-1 {
			v.setFocus(v.focus + 1)
			return false, nil
		}
		v.errors = wizard.ValidateAll(v.fields, v.values())
		return len(v.errors) == 0, nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	delete(v.errors, v.fields[v.focus].ID)
	return false, cmd
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Log in"))
	b.WriteString("\n\n")
	for i, f := range v.fields {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(f.Title))
		b.WriteString("\n")
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
		if msg := v.errors[f.ID]; msg != "" {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("tab switch field • enter log in • esc back"))
	return b.String()
}
