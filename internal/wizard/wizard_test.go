package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() Definition {
	return Definition{
		Fields: []Field{
			{ID: "email", Title: "Email Address", Kind: KindEmail, Required: true},
			{ID: "password", Title: "Password", Kind: KindPassword, Required: true},
			{ID: "organization", Title: "Organization", Kind: KindOrganization, Required: true,
				Options: []string{"Virginia Tech", "Other"},
				Other:   &Other{Trigger: "Other", FieldID: "customOrganization", Message: "Please specify your organization"}},
			{ID: "seek_share", Title: "Seeking or Sharing", Kind: KindChoice, Options: []string{"seek", "share"}, Required: true},
			{ID: "resource_type", Title: "Resource Type", Kind: KindMultiChoice, Required: true,
				Options: []string{"grants", "data", "other"},
				Other:   &Other{Trigger: "other", FieldID: "customResourceType", Message: "Please specify your resource type"}},
			{ID: "description", Title: "Description", Kind: KindTextArea, Required: true},
		},
		Initial: NewValues(),
	}
}

func at(def Definition, step int, values Values) State {
	s := def.Start()
	s.Step = step
	s.Values = values
	return s
}

func TestAdvanceRequiresCurrentField(t *testing.T) {
	def := testDefinition()
	s := Reduce(def, def.Start(), Advance{})
	assert.Equal(t, 0, s.Step)
	assert.Equal(t, "Email Address is required", s.Error("email"))

	s = Reduce(def, s, SetValue{Field: "email", Value: "   "})
	assert.Empty(t, s.Error("email"), "editing clears the field message")
	s = Reduce(def, s, Advance{})
	assert.Equal(t, "Email Address is required", s.Error("email"), "whitespace only is empty")
}

func TestAdvanceValidatesEmailShape(t *testing.T) {
	def := testDefinition()
	s := Reduce(def, def.Start(), SetValue{Field: "email", Value: "ada@lovelace"})
	s = Reduce(def, s, Advance{})
	assert.Equal(t, MsgInvalidEmail, s.Error("email"))
	assert.Equal(t, 0, s.Step)

	s = Reduce(def, s, SetValue{Field: "email", Value: "ada@lovelace.org"})
	s = Reduce(def, s, Advance{})
	assert.Equal(t, 1, s.Step)
	assert.False(t, s.HasErrors())
}

func TestAdvanceEnforcesPasswordLength(t *testing.T) {
	def := testDefinition()
	s := at(def, 1, NewValues().WithText("password", "12345"))
	s = Reduce(def, s, Advance{})
	assert.Equal(t, MsgShortPassword, s.Error("password"))
	s = Reduce(def, s, SetValue{Field: "password", Value: "123456"})
	s = Reduce(def, s, Advance{})
	assert.Equal(t, 2, s.Step)
}

func TestOrganizationOtherRequiresCustomValue(t *testing.T) {
	def := testDefinition()
	s := at(def, 2, NewValues().WithText("organization", "Other"))
	s = Reduce(def, s, Advance{})
	assert.Equal(t, 2, s.Step, "must not transition")
	assert.Equal(t, "Please specify your organization", s.Error("customOrganization"))
	assert.Empty(t, s.Error("organization"))

	s = Reduce(def, s, SetValue{Field: "customOrganization", Value: "Roanoke College"})
	assert.False(t, s.HasErrors())
	s = Reduce(def, s, Advance{})
	assert.Equal(t, 3, s.Step)
}

func TestChoiceMustBeAnOption(t *testing.T) {
	def := testDefinition()
	s := at(def, 3, NewValues().WithText("seek_share", "lend"))
	s = Reduce(def, s, Advance{})
	assert.Equal(t, "Please select one of: seek, share", s.Error("seek_share"))
	s = Reduce(def, s, SetValue{Field: "seek_share", Value: ""})
	s = Reduce(def, s, Advance{})
	assert.Equal(t, "Seeking or Sharing is required", s.Error("seek_share"))
}

func TestMultiChoiceToggleAndOther(t *testing.T) {
	def := testDefinition()
	s := at(def, 4, NewValues())
	s = Reduce(def, s, Advance{})
	assert.Equal(t, "Resource Type is required", s.Error("resource_type"))

	s = Reduce(def, s, Toggle{Field: "resource_type", Option: "grants"})
	s = Reduce(def, s, Toggle{Field: "resource_type", Option: "other"})
	assert.Equal(t, []string{"grants", "other"}, s.Values.List("resource_type"))
	assert.Empty(t, s.Error("resource_type"))

	s = Reduce(def, s, Advance{})
	assert.Equal(t, 4, s.Step)
	assert.Equal(t, "Please specify your resource type", s.Error("customResourceType"))

	s = Reduce(def, s, Toggle{Field: "resource_type", Option: "other"})
	assert.Equal(t, []string{"grants"}, s.Values.List("resource_type"))
	s = Reduce(def, s, Advance{})
	assert.Equal(t, 5, s.Step)
}

func TestToggleIgnoresNonListFields(t *testing.T) {
	def := testDefinition()
	s := def.Start()
	next := Reduce(def, s, Toggle{Field: "email", Option: "x"})
	assert.Equal(t, s, next)
}

func TestRetreatClearsErrorsButKeepsValues(t *testing.T) {
	def := testDefinition()
	s := at(def, 1, NewValues().WithText("email", "a@b.co"))
	s = Reduce(def, s, Advance{})
	require.True(t, s.HasErrors())
	s = Reduce(def, s, Retreat{})
	assert.Equal(t, 0, s.Step)
	assert.False(t, s.HasErrors())
	assert.Equal(t, "a@b.co", s.Values.Get("email"))

	same := Reduce(def, s, Retreat{})
	assert.Equal(t, 0, same.Step, "cannot retreat past the first step")
}

func TestAdvanceFromLastStep(t *testing.T) {
	def := testDefinition()
	last := def.Len() - 1
	s := at(def, last, NewValues())
	failed := Reduce(def, s, Advance{})
	assert.False(t, failed.Submitting())
	assert.Equal(t, last, failed.Step)
	assert.Equal(t, s.Values, failed.Values, "only the error map changes")

	s = Reduce(def, failed, SetValue{Field: "description", Value: "Looking for a biostatistician"})
	s = Reduce(def, s, Advance{})
	assert.True(t, s.Submitting())

	frozen := Reduce(def, s, SetValue{Field: "description", Value: "changed"})
	assert.Equal(t, "Looking for a biostatistician", frozen.Values.Get("description"), "values are frozen while submitting")

	resumed := Reduce(def, s, Resume{})
	assert.False(t, resumed.Submitting())
	assert.Equal(t, last, resumed.Step)
	assert.Equal(t, "Looking for a biostatistician", resumed.Values.Get("description"))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	def := testDefinition()
	s := def.Start()
	_ = Reduce(def, s, SetValue{Field: "email", Value: "x@y.zz"})
	_ = Reduce(def, s, Advance{})
	assert.Empty(t, s.Values.Get("email"))
	assert.False(t, s.HasErrors())
}

func TestResetRestoresInitialValues(t *testing.T) {
	def := testDefinition()
	def.Initial = NewValues().WithText("email", "start@here.io")
	s := Reduce(def, def.Start(), SetValue{Field: "email", Value: "other@here.io"})
	s = Reduce(def, s, Advance{})
	s = Reduce(def, s, Reset{})
	assert.Equal(t, 0, s.Step)
	assert.Equal(t, "start@here.io", s.Values.Get("email"))
}

func TestWizardCompletionCallback(t *testing.T) {
	var calls int
	var got Values
	def := Definition{
		Fields:  []Field{{ID: "name", Title: "Name", Kind: KindText, Required: true}},
		Initial: NewValues(),
	}
	w := New(def, WithCompletion(func(v Values) {
		calls++
		got = v
	}))
	w.Dispatch(Advance{})
	assert.Zero(t, calls)
	w.Dispatch(SetValue{Field: "name", Value: "Grace"})
	w.Dispatch(Advance{})
	w.Dispatch(Advance{})
	assert.Equal(t, 1, calls, "callback fires once per transition")
	assert.Equal(t, "Grace", got.Get("name"))
	assert.Equal(t, 100, w.Percent())
}

func TestValidateAll(t *testing.T) {
	fields := []Field{
		{ID: "email", Title: "Email", Kind: KindEmail, Required: true},
		{ID: "password", Title: "Password", Kind: KindPassword, Required: true},
	}
	errs := ValidateAll(fields, NewValues().WithText("email", "bad"))
	assert.Equal(t, map[string]string{
		"email":    MsgInvalidEmail,
		"password": "Password is required",
	}, errs)
}
