package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/wizard"
)

func TestRegistrationOrganizationOtherBlocksAdvance(t *testing.T) {
	w := wizard.New(Registration(nil))
	w.Dispatch(wizard.SetValue{Field: FieldEmail, Value: "ada@vt.edu"})
	w.Dispatch(wizard.Advance{})
	w.Dispatch(wizard.SetValue{Field: FieldPassword, Value: "analytical"})
	w.Dispatch(wizard.Advance{})
	w.Dispatch(wizard.SetValue{Field: FieldName, Value: "Ada Lovelace"})
	w.Dispatch(wizard.Advance{})
	require.Equal(t, FieldOrganization, w.Current().ID)

	w.Dispatch(wizard.SetValue{Field: FieldOrganization, Value: domain.OrganizationOther})
	s := w.Dispatch(wizard.Advance{})
	assert.Equal(t, FieldOrganization, w.Current().ID)
	assert.Equal(t, "Please specify your organization", s.Error(FieldCustomOrganization))
}

func TestRegistrationRequestSubstitutesCustomValues(t *testing.T) {
	var submitted wizard.Values
	w := wizard.New(Registration(nil), wizard.WithCompletion(func(v wizard.Values) { submitted = v }))
	steps := []wizard.Action{
		wizard.SetValue{Field: FieldEmail, Value: " ada@vt.edu "},
		wizard.Advance{},
		wizard.SetValue{Field: FieldPassword, Value: "analytical"},
		wizard.Advance{},
		wizard.SetValue{Field: FieldName, Value: "Ada Lovelace"},
		wizard.Advance{},
		wizard.SetValue{Field: FieldOrganization, Value: domain.OrganizationOther},
		wizard.SetValue{Field: FieldCustomOrganization, Value: "Roanoke College"},
		wizard.Advance{},
		wizard.SetValue{Field: FieldSeekShare, Value: domain.IntentShare},
		wizard.Advance{},
		wizard.Toggle{Field: FieldResourceType, Option: domain.ResourceTypeExpertise},
		wizard.Toggle{Field: FieldResourceType, Option: domain.ResourceTypeOther},
		wizard.SetValue{Field: FieldCustomResourceType, Value: "compute time"},
		wizard.Advance{},
		wizard.SetValue{Field: FieldResearchArea, Value: "Computing"},
		wizard.Advance{},
		wizard.SetValue{Field: FieldDescription, Value: "Engines and notes"},
		wizard.Advance{},
	}
	for _, a := range steps {
		w.Dispatch(a)
	}
	require.True(t, w.State().Submitting())
	req := RegistrationRequest(submitted)
	assert.Equal(t, domain.Registration{
		Email:        "ada@vt.edu",
		Password:     "analytical",
		Name:         "Ada Lovelace",
		Organization: "Roanoke College",
		SeekShare:    "share",
		ResourceType: "expertise, compute time",
		Description:  "Engines and notes",
		ResearchArea: "Computing",
	}, req)
}

func TestRegistrationOrganizationsAlwaysEndWithOther(t *testing.T) {
	def := Registration([]string{"Other", "Radford University"})
	f, ok := def.Field(FieldOrganization)
	require.True(t, ok)
	assert.Equal(t, []string{"Radford University", "Other"}, f.Options)
}

func TestSearchRequestSendsIntentAndDescription(t *testing.T) {
	v := wizard.NewValues().
		WithText(FieldSeekShare, "seek").
		WithList(FieldResourceType, []string{"grants"}).
		WithText(FieldResearchArea, " Oncology ").
		WithText(FieldDescription, " tumour imaging ")
	req, criteria := SearchRequest(v)
	assert.Equal(t, domain.MatchRequest{SeekShare: "seek", Description: "tumour imaging"}, req)
	assert.Equal(t, "Oncology", criteria.ResearchArea)
	assert.Equal(t, []string{"grants"}, criteria.ResourceTypes)
}

func TestProfileEditDecodesAndEncodesResourceTypes(t *testing.T) {
	h := 12
	p := domain.Profile{
		Name:         "Grace Hopper",
		Email:        "grace@navy.mil",
		SeekShare:    "seek",
		ResourceType: "data, compilers",
		ResearchArea: "Languages",
		Description:  "Debugging",
		HIndex:       &h,
	}
	def := ProfileEdit(p)
	s := def.Start()
	assert.Equal(t, []string{"data", "other"}, s.Values.List(FieldResourceType))
	assert.Equal(t, "compilers", s.Values.Get(FieldCustomResourceType))
	assert.Equal(t, domain.StatusActive, s.Values.Get(FieldStatus))
	assert.Equal(t, "12", s.Values.Get(FieldHIndex))

	assert.Equal(t, "grace@navy.mil", s.Values.Get(FieldEmail))

	update := ProfileUpdate(s.Values.WithText(FieldCitations, "not a number"))
	require.NotNil(t, update.Email)
	assert.Equal(t, "grace@navy.mil", *update.Email)
	require.NotNil(t, update.ResourceType)
	assert.Equal(t, "data, compilers", *update.ResourceType)
	require.NotNil(t, update.HIndex)
	assert.Equal(t, 12, *update.HIndex)
	assert.Nil(t, update.Citations)
	assert.Nil(t, update.FundingSummary)
}

func TestProfileEditRequiresValidEmail(t *testing.T) {
	def := ProfileEdit(domain.Profile{Name: "Grace Hopper", Email: "grace@navy.mil"})
	s := wizard.Reduce(def, def.Start(), wizard.Advance{})
	require.Equal(t, 1, s.Step)
	assert.Equal(t, FieldEmail, def.Fields[s.Step].ID)

	s = wizard.Reduce(def, s, wizard.SetValue{Field: FieldEmail, Value: "not-an-email"})
	s = wizard.Reduce(def, s, wizard.Advance{})
	assert.Equal(t, 1, s.Step)
	assert.NotEmpty(t, s.Errors[FieldEmail])
}

func TestLoginFormValidation(t *testing.T) {
	errs := wizard.ValidateAll(Login(), wizard.NewValues())
	assert.Equal(t, "Email is required", errs[FieldEmail])
	assert.Equal(t, "Password is required", errs[FieldPassword])
	creds := LoginRequest(wizard.NewValues().WithText(FieldEmail, " a@b.co ").WithText(FieldPassword, " secret "))
	assert.Equal(t, domain.Credentials{Email: "a@b.co", Password: " secret "}, creds)
}
