// Package forms defines the concrete wizards of the client (registration,
// match search, profile editing, login) and converts their values into the
// request bodies of the API.
package forms

import (
	"strconv"
	"strings"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/wizard"
)

// Field ids. The paired "other" fields are not steps of their own; they are
// edited on the step of the choice that reveals them.
const (
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldName               = "name"
	FieldOrganization       = "organization"
	FieldCustomOrganization = "customOrganization"
	FieldSeekShare          = "seek_share"
	FieldResourceType       = "resource_type"
	FieldCustomResourceType = "customResourceType"
	FieldResearchArea       = "research_area"
	FieldDescription        = "description"
	FieldStatus             = "status"
	FieldHIndex             = "h_index"
	FieldCitations          = "citations"
	FieldFundingSummary     = "funding_summary"
)

func organizationOther() *wizard.Other {
	return &wizard.Other{
		Trigger:     domain.OrganizationOther,
		FieldID:     FieldCustomOrganization,
		Message:     "Please specify your organization",
		Placeholder: "Please specify your organization",
	}
}

func resourceTypeOther() *wizard.Other {
	return &wizard.Other{
		Trigger:     domain.ResourceTypeOther,
		FieldID:     FieldCustomResourceType,
		Message:     "Please specify your resource type",
		Placeholder: "Please specify your resource type",
	}
}

// organizationOptions appends the "Other" sentinel to the configured list
// unless it is already there.
func organizationOptions(orgs []string) []string {
	if len(orgs) == 0 {
		orgs = domain.DefaultOrganizations
	}
	out := make([]string, 0, len(orgs)+1)
	for _, org := range orgs {
		if org == domain.OrganizationOther {
			continue
		}
		out = append(out, org)
	}
	return append(out, domain.OrganizationOther)
}

// Registration builds the eight-step sign-up wizard.
func Registration(orgs []string) wizard.Definition {
	return wizard.Definition{
		Fields: []wizard.Field{
			{ID: FieldEmail, Title: "Email Address", Subtitle: "Enter your email address", Kind: wizard.KindEmail, Required: true},
			{ID: FieldPassword, Title: "Password", Subtitle: "Create a secure password (min 6 characters)", Kind: wizard.KindPassword, Required: true},
			{ID: FieldName, Title: "Full Name", Subtitle: "Enter your full name", Kind: wizard.KindText, Required: true},
			{ID: FieldOrganization, Title: "Organization", Subtitle: "Select your organization", Kind: wizard.KindOrganization, Options: organizationOptions(orgs), Required: true, Other: organizationOther()},
			{ID: FieldSeekShare, Title: "Seeking or Sharing", Subtitle: "Are you seeking or sharing resources?", Kind: wizard.KindChoice, Options: domain.Intents, Required: true},
			{ID: FieldResourceType, Title: "Resource Type", Subtitle: "Select all resource types you are interested in (at least one required)", Kind: wizard.KindMultiChoice, Options: domain.ResourceTypeOptions, Required: true, Other: resourceTypeOther()},
			{ID: FieldResearchArea, Title: "Research Area", Subtitle: "Enter your research area", Kind: wizard.KindText, Required: true},
			{ID: FieldDescription, Title: "Description", Subtitle: "Describe your research interests and what you're looking for", Kind: wizard.KindTextArea, Required: true},
		},
		Initial: wizard.NewValues(),
	}
}

// RegistrationRequest converts finished registration values into the
// request body. A custom organization replaces "Other" and the resource
// types are comma-joined with the custom type substituted.
func RegistrationRequest(v wizard.Values) domain.Registration {
	org := v.Trimmed(FieldOrganization)
	if org == domain.OrganizationOther {
		if custom := v.Trimmed(FieldCustomOrganization); custom != "" {
			org = custom
		}
	}
	return domain.Registration{
		Email:        v.Trimmed(FieldEmail),
		Password:     v.Get(FieldPassword),
		Name:         v.Trimmed(FieldName),
		Organization: org,
		SeekShare:    v.Get(FieldSeekShare),
		ResourceType: domain.EncodeResourceTypes(v.List(FieldResourceType), v.Get(FieldCustomResourceType)),
		Description:  v.Trimmed(FieldDescription),
		ResearchArea: v.Trimmed(FieldResearchArea),
	}
}

// Search builds the match search wizard.
func Search() wizard.Definition {
	return wizard.Definition{
		Fields: []wizard.Field{
			{ID: FieldSeekShare, Title: "Seeking or Sharing", Subtitle: "Are you looking to seek or share resources?", Kind: wizard.KindChoice, Options: domain.Intents, Required: true},
			{ID: FieldResourceType, Title: "Resource Type", Subtitle: "Select all that apply", Kind: wizard.KindMultiChoice, Options: domain.StandardResourceTypes, Required: true},
			{ID: FieldResearchArea, Title: "Research Area", Subtitle: "e.g., Machine Learning, Biology, Psychology", Kind: wizard.KindText, Required: true},
			{ID: FieldDescription, Title: "Brief Description", Subtitle: "Describe what you're looking for...", Kind: wizard.KindTextArea, Required: true},
		},
		Initial: wizard.NewValues(),
	}
}

// SearchCriteria is what the results screen shows about the search that
// produced it.
type SearchCriteria struct {
	SeekShare     string
	ResourceTypes []string
	ResearchArea  string
	Description   string
}

// SearchRequest converts finished search values into the match request and
// the criteria kept for display. Only intent and description reach the
// server; the rest is context for the user.
func SearchRequest(v wizard.Values) (domain.MatchRequest, SearchCriteria) {
	criteria := SearchCriteria{
		SeekShare:     v.Get(FieldSeekShare),
		ResourceTypes: v.List(FieldResourceType),
		ResearchArea:  v.Trimmed(FieldResearchArea),
		Description:   v.Trimmed(FieldDescription),
	}
	return domain.MatchRequest{SeekShare: criteria.SeekShare, Description: criteria.Description}, criteria
}

// ProfileEdit builds the profile editing wizard pre-filled from p. Resource
// types are decoded into the list form; a custom type lands in the paired
// field.
func ProfileEdit(p domain.Profile) wizard.Definition {
	initial := wizard.NewValues()
	initial.Text[FieldName] = p.Name
	initial.Text[FieldEmail] = p.Email
	initial.Text[FieldOrganization] = p.Organization
	initial.Text[FieldSeekShare] = p.SeekShare
	initial.Text[FieldResearchArea] = p.ResearchArea
	initial.Text[FieldDescription] = p.Description
	initial.Text[FieldStatus] = p.Status
	if initial.Text[FieldStatus] == "" {
		initial.Text[FieldStatus] = domain.StatusActive
	}
	types, custom := domain.DecodeResourceTypes(p.ResourceType)
	initial.Lists[FieldResourceType] = types
	initial.Text[FieldCustomResourceType] = custom
	if p.HIndex != nil {
		initial.Text[FieldHIndex] = strconv.Itoa(*p.HIndex)
	}
	if p.Citations != nil {
		initial.Text[FieldCitations] = strconv.Itoa(*p.Citations)
	}
	if p.FundingSummary != nil {
		initial.Text[FieldFundingSummary] = *p.FundingSummary
	}
	return wizard.Definition{
		Fields: []wizard.Field{
			{ID: FieldName, Title: "Full Name", Subtitle: "Your name as other researchers see it", Kind: wizard.KindText, Required: true},
			{ID: FieldEmail, Title: "Email", Subtitle: "Changing it signs you out", Kind: wizard.KindEmail, Required: true},
			{ID: FieldOrganization, Title: "Organization", Subtitle: "Your institution or department", Kind: wizard.KindText},
			{ID: FieldSeekShare, Title: "Seeking or Sharing", Subtitle: "Are you seeking or sharing resources?", Kind: wizard.KindChoice, Options: domain.Intents, Required: true},
			{ID: FieldResourceType, Title: "Resource Type", Subtitle: "Select all that apply", Kind: wizard.KindMultiChoice, Options: domain.ResourceTypeOptions, Required: true, Other: resourceTypeOther()},
			{ID: FieldResearchArea, Title: "Research Area", Subtitle: "Comma-separated areas, most important first", Kind: wizard.KindText, Required: true},
			{ID: FieldDescription, Title: "Description", Subtitle: "Describe your research interests", Kind: wizard.KindTextArea, Required: true},
			{ID: FieldStatus, Title: "Profile Status", Subtitle: "Inactive profiles are hidden from matching", Kind: wizard.KindChoice, Options: []string{domain.StatusActive, domain.StatusInactive}, Required: true},
			{ID: FieldHIndex, Title: "h-index", Subtitle: "Optional, whole number", Kind: wizard.KindText},
			{ID: FieldCitations, Title: "Citations", Subtitle: "Optional, total citation count", Kind: wizard.KindText},
			{ID: FieldFundingSummary, Title: "Funding Summary", Subtitle: "Optional, current and past funding", Kind: wizard.KindTextArea},
		},
		Initial: initial,
	}
}

// ProfileUpdate converts finished profile values into the PUT body. Numeric
// proof-of-work fields that do not parse are left out rather than rejected;
// the server keeps its copy in that case.
func ProfileUpdate(v wizard.Values) domain.ProfileUpdate {
	str := func(id string) *string {
		s := v.Trimmed(id)
		return &s
	}
	resourceType := domain.EncodeResourceTypes(v.List(FieldResourceType), v.Get(FieldCustomResourceType))
	update := domain.ProfileUpdate{
		Name:         str(FieldName),
		Email:        str(FieldEmail),
		Organization: str(FieldOrganization),
		SeekShare:    str(FieldSeekShare),
		ResourceType: &resourceType,
		ResearchArea: str(FieldResearchArea),
		Description:  str(FieldDescription),
		Status:       str(FieldStatus),
	}
	if n, ok := parseCount(v.Get(FieldHIndex)); ok {
		update.HIndex = &n
	}
	if n, ok := parseCount(v.Get(FieldCitations)); ok {
		update.Citations = &n
	}
	if funding := v.Trimmed(FieldFundingSummary); funding != "" {
		update.FundingSummary = &funding
	}
	return update
}

func parseCount(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Login is the flat login form.
func Login() []wizard.Field {
	return []wizard.Field{
		{ID: FieldEmail, Title: "Email", Subtitle: "you@university.edu", Kind: wizard.KindEmail, Required: true},
		{ID: FieldPassword, Title: "Password", Subtitle: "Your password", Kind: wizard.KindPassword, Required: true},
	}
}

// LoginRequest converts login form values into credentials.
func LoginRequest(v wizard.Values) domain.Credentials {
	return domain.Credentials{Email: v.Trimmed(FieldEmail), Password: v.Get(FieldPassword)}
}
