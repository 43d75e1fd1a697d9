// Package domain holds the records exchanged with the matching API and the
// fixed vocabularies (organizations, resource types, intents) shared by the
// wizard definitions, the result filters and the sandbox server.
package domain

// Intent values for the seek/share flag.
const (
	IntentSeek  = "seek"
	IntentShare = "share"
)

// Profile status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// OrganizationOther is the organization-select sentinel that asks for a
// custom organization name.
const OrganizationOther = "Other"

// DefaultOrganizations lists the organizations offered at registration and
// in the results organization filter.
var DefaultOrganizations = []string{
	"Carilion Clinic - Department of Medicine",
	"Virginia Tech",
	"Virginia Tech - FBRI",
}

// Intents lists the valid seek/share values in display order.
var Intents = []string{IntentSeek, IntentShare}

// OppositeIntent returns the intent a match candidate must have.
func OppositeIntent(intent string) string {
	if intent == IntentSeek {
		return IntentShare
	}
	return IntentSeek
}

// Researcher carries the public fields every match card renders.
type Researcher struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	SeekShare    string `json:"seek_share"`
	ResourceType string `json:"resource_type"`
	Description  string `json:"description"`
	ResearchArea string `json:"research_area"`
	PrimaryText  string `json:"primary_text,omitempty"`
}

// Card returns the researcher fields. MatchRecord and SavedMatch inherit it so
// the result filters can work over either list.
func (r Researcher) Card() Researcher { return r }

// MatchRecord is one candidate returned by POST /api/match.
type MatchRecord struct {
	Researcher
	MatchScore *float64 `json:"match_score,omitempty"`

	// Saved is local state; the server never sends it.
	Saved bool `json:"-"`
}

// SavedMatch is an entry of GET /matches/saved. The score is whatever string
// the client sent when saving, e.g. "85%".
type SavedMatch struct {
	Researcher
	MatchScore string `json:"match_score"`
}

// Publication is a proof-of-work entry on a profile.
type Publication struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Journal string `json:"journal,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// Profile is a full researcher profile (GET /profile/me, GET /profile/{id}).
type Profile struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Organization   string        `json:"organization"`
	SeekShare      string        `json:"seek_share"`
	ResourceType   string        `json:"resource_type"`
	Description    string        `json:"description"`
	ResearchArea   string        `json:"research_area"`
	PrimaryText    string        `json:"primary_text,omitempty"`
	Status         string        `json:"status"`
	HIndex         *int          `json:"h_index,omitempty"`
	Citations      *int          `json:"citations,omitempty"`
	FundingSummary *string       `json:"funding_summary,omitempty"`
	Publications   []Publication `json:"publications"`
}

// Active reports whether the profile is visible to matching. An empty status
// counts as active, which is the server default.
func (p Profile) Active() bool {
	return p.Status == "" || p.Status == StatusActive
}

// ProfileUpdate is the PUT /profile/me body. Nil fields are left untouched by
// the server.
type ProfileUpdate struct {
	Email          *string `json:"email,omitempty"`
	Name           *string `json:"name,omitempty"`
	Organization   *string `json:"organization,omitempty"`
	SeekShare      *string `json:"seek_share,omitempty"`
	ResourceType   *string `json:"resource_type,omitempty"`
	Description    *string `json:"description,omitempty"`
	ResearchArea   *string `json:"research_area,omitempty"`
	Status         *string `json:"status,omitempty"`
	HIndex         *int    `json:"h_index,omitempty"`
	Citations      *int    `json:"citations,omitempty"`
	FundingSummary *string `json:"funding_summary,omitempty"`
}

// Credentials is the POST /auth/login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the POST /auth/login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the POST /auth/register body.
type Registration struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	SeekShare    string `json:"seek_share"`
	ResourceType string `json:"resource_type"`
	Description  string `json:"description"`
	ResearchArea string `json:"research_area"`
}

// MatchRequest is the POST /api/match body.
type MatchRequest struct {
	SeekShare   string `json:"seek_share"`
	Description string `json:"description"`
}
