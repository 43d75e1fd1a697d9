package sandbox

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/kingrea/researchmatch/internal/domain"
)

// The details match the production API word for word, typo included.
var (
	errDuplicateEmail     = &httpError{status: http.StatusBadRequest, detail: "Email already registerd"}
	errEmailTaken         = &httpError{status: http.StatusBadRequest, detail: "Email already registered"}
	errInvalidCredentials = &httpError{status: http.StatusBadRequest, detail: "Invalid credentials"}
	errProfileNotFound    = &httpError{status: http.StatusNotFound, detail: "Profile not found"}
	errAlreadySaved       = &httpError{status: http.StatusBadRequest, detail: "Match already saved"}
	errSavedNotFound      = &httpError{status: http.StatusNotFound, detail: "Saved match not found"}
)

// httpError is a failure with the status and detail the API answers with.
type httpError struct {
	status int
	detail string
}

func (e *httpError) Error() string { return e.detail }

type account struct {
	email        string
	passwordHash []byte
	profileID    int
}

type savedEntry struct {
	profileID int
	score     string
}

// Store is the in-memory account, profile and saved-match database.
type Store struct {
	mu       sync.RWMutex
	nextID   int
	accounts map[string]*account
	profiles map[int]*domain.Profile
	saved    map[int][]savedEntry
	cost     int
}

// NewStore returns an empty store hashing passwords at bcrypt cost.
func NewStore(cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		nextID:   1,
		accounts: map[string]*account{},
		profiles: map[int]*domain.Profile{},
		saved:    map[int][]savedEntry{},
		cost:     cost,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and its profile.
func (s *Store) Register(reg domain.Registration) (domain.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return domain.Profile{}, err
	}
	key := emailKey(reg.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return domain.Profile{}, errDuplicateEmail
	}
	p := &domain.Profile{
		ID:           s.nextID,
		Name:         strings.TrimSpace(reg.Name),
		Email:        strings.TrimSpace(reg.Email),
		Organization: strings.TrimSpace(reg.Organization),
		SeekShare:    reg.SeekShare,
		ResourceType: reg.ResourceType,
		Description:  strings.TrimSpace(reg.Description),
		ResearchArea: strings.TrimSpace(reg.ResearchArea),
		Status:       domain.StatusActive,
		Publications: []domain.Publication{},
	}
	s.nextID++
	s.profiles[p.ID] = p
	s.accounts[key] = &account{email: p.Email, passwordHash: hash, profileID: p.ID}
	return *p, nil
}

// Authenticate checks credentials and returns the account email.
func (s *Store) Authenticate(email, password string) (string, error) {
	s.mu.RLock()
	acct, ok := s.accounts[emailKey(email)]
	s.mu.RUnlock()
	if !ok {
		return "", errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return "", errInvalidCredentials
	}
	return acct.email, nil
}

// ProfileByEmail returns the profile of the account with email.
func (s *Store) ProfileByEmail(email string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[emailKey(email)]
	if !ok {
		return domain.Profile{}, errProfileNotFound
	}
	p, ok := s.profiles[acct.profileID]
	if !ok {
		return domain.Profile{}, errProfileNotFound
	}
	return clone(*p), nil
}

// Profile returns the profile with id.
func (s *Store) Profile(id int) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, errProfileNotFound
	}
	return clone(*p), nil
}

// Update applies the non-nil fields of update to the profile of email. A
// changed email moves the account to the new key.
func (s *Store) Update(email string, update domain.ProfileUpdate) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(email)
	acct, ok := s.accounts[key]
	if !ok {
		return domain.Profile{}, errProfileNotFound
	}
	p := s.profiles[acct.profileID]
	if update.Email != nil {
		newKey := emailKey(*update.Email)
		if newKey != "" && newKey != key {
			if _, taken := s.accounts[newKey]; taken {
				return domain.Profile{}, errEmailTaken
			}
			delete(s.accounts, key)
			acct.email = strings.TrimSpace(*update.Email)
			s.accounts[newKey] = acct
			p.Email = acct.email
		}
	}
	setString(&p.Name, update.Name)
	setString(&p.Organization, update.Organization)
	setString(&p.SeekShare, update.SeekShare)
	setString(&p.ResourceType, update.ResourceType)
	setString(&p.Description, update.Description)
	setString(&p.ResearchArea, update.ResearchArea)
	setString(&p.Status, update.Status)
	if update.HIndex != nil {
		v := *update.HIndex
		p.HIndex = &v
	}
	if update.Citations != nil {
		v := *update.Citations
		p.Citations = &v
	}
	if update.FundingSummary != nil {
		v := *update.FundingSummary
		p.FundingSummary = &v
	}
	return clone(*p), nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// Profiles returns a snapshot of every profile ordered by id.
func (s *Store) Profiles() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, clone(*p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Save adds profileID to the saved list of the account with email.
func (s *Store) Save(email string, profileID int, score string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[emailKey(email)]
	if !ok {
		return errProfileNotFound
	}
	if _, ok := s.profiles[profileID]; !ok {
		return errProfileNotFound
	}
	for _, entry := range s.saved[acct.profileID] {
		if entry.profileID == profileID {
			return errAlreadySaved
		}
	}
	s.saved[acct.profileID] = append(s.saved[acct.profileID], savedEntry{profileID: profileID, score: score})
	return nil
}

// Saved lists the saved matches of the account with email in save order.
func (s *Store) Saved(email string) ([]domain.SavedMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[emailKey(email)]
	if !ok {
		return nil, errProfileNotFound
	}
	out := []domain.SavedMatch{}
	for _, entry := range s.saved[acct.profileID] {
		p, ok := s.profiles[entry.profileID]
		if !ok {
			continue
		}
		out = append(out, domain.SavedMatch{Researcher: researcher(*p), MatchScore: entry.score})
	}
	return out, nil
}

// Unsave removes profileID from the saved list of the account with email.
func (s *Store) Unsave(email string, profileID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[emailKey(email)]
	if !ok {
		return errSavedNotFound
	}
	entries := s.saved[acct.profileID]
	for i, entry := range entries {
		if entry.profileID == profileID {
			s.saved[acct.profileID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return errSavedNotFound
}

func researcher(p domain.Profile) domain.Researcher {
	return domain.Researcher{
		ID:           p.ID,
		Name:         p.Name,
		Organization: p.Organization,
		SeekShare:    p.SeekShare,
		ResourceType: p.ResourceType,
		Description:  p.Description,
		ResearchArea: p.ResearchArea,
		PrimaryText:  p.PrimaryText,
	}
}

func clone(p domain.Profile) domain.Profile {
	out := p
	if p.HIndex != nil {
		v := *p.HIndex
		out.HIndex = &v
	}
	if p.Citations != nil {
		v := *p.Citations
		out.Citations = &v
	}
	if p.FundingSummary != nil {
		v := *p.FundingSummary
		out.FundingSummary = &v
	}
	out.Publications = append([]domain.Publication{}, p.Publications...)
	return out
}
