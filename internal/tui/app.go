// internal/tui/app.go
//
// This is the terminal front-end of ResearchMatch.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App below holds every screen's state
// 2. Update: messages (keys, API responses) produce the next state
// 3. View: the state is rendered to a string
//
// API calls never block Update. They run as commands and come back as
// messages tagged with the page they were issued from.

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/researchmatch/internal/api"
	"github.com/kingrea/researchmatch/internal/config"
	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/forms"
	"github.com/kingrea/researchmatch/internal/logbook"
	"github.com/kingrea/researchmatch/internal/results"
	"github.com/kingrea/researchmatch/internal/session"
)

// appState represents which "screen" we're on
type appState int

const (
	stateLoading     appState = iota // Waiting for the persisted session
	stateLanding                     // Login / Register / Quit
	stateLogin                       // Flat login form
	stateRegister                    // Registration wizard
	stateDashboard                   // Signed-in home menu
	stateSearch                      // Match search wizard
	stateResults                     // Match results
	stateMyMatches                   // Saved matches
	stateProfile                     // Own profile
	stateProfileEdit                 // Profile edit wizard
	stateViewProfile                 // Another researcher's profile
)

// protected screens need an authenticated session.
func (s appState) protected() bool { return s >= stateDashboard }

func (s appState) String() string {
	switch s {
	case stateLoading:
		return "Loading"
	case stateLanding:
		return "Welcome"
	case stateLogin:
		return "Log in"
	case stateRegister:
		return "Register"
	case stateDashboard:
		return "Dashboard"
	case stateSearch:
		return "New Search"
	case stateResults:
		return "Results"
	case stateMyMatches:
		return "My Matches"
	case stateProfile:
		return "Profile"
	case stateProfileEdit:
		return "Edit Profile"
	case stateViewProfile:
		return "Researcher"
	}
	return "Unknown"
}

// Menu actions.
const (
	actionLogin    = "login"
	actionRegister = "register"
	actionQuit     = "quit"
	actionSearch   = "search"
	actionResults  = "results"
	actionMatches  = "matches"
	actionProfile  = "profile"
	actionLogout   = "logout"
)

const logPanelLines = 6

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithBackend replaces the HTTP client built from the configuration.
func WithBackend(b Backend) AppOption {
	return func(a *App) {
		if b != nil {
			a.backend = b
		}
	}
}

// WithSession replaces the session store at the configured path.
func WithSession(s *session.Store) AppOption {
	return func(a *App) {
		if s != nil {
			a.session = s
		}
	}
}

// WithLogbook replaces the log file opened from the configuration.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// WithContext sets the context every API call runs under.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// menuItem is a list entry that triggers an action.
type menuItem struct {
	title  string
	desc   string
	action string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	ctx     context.Context
	session *session.Store
	backend Backend
	logbook *logbook.Logbook

	// page changes on every navigation; responses carry the page they were
	// requested from.
	page    int
	busy    bool
	spinner spinner.Model

	landingMenu list.Model
	dashMenu    list.Model
	login       *loginView
	wizard      *wizardView

	matches       *cardList[domain.MatchRecord]
	criteria      forms.SearchCriteria
	saved         *cardList[domain.SavedMatch]
	confirmDelete int
	profile       *profileView
	ownProfile    *domain.Profile
	returnTo      appState

	statusMsg string
	banner    string
	width     int
	height    int
}

// NewApp creates the application from cfg. The session is not read until
// Init runs; until then the app stays on the loading screen.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	landing := list.New(landingItems(), list.NewDefaultDelegate(), 60, 14)
	landing.Title = "⬡ RESEARCHMATCH"
	landing.SetShowStatusBar(false)
	landing.SetFilteringEnabled(false)
	dash := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	dash.Title = "Dashboard"
	dash.SetShowStatusBar(false)
	dash.SetFilteringEnabled(false)

	app := &App{
		state:       stateLoading,
		config:      cfg,
		ctx:         context.Background(),
		spinner:     sp,
		landingMenu: landing,
		dashMenu:    dash,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.logbook == nil {
		if lb, err := logbook.New(cfg.LogPath()); err == nil {
			app.logbook = lb
		}
	}
	if app.session == nil {
		app.session = session.New(cfg.SessionPath())
	}
	if app.backend == nil {
		gateway, err := api.NewGateway(cfg.Environment(), cfg.File.API.Origin, cfg.File.API.DevelopmentURL)
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		app.backend = api.NewClient(gateway, app.session, api.WithLogbook(app.logbook))
	}
	app.logInfo("Client started · environment: %s", cfg.Environment())
	return app, nil
}

// Close releases the log file.
func (a *App) Close() error {
	return a.logbook.Close()
}

func landingItems() []list.Item {
	return []list.Item{
		menuItem{title: "Log in", desc: "Sign in with your email and password", action: actionLogin},
		menuItem{title: "Register", desc: "Create a researcher profile", action: actionRegister},
		menuItem{title: "Quit", desc: "Leave ResearchMatch", action: actionQuit},
	}
}

// dashboardItems builds the dashboard menu; "Last Results" only appears once
// a search has run in this session.
func (a *App) dashboardItems() []list.Item {
	items := []list.Item{
		menuItem{title: "New Search", desc: "Find researchers who seek or share what you need", action: actionSearch},
	}
	if a.matches != nil {
		items = append(items, menuItem{
			title:  "Last Results",
			desc:   fmt.Sprintf("%d matches for \"%s\"", len(a.matches.all), results.Truncate(a.criteria.Description, 40)),
			action: actionResults,
		})
	}
	return append(items,
		menuItem{title: "My Matches", desc: "Researchers you saved", action: actionMatches},
		menuItem{title: "Profile", desc: "View and edit your profile", action: actionProfile},
		menuItem{title: "Logout", desc: "Sign out and forget the stored session", action: actionLogout},
	)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.restoreSession(), a.spinner.Tick)
}

// navigate switches screens. Protected screens fall back to the login form
// when no session is held.
func (a *App) navigate(s appState) {
	if s.protected() && !a.session.Authenticated() {
		s = stateLogin
		a.statusMsg = "Please log in to continue"
	}
	if s == stateLogin && a.login == nil {
		a.login = newLoginView()
	}
	if s == stateDashboard {
		a.dashMenu.SetItems(a.dashboardItems())
		a.dashMenu.Select(0)
	}
	a.page++
	a.state = s
	a.busy = false
	a.banner = ""
	a.confirmDelete = 0
}

// startBusy marks a request outstanding and keeps the spinner turning.
func (a *App) startBusy(cmd tea.Cmd) tea.Cmd {
	a.busy = true
	a.banner = ""
	return tea.Batch(cmd, a.spinner.Tick)
}

// stale reports whether a response belongs to a page the user has left.
func (a *App) stale(page int) bool {
	if page == a.page {
		return false
	}
	a.logInfo("Dropped response for a page that is no longer shown")
	return true
}

// expire handles a rejected token: the session is cleared and the user is
// sent to the login form.
func (a *App) expire(err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	a.logWarn("Session rejected by the server: %v", err)
	if lerr := a.session.Logout(); lerr != nil {
		a.logError("Clearing session failed: %v", lerr)
	}
	a.login = newLoginView()
	a.navigate(stateLogin)
	a.banner = "Your session has expired. Please log in again."
	return true
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.landingMenu.SetSize(max(20, msg.Width-8), max(8, msg.Height-14))
		a.dashMenu.SetSize(max(20, msg.Width-8), max(8, msg.Height-14))
		if a.wizard != nil {
			a.wizard.SetWidth(msg.Width - 8)
		}
		if a.profile != nil {
			a.profile.resize(msg.Width-8, a.contentHeight())
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy && a.state != stateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionRestoredMsg:
		if msg.err != nil {
			a.logWarn("Discarded stored session: %v", msg.err)
		}
		if a.session.Authenticated() {
			a.logInfo("Session restored for %s", a.session.Subject())
			a.navigate(stateDashboard)
		} else {
			a.navigate(stateLanding)
		}
		return a, nil

	case loginDoneMsg:
		return a.handleLogin(msg)
	case registerDoneMsg:
		return a.handleRegister(msg)
	case profileLoadedMsg:
		return a.handleProfileLoaded(msg)
	case profileUpdatedMsg:
		return a.handleProfileUpdated(msg)
	case matchesLoadedMsg:
		return a.handleMatches(msg)
	case savedLoadedMsg:
		return a.handleSaved(msg)
	case matchSavedMsg:
		return a.handleMatchSaved(msg)
	case matchDeletedMsg:
		return a.handleMatchDeleted(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)
	}

	if a.state == stateProfile || a.state == stateViewProfile {
		if a.profile != nil {
			return a, a.profile.Update(msg)
		}
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateLoading:
		return a, nil
	case stateLanding:
		return a.updateMenu(&a.landingMenu, msg)
	case stateDashboard:
		return a.updateMenu(&a.dashMenu, msg)
	case stateLogin:
		return a.updateLogin(msg)
	case stateRegister, stateSearch, stateProfileEdit:
		return a.updateWizard(msg)
	case stateResults:
		return a.updateResults(msg)
	case stateMyMatches:
		return a.updateMyMatches(msg)
	case stateProfile, stateViewProfile:
		return a.updateProfile(msg)
	}
	return a, nil
}

func (a *App) updateMenu(menu *list.Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "enter":
		item, ok := menu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		return a.activate(item.action)
	}
	var cmd tea.Cmd
	*menu, cmd = menu.Update(msg)
	return a, cmd
}

// activate runs a menu action.
func (a *App) activate(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actionQuit:
		return a, tea.Quit
	case actionLogin:
		a.login = newLoginView()
		a.navigate(stateLogin)
	case actionRegister:
		a.wizard = newWizardView("Create your account", forms.Registration(a.config.Organizations()))
		a.wizard.SetWidth(a.contentWidth())
		a.navigate(stateRegister)
	case actionSearch:
		a.wizard = newWizardView("Find a match", forms.Search())
		a.wizard.SetWidth(a.contentWidth())
		a.navigate(stateSearch)
	case actionResults:
		a.navigate(stateResults)
	case actionMatches:
		a.saved = nil
		a.navigate(stateMyMatches)
		if a.state == stateMyMatches {
			return a, a.startBusy(a.loadSavedCmd())
		}
	case actionProfile:
		a.profile = nil
		a.navigate(stateProfile)
		if a.state == stateProfile {
			return a, a.startBusy(a.loadOwnProfileCmd())
		}
	case actionLogout:
		return a.logout()
	}
	return a, nil
}

func (a *App) logout() (tea.Model, tea.Cmd) {
	if err := a.session.Logout(); err != nil {
		a.logError("Logout failed: %v", err)
	}
	a.matches = nil
	a.saved = nil
	a.ownProfile = nil
	a.profile = nil
	a.navigate(stateLanding)
	a.statusMsg = "Logged out"
	a.logInfo("Logged out")
	return a, nil
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	if msg.String() == "esc" {
		a.navigate(stateLanding)
		return a, nil
	}
	submit, cmd := a.login.Update(msg)
	if !submit {
		return a, cmd
	}
	creds := a.login.credentials()
	a.logInfo("Logging in as %s", creds.Email)
	return a, a.startBusy(a.loginCmd(creds))
}

func (a *App) updateWizard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy || a.wizard == nil {
		return a, nil
	}
	outcome, cmd := a.wizard.Update(msg)
	switch outcome {
	case wizardCancelled:
		switch a.state {
		case stateRegister:
			a.navigate(stateLanding)
		case stateSearch:
			a.navigate(stateDashboard)
		case stateProfileEdit:
			a.navigate(stateProfile)
		}
		return a, nil
	case wizardSubmitted:
		values := a.wizard.Values()
		switch a.state {
		case stateRegister:
			reg := forms.RegistrationRequest(values)
			a.logInfo("Registering %s (%s)", reg.Email, reg.Organization)
			return a, a.startBusy(a.registerCmd(reg))
		case stateSearch:
			req, criteria := forms.SearchRequest(values)
			a.logInfo("Searching: %s · %s", req.SeekShare, results.Truncate(req.Description, 60))
			return a, a.startBusy(a.matchCmd(req, criteria))
		case stateProfileEdit:
			a.logInfo("Updating profile")
			return a, a.startBusy(a.updateProfileCmd(forms.ProfileUpdate(values)))
		}
	}
	return a, cmd
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.matches == nil {
		if msg.String() == "esc" {
			a.navigate(stateDashboard)
		}
		return a, nil
	}
	if a.matches.typing {
		a.matches.handleKey(msg)
		return a, nil
	}
	switch msg.String() {
	case "esc":
		a.navigate(stateDashboard)
		return a, nil
	case "n":
		return a.activate(actionSearch)
	case "s":
		if a.busy {
			return a, nil
		}
		rec, ok := a.matches.selected()
		if !ok {
			return a, nil
		}
		if rec.Saved {
			a.statusMsg = fmt.Sprintf("%s is already saved", rec.Name)
			return a, nil
		}
		score := results.FormatScore(rec)
		a.logInfo("Saving match %d (%s)", rec.ID, score)
		return a, a.startBusy(a.saveMatchCmd(rec.ID, score))
	case "enter", "v":
		if rec, ok := a.matches.selected(); ok {
			return a.openProfile(rec.ID, stateResults)
		}
		return a, nil
	}
	a.matches.handleKey(msg)
	return a, nil
}

func (a *App) updateMyMatches(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if a.confirmDelete != 0 {
		switch key {
		case "y", "enter":
			if a.busy {
				return a, nil
			}
			id := a.confirmDelete
			a.confirmDelete = 0
			a.logInfo("Deleting saved match %d", id)
			return a, a.startBusy(a.deleteMatchCmd(id))
		case "n", "esc":
			a.confirmDelete = 0
		}
		return a, nil
	}
	if a.saved != nil && a.saved.typing {
		a.saved.handleKey(msg)
		return a, nil
	}
	switch key {
	case "esc":
		a.navigate(stateDashboard)
		return a, nil
	case "r":
		if a.busy {
			return a, nil
		}
		return a.activate(actionMatches)
	}
	if a.saved == nil {
		return a, nil
	}
	switch key {
	case "d":
		if rec, ok := a.saved.selected(); ok && !a.busy {
			a.confirmDelete = rec.ID
		}
		return a, nil
	case "enter", "v":
		if rec, ok := a.saved.selected(); ok {
			return a.openProfile(rec.ID, stateMyMatches)
		}
		return a, nil
	}
	a.saved.handleKey(msg)
	return a, nil
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.state == stateViewProfile {
			a.navigate(a.returnTo)
		} else {
			a.navigate(stateDashboard)
		}
		return a, nil
	case "r":
		if a.busy || a.state != stateProfile {
			return a, nil
		}
		return a.activate(actionProfile)
	case "e":
		if a.state != stateProfile || a.ownProfile == nil || a.busy {
			return a, nil
		}
		a.wizard = newWizardView("Edit profile", forms.ProfileEdit(*a.ownProfile))
		a.wizard.SetWidth(a.contentWidth())
		a.navigate(stateProfileEdit)
		return a, nil
	}
	if a.profile != nil {
		return a, a.profile.Update(msg)
	}
	return a, nil
}

func (a *App) openProfile(id int, from appState) (tea.Model, tea.Cmd) {
	a.returnTo = from
	a.profile = nil
	a.navigate(stateViewProfile)
	a.logInfo("Opening profile %d", id)
	return a, a.startBusy(a.loadProfileCmd(id))
}

func (a *App) handleLogin(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		a.banner = api.Message(msg.err, api.FallbackLogin)
		a.logWarn("Login failed: %v", msg.err)
		return a, nil
	}
	if err := a.session.Login(msg.token.AccessToken, msg.token.TokenType); err != nil {
		a.logError("Persisting session failed: %v", err)
	}
	if !a.session.Authenticated() {
		a.banner = api.FallbackLogin
		return a, nil
	}
	a.login = nil
	a.logInfo("Logged in as %s", a.session.Subject())
	a.navigate(stateDashboard)
	a.statusMsg = "Welcome back"
	return a, nil
}

func (a *App) handleRegister(msg registerDoneMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		a.wizard.Resume()
		a.banner = api.Message(msg.err, api.FallbackRegister)
		a.logWarn("Registration failed: %v", msg.err)
		return a, nil
	}
	email := a.wizard.Values().Trimmed(forms.FieldEmail)
	a.wizard = nil
	a.login = newLoginView()
	a.login.inputs[0].SetValue(email)
	a.login.setFocus(1)
	a.navigate(stateLogin)
	message := strings.TrimSpace(msg.message)
	if message == "" {
		message = "Registration successful!"
	}
	a.statusMsg = message + " Please log in."
	a.logInfo("Registered %s", email)
	return a, nil
}

func (a *App) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.banner = api.Message(msg.err, api.FallbackLoadProfile)
		a.logWarn("Loading profile failed: %v", msg.err)
		return a, nil
	}
	if msg.own {
		p := msg.profile
		a.ownProfile = &p
	}
	a.profile = newProfileView(msg.profile, a.contentWidth(), a.contentHeight())
	return a, nil
}

func (a *App) handleProfileUpdated(msg profileUpdatedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.wizard.Resume()
		a.banner = api.Message(msg.err, api.FallbackUpdate)
		a.logWarn("Updating profile failed: %v", msg.err)
		return a, nil
	}
	p := msg.profile
	if a.ownProfile != nil && !strings.EqualFold(a.ownProfile.Email, p.Email) {
		return a.emailChanged(p.Email)
	}
	a.ownProfile = &p
	a.wizard = nil
	a.navigate(stateProfile)
	a.profile = newProfileView(p, a.contentWidth(), a.contentHeight())
	a.statusMsg = "Profile updated"
	a.logInfo("Profile updated")
	return a, nil
}

// emailChanged ends the session after the account email was changed. The
// token was issued for the old email and is no longer honoured.
func (a *App) emailChanged(email string) (tea.Model, tea.Cmd) {
	a.logInfo("Email changed to %s", email)
	if err := a.session.Logout(); err != nil {
		a.logError("Clearing session failed: %v", err)
	}
	a.matches = nil
	a.saved = nil
	a.ownProfile = nil
	a.profile = nil
	a.wizard = nil
	a.login = newLoginView()
	a.login.inputs[0].SetValue(email)
	a.login.setFocus(1)
	a.navigate(stateLogin)
	a.statusMsg = "Profile updated. Your email changed, please log in again."
	return a, nil
}

func (a *App) handleMatches(msg matchesLoadedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.wizard.Resume()
		a.banner = api.Message(msg.err, api.FallbackMatch)
		a.logWarn("Match search failed: %v", msg.err)
		return a, nil
	}
	a.matches = newCardList(msg.matches, a.config.Organizations())
	a.criteria = msg.criteria
	a.wizard = nil
	a.navigate(stateResults)
	a.statusMsg = fmt.Sprintf("Found %d matches", len(msg.matches))
	a.logInfo("Search returned %d matches", len(msg.matches))
	return a, nil
}

func (a *App) handleSaved(msg savedLoadedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.banner = api.Message(msg.err, api.FallbackSavedMatches)
		a.logWarn("Loading saved matches failed: %v", msg.err)
		return a, nil
	}
	a.saved = newCardList(msg.saved, a.config.Organizations())
	return a, nil
}

func (a *App) handleMatchSaved(msg matchSavedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.banner = api.Message(msg.err, api.FallbackSave)
		a.logWarn("Saving match %d failed: %v", msg.id, msg.err)
		return a, nil
	}
	a.matches.replace(msg.id, func(m domain.MatchRecord) domain.MatchRecord {
		m.Saved = true
		return m
	})
	a.statusMsg = "Match saved"
	a.logInfo("Saved match %d", msg.id)
	return a, nil
}

func (a *App) handleMatchDeleted(msg matchDeletedMsg) (tea.Model, tea.Cmd) {
	if a.stale(msg.page) {
		return a, nil
	}
	a.busy = false
	if msg.err != nil {
		if a.expire(msg.err) {
			return a, nil
		}
		a.banner = api.Message(msg.err, api.FallbackDelete)
		a.logWarn("Deleting saved match %d failed: %v", msg.id, msg.err)
		return a, nil
	}
	a.saved.remove(msg.id)
	if a.matches != nil {
		a.matches.replace(msg.id, func(m domain.MatchRecord) domain.MatchRecord {
			m.Saved = false
			return m
		})
	}
	a.statusMsg = "Match removed"
	a.logInfo("Deleted saved match %d", msg.id)
	return a, nil
}

func (a *App) contentWidth() int {
	width := a.width
	if width <= 0 {
		width = 100
	}
	return max(20, width-8)
}

func (a *App) contentHeight() int {
	height := a.height
	if height <= 0 {
		height = 40
	}
	return max(6, height-12-logPanelLines)
}

func (a *App) View() string {
	width := a.contentWidth()
	var content string
	switch a.state {
	case stateLoading:
		content = a.spinner.View() + " Restoring session…"
	case stateLanding:
		content = lipgloss.JoinVertical(lipgloss.Left,
			subtleStyle.Render("Find collaborators who share the resources you are looking for."),
			"",
			a.landingMenu.View(),
		)
	case stateLogin:
		content = a.login.View()
	case stateRegister, stateSearch, stateProfileEdit:
		if a.wizard != nil {
			content = a.wizard.View(width)
		}
	case stateDashboard:
		content = a.renderDashboard()
	case stateResults:
		content = a.renderResults(width)
	case stateMyMatches:
		content = a.renderMyMatches(width)
	case stateProfile, stateViewProfile:
		content = a.renderProfile()
	}
	return a.renderFrame(content, width)
}

func (a *App) renderFrame(content string, width int) string {
	crumb := a.state.String()
	if subject := a.session.Subject(); subject != "" && a.state.protected() {
		crumb += " · " + subject
	}
	header := headerStyle.Render("⬡ RESEARCHMATCH") + "  " + subtleStyle.Render(crumb)
	sections := []string{header}
	if a.banner != "" {
		sections = append(sections, bannerStyle.Render(a.banner))
	}
	sections = append(sections, boxStyle.Width(width+4).Render(content))
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	status := a.statusMsg
	if a.busy {
		status = a.spinner.View() + " Working…"
	}
	footer := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1).
		Render(status)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderDashboard() string {
	greeting := "Welcome"
	if subject := a.session.Subject(); subject != "" {
		greeting = "Welcome, " + subject
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(greeting),
		"",
		a.dashMenu.View(),
	)
}

func (a *App) renderResults(width int) string {
	if a.matches == nil {
		return subtleStyle.Render("No search has run yet. Press esc and choose New Search.")
	}
	c := a.criteria
	summary := fmt.Sprintf("%s · %s", c.SeekShare, results.Truncate(c.Description, 80))
	if len(c.ResourceTypes) > 0 {
		summary += " · " + strings.Join(c.ResourceTypes, ", ")
	}
	if c.ResearchArea != "" {
		summary += " · " + c.ResearchArea
	}
	parts := []string{titleStyle.Render("Matches"), subtleStyle.Render(summary), ""}
	if len(a.matches.all) == 0 {
		parts = append(parts,
			"No matches found.",
			subtleStyle.Render("Try a broader description or switch between seeking and sharing."),
			hintStyle.Render("n new search • esc dashboard"),
		)
		return strings.Join(parts, "\n")
	}
	parts = append(parts,
		a.matches.renderFilterBar(),
		"",
		a.matches.view(width, a.contentHeight(), func(m domain.MatchRecord, selected, expanded bool, w int) string {
			return renderCard(m.Researcher, results.FormatScore(m), m.Saved, selected, expanded, w)
		}),
		hintStyle.Render("↑/↓ move • space expand • s save • enter profile • / filter • 1-9 organizations • c clear • n new search • esc back"),
	)
	return strings.Join(parts, "\n")
}

func (a *App) renderMyMatches(width int) string {
	parts := []string{titleStyle.Render("My Matches"), ""}
	switch {
	case a.saved == nil && a.busy:
		parts = append(parts, a.spinner.View()+" Loading saved matches…")
	case a.saved == nil:
		parts = append(parts, subtleStyle.Render("Saved matches could not be loaded. Press r to retry."))
	case len(a.saved.all) == 0:
		parts = append(parts,
			"You have not saved any matches yet.",
			subtleStyle.Render("Run a New Search from the dashboard and press s on a result to save it."),
			hintStyle.Render("esc dashboard"),
		)
	default:
		parts = append(parts,
			a.saved.renderFilterBar(),
			"",
			a.saved.view(width, a.contentHeight(), func(m domain.SavedMatch, selected, expanded bool, w int) string {
				return renderCard(m.Researcher, results.SavedScore(m), false, selected, expanded, w)
			}),
		)
		if a.confirmDelete != 0 {
			name := fmt.Sprintf("#%d", a.confirmDelete)
			for _, m := range a.saved.all {
				if m.ID == a.confirmDelete {
					name = m.Name
				}
			}
			parts = append(parts, errorStyle.Render(fmt.Sprintf("Remove %s from your saved matches? (y/n)", name)))
		} else {
			parts = append(parts, hintStyle.Render("↑/↓ move • space expand • d delete • enter profile • / filter • 1-9 organizations • r refresh • esc back"))
		}
	}
	return strings.Join(parts, "\n")
}

func (a *App) renderProfile() string {
	switch {
	case a.profile == nil && a.busy:
		return a.spinner.View() + " Loading profile…"
	case a.profile == nil:
		hint := "esc back"
		if a.state == stateProfile {
			hint = "r retry • esc back"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			"Profile not found.",
			hintStyle.Render(hint),
		)
	}
	hint := "↑/↓ scroll • esc back"
	if a.state == stateProfile {
		hint = "↑/↓ scroll • e edit • r refresh • esc back"
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.profile.View(), hintStyle.Render(hint))
}
