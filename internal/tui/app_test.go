package tui

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrea/researchmatch/internal/api"
	"github.com/kingrea/researchmatch/internal/config"
	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/sandbox"
	"github.com/kingrea/researchmatch/internal/session"
)

const testPassword = "secret1"

type testEnv struct {
	srv         *sandbox.Server
	ts          *httptest.Server
	cfg         *config.Config
	sessionPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv, err := sandbox.NewServer(
		sandbox.Settings{Host: "127.0.0.1", Secret: "tui-secret"},
		sandbox.WithStore(sandbox.NewStore(bcrypt.MinCost)),
	)
	if err != nil {
		t.Fatalf("sandbox: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	home := t.TempDir()
	cfg, err := config.LoadFrom(home)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return &testEnv{srv: srv, ts: ts, cfg: cfg, sessionPath: filepath.Join(home, "session.yaml")}
}

func (e *testEnv) register(t *testing.T, email, intent, org, description string) domain.Profile {
	t.Helper()
	p, err := e.srv.Store().Register(domain.Registration{
		Email:        email,
		Password:     testPassword,
		Name:         "Researcher " + strings.Split(email, "@")[0],
		Organization: org,
		SeekShare:    intent,
		ResourceType: "data",
		Description:  description,
		ResearchArea: "Cardiology, Imaging",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return p
}

// newTestApp builds an app against the sandbox and runs Init so the app has
// left the loading screen.
func newTestApp(t *testing.T, env *testEnv) *App {
	t.Helper()
	store := session.New(env.sessionPath)
	client := api.NewClient(api.FixedGateway(env.ts.URL), store)
	app, err := NewApp(env.cfg, WithSession(store), WithBackend(client))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return runCommands(t, app, app.Init())
}

// signIn stores a real token for email without going through the login form.
func signIn(t *testing.T, env *testEnv, app *App, email string) *App {
	t.Helper()
	token, err := app.backend.Login(app.ctx, domain.Credentials{Email: email, Password: testPassword})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if err := app.session.Login(token.AccessToken, token.TokenType); err != nil {
		t.Fatalf("session login: %v", err)
	}
	app.navigate(stateDashboard)
	return app
}

// runCommands executes cmd and every command produced while handling its
// messages. Spinner ticks are dropped so the loop settles.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("expected *App model, got %T", model)
	}
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := app.Update(msg)
			queue = append(queue, follow)
		}
	}
	return app
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, app *App, keys ...string) *App {
	t.Helper()
	for _, k := range keys {
		model, cmd := app.Update(keyMsg(k))
		app = runCommands(t, model, cmd)
	}
	return app
}

func typeText(t *testing.T, app *App, text string) *App {
	t.Helper()
	for _, r := range text {
		app = press(t, app, string(r))
	}
	return app
}

func TestInitLeavesLoadingForLanding(t *testing.T) {
	env := newTestEnv(t)
	store := session.New(env.sessionPath)
	app, err := NewApp(env.cfg, WithSession(store), WithBackend(api.NewClient(api.FixedGateway(env.ts.URL), store)))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	if app.state != stateLoading {
		t.Fatalf("expected loading state before Init, got %s", app.state)
	}
	app = press(t, app, "enter")
	if app.state != stateLoading {
		t.Fatalf("keys must be ignored while loading, got %s", app.state)
	}
	if !strings.Contains(app.View(), "Restoring session") {
		t.Fatalf("loading view should mention the session restore")
	}
	app = runCommands(t, app, app.Init())
	if app.state != stateLanding {
		t.Fatalf("expected landing without a stored session, got %s", app.state)
	}
}

func TestStoredSessionOpensDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentSeek, "Virginia Tech", "cardiac imaging")
	first := signIn(t, env, newTestApp(t, env), "ada@vt.edu")
	if first.state != stateDashboard {
		t.Fatalf("expected dashboard after sign in, got %s", first.state)
	}

	second := newTestApp(t, env)
	if second.state != stateDashboard {
		t.Fatalf("expected restored session to open the dashboard, got %s", second.state)
	}
	if !strings.Contains(second.View(), "ada@vt.edu") {
		t.Fatalf("dashboard should greet the signed-in account")
	}
}

func TestProtectedScreensRequireSession(t *testing.T) {
	env := newTestEnv(t)
	app := newTestApp(t, env)
	model, cmd := app.activate(actionSearch)
	app = runCommands(t, model, cmd)
	if app.state != stateLogin {
		t.Fatalf("expected login redirect, got %s", app.state)
	}
	if app.statusMsg != "Please log in to continue" {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
}

func TestLoginValidatesBeforeRequest(t *testing.T) {
	env := newTestEnv(t)
	app := newTestApp(t, env)
	model, cmd := app.activate(actionLogin)
	app = runCommands(t, model, cmd)

	app = press(t, app, "tab")
	_, cmd = app.Update(keyMsg("enter"))
	if cmd != nil || app.busy {
		t.Fatalf("invalid login must not send a request")
	}
	if app.login.errors["email"] != "Email is required" {
		t.Fatalf("expected email error, got %v", app.login.errors)
	}
	if app.login.errors["password"] != "Password is required" {
		t.Fatalf("expected password error, got %v", app.login.errors)
	}
}

func TestLoginOpensDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentSeek, "Virginia Tech", "cardiac imaging")
	app := newTestApp(t, env)
	model, cmd := app.activate(actionLogin)
	app = runCommands(t, model, cmd)

	app = typeText(t, app, "ada@vt.edu")
	app = press(t, app, "enter")
	app = typeText(t, app, testPassword)
	app = press(t, app, "enter")

	if app.state != stateDashboard {
		t.Fatalf("expected dashboard, got %s (banner %q)", app.state, app.banner)
	}
	if !app.session.Authenticated() || app.session.Subject() != "ada@vt.edu" {
		t.Fatalf("session should hold the new token")
	}
}

func TestLoginFailureShowsServerDetail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentSeek, "Virginia Tech", "cardiac imaging")
	app := newTestApp(t, env)
	model, cmd := app.activate(actionLogin)
	app = runCommands(t, model, cmd)

	app = typeText(t, app, "ada@vt.edu")
	app = press(t, app, "tab")
	app = typeText(t, app, "wrong-password")
	app = press(t, app, "enter")

	if app.state != stateLogin {
		t.Fatalf("expected to stay on login, got %s", app.state)
	}
	if app.banner != "Invalid credentials" {
		t.Fatalf("expected server detail in banner, got %q", app.banner)
	}
	if app.busy {
		t.Fatalf("busy flag must clear after the response")
	}
}

func TestBusyIgnoresSecondSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentSeek, "Virginia Tech", "cardiac imaging")
	app := newTestApp(t, env)
	model, cmd := app.activate(actionLogin)
	app = runCommands(t, model, cmd)
	app = typeText(t, app, "ada@vt.edu")
	app = press(t, app, "tab")
	app = typeText(t, app, testPassword)

	_, pending := app.Update(keyMsg("enter"))
	if pending == nil || !app.busy {
		t.Fatalf("expected an outstanding request")
	}
	if _, again := app.Update(keyMsg("enter")); again != nil {
		t.Fatalf("second trigger while busy must be ignored")
	}
	app = runCommands(t, app, pending)
	if app.state != stateDashboard {
		t.Fatalf("expected dashboard once the request finished, got %s", app.state)
	}
}

func TestResponseForLeftPageIsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentSeek, "Virginia Tech", "cardiac imaging")
	app := newTestApp(t, env)
	model, cmd := app.activate(actionLogin)
	app = runCommands(t, model, cmd)
	app = typeText(t, app, "ada@vt.edu")
	app = press(t, app, "tab")
	app = typeText(t, app, testPassword)

	_, pending := app.Update(keyMsg("enter"))
	app.navigate(stateLanding)
	app = runCommands(t, app, pending)

	if app.state != stateLanding {
		t.Fatalf("late response must not navigate, got %s", app.state)
	}
	if app.session.Authenticated() {
		t.Fatalf("late login response must be discarded")
	}
}

func TestRegisterWizardReturnsToLogin(t *testing.T) {
	env := newTestEnv(t)
	app := newTestApp(t, env)
	model, cmd := app.activate(actionRegister)
	app = runCommands(t, model, cmd)

	app = typeText(t, app, "grace@vt.edu")
	app = press(t, app, "enter")
	app = typeText(t, app, "hopper1")
	app = press(t, app, "enter")
	app = typeText(t, app, "Grace Hopper")
	app = press(t, app, "enter")
	// organization: first option
	app = press(t, app, "down", "enter")
	// seek
	app = press(t, app, "enter")
	// resource types: data
	app = press(t, app, "down", "down", "down", "down", "down", " ", "enter")
	app = typeText(t, app, "Compilers")
	app = press(t, app, "enter")
	app = typeText(t, app, "Looking for compute time")
	app = press(t, app, "enter")

	if app.state != stateLogin {
		t.Fatalf("expected login after registration, got %s (banner %q)", app.state, app.banner)
	}
	if !strings.Contains(app.statusMsg, "User registered successfully.") {
		t.Fatalf("expected server message, got %q", app.statusMsg)
	}
	if got := app.login.inputs[0].Value(); got != "grace@vt.edu" {
		t.Fatalf("expected email carried over, got %q", got)
	}
	p, err := env.srv.Store().ProfileByEmail("grace@vt.edu")
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if p.Organization != "Virginia Tech" || p.ResourceType != "data" || p.SeekShare != domain.IntentSeek {
		t.Fatalf("unexpected stored profile: %+v", p)
	}
}

func TestRegisterOtherOrganizationNeedsName(t *testing.T) {
	env := newTestEnv(t)
	app := newTestApp(t, env)
	model, cmd := app.activate(actionRegister)
	app = runCommands(t, model, cmd)
	app = typeText(t, app, "grace@vt.edu")
	app = press(t, app, "enter")
	app = typeText(t, app, "hopper1")
	app = press(t, app, "enter")
	app = typeText(t, app, "Grace Hopper")
	app = press(t, app, "enter")

	// "Other" is the last option.
	app = press(t, app, "down", "down", "down", "enter")
	if !app.wizard.otherFocused {
		t.Fatalf("selecting Other should focus the custom organization input")
	}
	app = press(t, app, "enter")
	if step, _ := app.wizard.wiz.Progress(); step != 4 {
		t.Fatalf("expected to stay on the organization step, got %d", step)
	}
	if msg := app.wizard.wiz.State().Error("customOrganization"); msg != "Please specify your organization" {
		t.Fatalf("unexpected error %q", msg)
	}
	app = typeText(t, app, "Roanoke College")
	app = press(t, app, "enter")
	if step, _ := app.wizard.wiz.Progress(); step != 5 {
		t.Fatalf("expected to advance with a custom organization, got step %d", step)
	}
}

func TestRegisterDuplicateEmailResumesWizard(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "grace@vt.edu", domain.IntentShare, "Virginia Tech", "compilers")
	app := newTestApp(t, env)
	model, cmd := app.activate(actionRegister)
	app = runCommands(t, model, cmd)
	app = typeText(t, app, "grace@vt.edu")
	app = press(t, app, "enter")
	app = typeText(t, app, "hopper1")
	app = press(t, app, "enter")
	app = typeText(t, app, "Grace Hopper")
	app = press(t, app, "enter", "enter", "enter", " ", "enter")
	app = typeText(t, app, "Compilers")
	app = press(t, app, "enter")
	app = typeText(t, app, "Looking for compute time")
	app = press(t, app, "enter")

	if app.state != stateRegister {
		t.Fatalf("expected to stay in the wizard, got %s", app.state)
	}
	if app.banner != "Email already registerd" {
		t.Fatalf("expected server detail, got %q", app.banner)
	}
	if app.wizard.wiz.State().Submitting() || !app.wizard.wiz.Last() {
		t.Fatalf("wizard should be back on its last step")
	}
}

func runSearch(t *testing.T, app *App, description string) *App {
	t.Helper()
	model, cmd := app.activate(actionSearch)
	app = runCommands(t, model, cmd)
	app = press(t, app, "enter")      // seek
	app = press(t, app, " ", "enter") // collaboration
	app = typeText(t, app, "Cardiology")
	app = press(t, app, "enter")
	app = typeText(t, app, description)
	return press(t, app, "enter")
}

func TestSearchSaveAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "sam@vt.edu", domain.IntentSeek, "Virginia Tech", "need imaging data")
	best := env.register(t, "ada@carilion.org", domain.IntentShare, "Carilion Clinic - Department of Medicine", "cardiac imaging datasets available")
	env.register(t, "bo@vt.edu", domain.IntentShare, "Virginia Tech", "genomics datasets")
	app := signIn(t, env, newTestApp(t, env), "sam@vt.edu")

	app = runSearch(t, app, "cardiac imaging datasets")
	if app.state != stateResults {
		t.Fatalf("expected results, got %s (banner %q)", app.state, app.banner)
	}
	if len(app.matches.all) != 2 || app.matches.all[0].ID != best.ID {
		t.Fatalf("unexpected ranking: %+v", app.matches.all)
	}
	if !strings.Contains(app.View(), "100% match") {
		t.Fatalf("results should show the formatted score")
	}

	app = press(t, app, "s")
	if !app.matches.all[0].Saved {
		t.Fatalf("record should be marked saved after the server confirmed")
	}
	app = press(t, app, "s")
	if !strings.Contains(app.statusMsg, "already saved") {
		t.Fatalf("saving twice should be refused locally, got %q", app.statusMsg)
	}

	model, cmd := app.activate(actionMatches)
	app = runCommands(t, model, cmd)
	if app.saved == nil || len(app.saved.all) != 1 {
		t.Fatalf("expected one saved match, got %+v", app.saved)
	}
	if got := app.saved.all[0].MatchScore; got != "100%" {
		t.Fatalf("expected stored score 100%%, got %q", got)
	}

	app = press(t, app, "d")
	if app.confirmDelete != best.ID {
		t.Fatalf("delete must ask for confirmation first")
	}
	app = press(t, app, "n")
	if app.confirmDelete != 0 || len(app.saved.all) != 1 {
		t.Fatalf("cancelled delete must keep the match")
	}
	app = press(t, app, "d", "y")
	if len(app.saved.all) != 0 {
		t.Fatalf("confirmed delete should remove the match")
	}
	if !strings.Contains(app.View(), "You have not saved any matches yet.") {
		t.Fatalf("empty saved list should render its empty state")
	}
	if app.matches.all[0].Saved {
		t.Fatalf("deleting should clear the saved mark on the results")
	}
}

func TestResultsFilterKeys(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "sam@vt.edu", domain.IntentSeek, "Virginia Tech", "need imaging data")
	env.register(t, "ada@carilion.org", domain.IntentShare, "Carilion Clinic - Department of Medicine", "cardiac imaging datasets available")
	env.register(t, "bo@vt.edu", domain.IntentShare, "Virginia Tech", "imaging microscopes")
	app := signIn(t, env, newTestApp(t, env), "sam@vt.edu")
	app = runSearch(t, app, "imaging")

	if got := app.matches.organizations(); len(got) != 2 || got[0] != "Carilion Clinic - Department of Medicine" {
		t.Fatalf("unexpected organization chips: %v", got)
	}
	app = press(t, app, "2")
	if vis := app.matches.visible(); len(vis) != 1 || vis[0].Organization != "Virginia Tech" {
		t.Fatalf("organization toggle should narrow the list, got %+v", vis)
	}
	app = press(t, app, "2")
	if len(app.matches.visible()) != 2 {
		t.Fatalf("second toggle should clear the organization")
	}

	app = press(t, app, "/")
	app = typeText(t, app, "micro")
	app = press(t, app, "enter")
	if vis := app.matches.visible(); len(vis) != 1 || vis[0].Name != "Researcher bo" {
		t.Fatalf("text filter should match the description, got %+v", vis)
	}
	if app.state != stateResults {
		t.Fatalf("enter while filtering must not open a profile")
	}
	app = press(t, app, "c")
	if len(app.matches.visible()) != 2 {
		t.Fatalf("c should clear every filter")
	}
}

func TestViewProfileReturnsToResults(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "sam@vt.edu", domain.IntentSeek, "Virginia Tech", "need imaging data")
	env.register(t, "ada@carilion.org", domain.IntentShare, "Carilion Clinic - Department of Medicine", "cardiac imaging datasets available")
	app := signIn(t, env, newTestApp(t, env), "sam@vt.edu")
	app = runSearch(t, app, "imaging")

	app = press(t, app, "enter")
	if app.state != stateViewProfile || app.profile == nil {
		t.Fatalf("expected loaded profile view, got %s", app.state)
	}
	if app.profile.profile.Name != "Researcher ada" {
		t.Fatalf("unexpected profile %+v", app.profile.profile)
	}
	view := app.View()
	if !strings.Contains(view, "ada@carilion.org") {
		t.Fatalf("profile view should show the researcher's email:\n%s", view)
	}
	if !strings.Contains(view, "Status") || !strings.Contains(view, domain.StatusActive) {
		t.Fatalf("profile view should show the researcher's status:\n%s", view)
	}
	app = press(t, app, "esc")
	if app.state != stateResults || app.matches == nil {
		t.Fatalf("expected to return to the results, got %s", app.state)
	}
}

func TestProfileEditUpdatesName(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentShare, "Virginia Tech", "cardiac imaging")
	app := signIn(t, env, newTestApp(t, env), "ada@vt.edu")

	model, cmd := app.activate(actionProfile)
	app = runCommands(t, model, cmd)
	if app.state != stateProfile || app.ownProfile == nil {
		t.Fatalf("expected own profile, got %s (banner %q)", app.state, app.banner)
	}
	app = press(t, app, "e")
	if app.state != stateProfileEdit {
		t.Fatalf("expected edit wizard, got %s", app.state)
	}
	if got := app.wizard.wiz.State().Values.List("resource_type"); len(got) != 1 || got[0] != "data" {
		t.Fatalf("resource types should be pre-filled, got %v", got)
	}
	app = press(t, app, "ctrl+u")
	app = typeText(t, app, "Ada Lovelace")
	for i := 0; i < 14 && app.state == stateProfileEdit; i++ {
		app = press(t, app, "enter")
	}
	if app.state != stateProfile {
		t.Fatalf("expected profile after saving, got %s (banner %q)", app.state, app.banner)
	}
	if app.ownProfile.Name != "Ada Lovelace" || app.statusMsg != "Profile updated" {
		t.Fatalf("profile not updated: %+v", app.ownProfile)
	}
	stored, err := env.srv.Store().ProfileByEmail("ada@vt.edu")
	if err != nil || stored.Name != "Ada Lovelace" || stored.ResourceType != "data" {
		t.Fatalf("server copy not updated: %+v %v", stored, err)
	}
}

func TestProfileEmailChangeSignsOut(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentShare, "Virginia Tech", "cardiac imaging")
	app := signIn(t, env, newTestApp(t, env), "ada@vt.edu")

	model, cmd := app.activate(actionProfile)
	app = runCommands(t, model, cmd)
	app = press(t, app, "e")
	app = press(t, app, "enter")
	if app.wizard.wiz.Current().ID != "email" {
		t.Fatalf("expected the email step, got %q", app.wizard.wiz.Current().ID)
	}
	if got := app.wizard.wiz.State().Values.Get("email"); got != "ada@vt.edu" {
		t.Fatalf("email should be pre-filled, got %q", got)
	}
	app = press(t, app, "ctrl+u")
	app = typeText(t, app, "ada@lovelace.org")
	for i := 0; i < 14 && app.state == stateProfileEdit; i++ {
		app = press(t, app, "enter")
	}
	if app.state != stateLogin {
		t.Fatalf("expected login after an email change, got %s (banner %q)", app.state, app.banner)
	}
	if app.session.Authenticated() {
		t.Fatalf("the old token must be cleared")
	}
	if got := app.login.inputs[0].Value(); got != "ada@lovelace.org" {
		t.Fatalf("login should be pre-filled with the new email, got %q", got)
	}
	if _, err := env.srv.Store().ProfileByEmail("ada@lovelace.org"); err != nil {
		t.Fatalf("server should know the new email: %v", err)
	}
}

func TestRejectedTokenReturnsToLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentShare, "Virginia Tech", "cardiac imaging")
	app := newTestApp(t, env)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ada@vt.edu",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("someone-else"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := app.session.Login(forged, "bearer"); err != nil {
		t.Fatalf("session login: %v", err)
	}
	app.navigate(stateDashboard)

	model, cmd := app.activate(actionProfile)
	app = runCommands(t, model, cmd)
	if app.state != stateLogin {
		t.Fatalf("expected login after a rejected token, got %s", app.state)
	}
	if app.session.Authenticated() {
		t.Fatalf("rejected token must be cleared")
	}
	if app.banner != "Your session has expired. Please log in again." {
		t.Fatalf("unexpected banner %q", app.banner)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada@vt.edu", domain.IntentShare, "Virginia Tech", "cardiac imaging")
	app := signIn(t, env, newTestApp(t, env), "ada@vt.edu")

	model, cmd := app.activate(actionLogout)
	app = runCommands(t, model, cmd)
	if app.state != stateLanding || app.session.Authenticated() {
		t.Fatalf("expected signed-out landing, got %s", app.state)
	}
	again := newTestApp(t, env)
	if again.state != stateLanding {
		t.Fatalf("logout must remove the stored session, got %s", again.state)
	}
}

func TestLogPanelShowsRecentEntries(t *testing.T) {
	env := newTestEnv(t)
	app := newTestApp(t, env)
	view := app.View()
	if !strings.Contains(view, "LOG · researchmatch.log") {
		t.Fatalf("expected log panel header, got:\n%s", view)
	}
	if !strings.Contains(view, "Client started") {
		t.Fatalf("expected startup entry in the log panel")
	}
}
