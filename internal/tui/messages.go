package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/forms"
)

// Every response message carries the page generation it was issued for.
// A response arriving after the user navigated away is dropped.

type sessionRestoredMsg struct {
	err error
}

type loginDoneMsg struct {
	page  int
	token domain.Token
	err   error
}

type registerDoneMsg struct {
	page    int
	message string
	err     error
}

type profileLoadedMsg struct {
	page    int
	own     bool
	profile domain.Profile
	err     error
}

type profileUpdatedMsg struct {
	page    int
	profile domain.Profile
	err     error
}

type matchesLoadedMsg struct {
	page     int
	matches  []domain.MatchRecord
	criteria forms.SearchCriteria
	err      error
}

type savedLoadedMsg struct {
	page  int
	saved []domain.SavedMatch
	err   error
}

type matchSavedMsg struct {
	page int
	id   int
	err  error
}

type matchDeletedMsg struct {
	page int
	id   int
	err  error
}

func (a *App) restoreSession() tea.Cmd {
	store := a.session
	return func() tea.Msg {
		return sessionRestoredMsg{err: store.Restore()}
	}
}

func (a *App) loginCmd(creds domain.Credentials) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		token, err := backend.Login(ctx, creds)
		return loginDoneMsg{page: page, token: token, err: err}
	}
}

func (a *App) registerCmd(reg domain.Registration) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		message, err := backend.Register(ctx, reg)
		return registerDoneMsg{page: page, message: message, err: err}
	}
}

func (a *App) loadOwnProfileCmd() tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		p, err := backend.Me(ctx)
		return profileLoadedMsg{page: page, own: true, profile: p, err: err}
	}
}

func (a *App) loadProfileCmd(id int) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		p, err := backend.Profile(ctx, id)
		return profileLoadedMsg{page: page, profile: p, err: err}
	}
}

func (a *App) updateProfileCmd(update domain.ProfileUpdate) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		p, err := backend.UpdateMe(ctx, update)
		return profileUpdatedMsg{page: page, profile: p, err: err}
	}
}

func (a *App) matchCmd(req domain.MatchRequest, criteria forms.SearchCriteria) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		matches, err := backend.Match(ctx, req)
		return matchesLoadedMsg{page: page, matches: matches, criteria: criteria, err: err}
	}
}

func (a *App) loadSavedCmd() tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		saved, err := backend.SavedMatches(ctx)
		return savedLoadedMsg{page: page, saved: saved, err: err}
	}
}

func (a *App) saveMatchCmd(id int, score string) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		_, err := backend.SaveMatch(ctx, id, score)
		return matchSavedMsg{page: page, id: id, err: err}
	}
}

func (a *App) deleteMatchCmd(id int) tea.Cmd {
	page, backend, ctx := a.page, a.backend, a.ctx
	return func() tea.Msg {
		_, err := backend.DeleteSavedMatch(ctx, id)
		return matchDeletedMsg{page: page, id: id, err: err}
	}
}

// Backend is the API surface the screens use. *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Token, error)
	Register(ctx context.Context, reg domain.Registration) (string, error)
	Me(ctx context.Context) (domain.Profile, error)
	UpdateMe(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error)
	Profile(ctx context.Context, id int) (domain.Profile, error)
	Match(ctx context.Context, req domain.MatchRequest) ([]domain.MatchRecord, error)
	SavedMatches(ctx context.Context) ([]domain.SavedMatch, error)
	SaveMatch(ctx context.Context, id int, score string) (string, error)
	DeleteSavedMatch(ctx context.Context, id int) (string, error)
}
