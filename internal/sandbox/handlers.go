package sandbox

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kingrea/researchmatch/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

type matchResponse struct {
	Matches []domain.MatchRecord `json:"matches"`
}

// validationIssue mirrors one entry of a 422 body from the production API.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/profile/me", s.authed(s.handleMe)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/profile/me", s.authed(s.handleUpdateMe)).Methods(http.MethodPut, http.MethodOptions)
	r.HandleFunc("/profile/{id:[0-9]+}", s.authed(s.handleProfile)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/match", s.authed(s.handleMatch)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/matches/saved", s.authed(s.handleSaved)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/matches/save/{id:[0-9]+}", s.authed(s.handleSave)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/matches/saved/{id:[0-9]+}", s.authed(s.handleUnsave)).Methods(http.MethodDelete, http.MethodOptions)
}

// authed resolves the bearer token to an account email before calling next.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := s.tokens.subject(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, err)
			return
		}
		next(w, r, email)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   string(s.Status()),
		"profiles": len(s.store.Profiles()),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if !s.decode(w, r, &reg) {
		return
	}
	if issues := validateRegistration(reg); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
		return
	}
	p, err := s.store.Register(reg)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("account registered", zap.Int("profile_id", p.ID))
	writeJSON(w, http.StatusOK, messageResponse{Message: "User registered successfully."})
}

func validateRegistration(reg domain.Registration) []validationIssue {
	var issues []validationIssue
	required := map[string]string{
		"email":         reg.Email,
		"password":      reg.Password,
		"name":          reg.Name,
		"seek_share":    reg.SeekShare,
		"resource_type": reg.ResourceType,
		"description":   reg.Description,
		"research_area": reg.ResearchArea,
	}
	for _, field := range []string{"email", "password", "name", "seek_share", "resource_type", "description", "research_area"} {
		if strings.TrimSpace(required[field]) == "" {
			issues = append(issues, validationIssue{Loc: []string{"body", field}, Msg: "Field required", Type: "missing"})
		}
	}
	if reg.SeekShare != "" && reg.SeekShare != domain.IntentSeek && reg.SeekShare != domain.IntentShare {
		issues = append(issues, validationIssue{Loc: []string{"body", "seek_share"}, Msg: "Input should be 'seek' or 'share'", Type: "enum"})
	}
	return issues
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !s.decode(w, r, &creds) {
		return
	}
	email, err := s.store.Authenticate(creds.Email, creds.Password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, err)
		return
	}
	token, err := s.tokens.mint(email)
	if err != nil {
		s.logger.Error("mint token", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, email string) {
	p, err := s.store.ProfileByEmail(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, email string) {
	var update domain.ProfileUpdate
	if !s.decode(w, r, &update) {
		return
	}
	if update.Status != nil && *update.Status != domain.StatusActive && *update.Status != domain.StatusInactive {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []string{"body", "status"}, Msg: "Input should be 'active' or 'inactive'", Type: "enum"},
		}})
		return
	}
	p, err := s.store.Update(email, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, _ string) {
	p, err := s.store.Profile(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request, email string) {
	var req domain.MatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SeekShare != domain.IntentSeek && req.SeekShare != domain.IntentShare {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []string{"body", "seek_share"}, Msg: "Input should be 'seek' or 'share'", Type: "enum"},
		}})
		return
	}
	caller, err := s.store.ProfileByEmail(email)
	if err != nil {
		writeError(w, err)
		return
	}
	matches := rank(s.store.Profiles(), caller.ID, req, s.settings.MatchLimit)
	s.logger.Debug("match request", zap.Int("caller", caller.ID), zap.Int("matches", len(matches)))
	writeJSON(w, http.StatusOK, matchResponse{Matches: matches})
}

func (s *Server) handleSaved(w http.ResponseWriter, r *http.Request, email string) {
	saved, err := s.store.Saved(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, email string) {
	score := r.URL.Query().Get("match_score")
	if err := s.store.Save(email, pathID(r), score); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Match saved successfully"})
}

func (s *Server) handleUnsave(w http.ResponseWriter, r *http.Request, email string) {
	if err := s.store.Unsave(email, pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Match deleted successfully"})
}

// decode reads a JSON body into dst, answering 413 or 422 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"detail": "payload exceeds limit"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "unable to read body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"},
		}})
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeError(w http.ResponseWriter, err error) {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.status, map[string]string{"detail": httpErr.detail})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
