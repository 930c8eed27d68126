// Package api exposes HTTP handlers for the EcoQuest service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"example.com/ecoquest/internal/account"
	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/auth"
	"example.com/ecoquest/internal/domain"
	"example.com/ecoquest/internal/gamification"
	"example.com/ecoquest/internal/persistence"
	"example.com/ecoquest/internal/report"
)

const dateLayout = "2006-01-02"

// Handler coordinates HTTP requests with the domain and account services.
type Handler struct {
	service  *domain.Service
	accounts *account.Service
	logger   zerolog.Logger
	loc      *time.Location
}

// HandlerOption customises a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used for server-side failures.
func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithLocation sets the zone used to interpret from/to dates.
func WithLocation(loc *time.Location) HandlerOption {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, accounts *account.Service, opts ...HandlerOption) *Handler {
	h := &Handler{service: service, accounts: accounts, logger: zerolog.Nop(), loc: time.UTC}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/dashboard", h.readOnly(h.dashboard))
	mux.HandleFunc("/v1/progress", h.readOnly(h.progress))
	mux.HandleFunc("/v1/gamification", h.readOnly(h.gamification))
	mux.HandleFunc("/v1/suggestions", h.suggestions)
	mux.HandleFunc("/v1/auth/register", h.register)
	mux.HandleFunc("/v1/auth/login", h.login)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logActivity(w, r)
	case http.MethodGet:
		h.readOnly(h.listActivities)(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// readOnly guards GET endpoints that need the read (or write) scope.
func (h *Handler) readOnly(next func(http.ResponseWriter, *http.Request, *auth.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		claims, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
			writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
			return
		}
		next(w, r, claims)
	}
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:write required")
		return
	}

	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	created, unlocked, err := h.service.LogActivity(r.Context(), domain.LogActivityInput{
		UserID:  claims.Subject,
		Type:    req.Type,
		Subtype: req.Subtype,
		Fields:  req.Details,
	})
	if err != nil {
		if errors.Is(err, activity.ErrValidation) || errors.Is(err, activity.ErrUnknownType) {
			writeError(w, http.StatusBadRequest, "validation_failed", activity.UserMessage(err))
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, LogActivityResponse{
		Activity:    toActivityView(created),
		NewlyEarned: orEmpty(unlocked),
	})
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	query := r.URL.Query()

	var filter activity.Filter
	if raw := strings.TrimSpace(query.Get("type")); raw != "" && !strings.EqualFold(raw, "all") {
		t, err := activity.ParseType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", activity.UserMessage(err))
			return
		}
		filter.Type = t
	}
	var err error
	if filter.From, err = h.parseDate(query.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "from must be YYYY-MM-DD")
		return
	}
	if filter.To, err = h.parseDate(query.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "to must be YYYY-MM-DD")
		return
	}
	filter.Query = query.Get("q")

	limit := domain.DefaultPageSize
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(query.Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	page, next, err := h.service.SearchActivities(r.Context(), claims.Subject, filter, cursor, limit)
	if err != nil {
		if errors.Is(err, domain.ErrCursorNotFound) {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListActivitiesResponse{
		Items:      toActivityViews(page),
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	d, err := h.service.Dashboard(r.Context(), claims.Subject)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		Recent:               toActivityViews(d.Recent),
		TotalCarbonFootprint: d.TotalCarbonFootprint,
		Equivalency:          d.Equivalency,
		Points:               d.Points,
		Level:                d.Level,
		Streak:               d.Streak,
	})
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "period must be one of Week, Month, Year, All")
		return
	}
	snapshot, err := h.service.Aggregates(r.Context(), claims.Subject, period)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) gamification(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	snapshot, err := h.service.Gamification(r.Context(), claims.Subject)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, gamification.Suggestions())
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	h.credentials(w, r, http.StatusCreated, h.accounts.Register)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	h.credentials(w, r, http.StatusOK, h.accounts.Login)
}

type credentialFunc func(ctx context.Context, username, password string) (account.Session, error)

func (h *Handler) credentials(w http.ResponseWriter, r *http.Request, status int, fn credentialFunc) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	session, err := fn(r.Context(), req.Username, req.Password)
	if err != nil {
		message := account.UserMessage(err, req.Username)
		switch {
		case errors.Is(err, account.ErrMissingCredentials), errors.Is(err, account.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, "validation_failed", message)
		case errors.Is(err, account.ErrUserExists):
			writeError(w, http.StatusConflict, "conflict", message)
		case errors.Is(err, account.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "unauthorized", message)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, status, SessionResponse{
		Username:  session.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, raw, h.loc)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func orEmpty(p []gamification.AchievementProgress) []gamification.AchievementProgress {
	if p == nil {
		return []gamification.AchievementProgress{}
	}
	return p
}
