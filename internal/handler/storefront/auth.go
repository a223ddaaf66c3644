package storefront

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/session"
	"github.com/mundolibro/storefront/internal/tenant"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login signs the shopper in against the users service and persists
// the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t := tenant.MustFromContext(r.Context())
	sess, err := h.sessions.Login(r.Context(), req.Username, req.Password, t.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. It never signs the shopper in; clients
// follow up with a login.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t := tenant.MustFromContext(r.Context())
	result, err := h.sessions.Register(r.Context(), session.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		TenantID: t.ID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Logout discards the session. Safe to call when nobody is signed in.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Loading       bool   `json:"loading"`
	Username      string `json:"username,omitempty"`
	TenantID      string `json:"tenant_id,omitempty"`
}

// GetSession reports the current session without exposing the token.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Loading: h.sessions.Loading()}
	if sess, ok := h.sessions.Session(); ok {
		resp.Authenticated = true
		resp.Username = sess.Username
		resp.TenantID = sess.TenantID
	}
	respondJSON(w, http.StatusOK, resp)
}
