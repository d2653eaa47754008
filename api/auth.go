package api

import (
	"context"
	"net/http"
	"time"

	"github.com/garnizeh/feedback/internal/auth"
	"github.com/garnizeh/feedback/internal/models"
)

// Authenticator is the part of auth.Service used by the HTTP layer.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, string, error)
	ResolveCaller(ctx context.Context, token string) (*models.User, error)
}

type AuthHandler struct {
	auth    Authenticator
	schemas *Schemas
	ttl     time.Duration
}

func NewAuthHandler(a Authenticator, schemas *Schemas, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: a, schemas: schemas, ttl: ttl}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.schemas.decodeBody(r, schemaLogin, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	user, token, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.ttl.Seconds()),
		User:      user,
	})
}

// CallerHandlerFunc is a handler that runs on behalf of an authenticated user.
type CallerHandlerFunc func(w http.ResponseWriter, r *http.Request, caller *models.User)

// Require resolves the bearer token into a caller before invoking next.
func (h *AuthHandler) Require(next CallerHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			WriteError(w, r, err)
			return
		}

		caller, err := h.auth.ResolveCaller(r.Context(), token)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		next(w, r, caller)
	}
}
