package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"condogate/internal/auth/models"
	"condogate/internal/auth/service"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/httputil"
	"condogate/pkg/requestcontext"
)

// Handler exposes the identity endpoints.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the public login endpoint. The /auth/me route is mounted
// separately behind the auth middleware by the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
}

// ProtectedRoutes mounts endpoints that require a valid bearer token.
func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}
	return nil
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[*LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: result.Token, User: result.User})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
