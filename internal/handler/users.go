package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rollcall/rollcall/internal/handler/dto"
	"github.com/rollcall/rollcall/internal/redact"
	"github.com/rollcall/rollcall/internal/repository"
	"github.com/rollcall/rollcall/internal/service"
)

// StatusPolicy decides the HTTP status for a failed users request.
type StatusPolicy int

const (
	// StatusCollapsed answers every failure with 400.
	StatusCollapsed StatusPolicy = iota
	// StatusSplit answers validation failures with 400, connection
	// failures with 503 and other store failures with 502.
	StatusSplit
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc     *service.UserService
	logger  *slog.Logger
	policy  StatusPolicy
	secrets []string
}

// NewUserHandler creates a new UserHandler. secrets are scrubbed from
// error messages before they are returned or logged.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, policy StatusPolicy, secrets ...string) *UserHandler {
	return &UserHandler{
		svc:     svc,
		logger:  logger,
		policy:  policy,
		secrets: secrets,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleServiceError(w, "create", err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToCreateUserResponse(user))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, "list", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// handleServiceError flattens store errors into the failure envelope.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, op string, err error) {
	message := redact.Error(err, h.secrets...)
	status := h.statusFor(err)

	h.logger.Warn("users request failed",
		slog.String("op", op),
		slog.String("kind", repository.Kind(err)),
		slog.Int("status", status),
		slog.String("error", message),
	)

	writeError(w, status, message)
}

func (h *UserHandler) statusFor(err error) int {
	if h.policy != StatusSplit {
		return http.StatusBadRequest
	}
	switch {
	case repository.IsValidation(err):
		return http.StatusBadRequest
	case repository.IsConnection(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
