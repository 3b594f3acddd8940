package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/platform"
	"github.com/tendant/simple-provision/pkg/provision"
)

type Handle struct {
	provisionService *provision.Service
}

func NewHandle(provisionService *provision.Service) *Handle {
	return &Handle{
		provisionService: provisionService,
	}
}

// RegisterRoutes registers all provisioning routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
}

// Register handles a registration request, running the full provisioning
// saga and shaping the outcome into the wire response.
func (h *Handle) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode registration request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sagaReq, err := toSagaRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.provisionService.Register(r.Context(), sagaReq)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	var user UserPayload
	if err := copier.Copy(&user, &result.Account); err != nil {
		slog.Error("Failed to map account to response", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{
		User:           user,
		Registrations:  registrationEntries(result.Outcomes),
		Warnings:       result.Warnings,
		PartialSuccess: result.Partial,
	})
}

func toSagaRequest(req RegisterRequest) (provision.Request, error) {
	sagaReq := provision.Request{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		Organization: req.Organization,
		Role:         req.Role,
	}

	if req.TargetPlatforms != nil {
		sagaReq.TargetsSpecified = true
		for _, raw := range *req.TargetPlatforms {
			p, err := platform.Parse(raw)
			if err != nil {
				return provision.Request{}, err
			}
			sagaReq.TargetPlatforms = append(sagaReq.TargetPlatforms, p)
		}
	}

	if len(req.PlatformRoleOverrides) > 0 {
		sagaReq.PlatformRoleOverrides = make(map[platform.Platform]string, len(req.PlatformRoleOverrides))
		for raw, override := range req.PlatformRoleOverrides {
			p, err := platform.Parse(raw)
			if err != nil {
				return provision.Request{}, err
			}
			sagaReq.PlatformRoleOverrides[p] = override
		}
	}

	return sagaReq, nil
}

// handleServiceError converts saga errors to HTTP responses
func (h *Handle) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *identity.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	if errors.Is(err, account.ErrDuplicateIdentity) {
		writeError(w, http.StatusConflict, "Username or email is already registered")
		return
	}

	var rollbackErr *provision.RollbackError
	if errors.As(err, &rollbackErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:         rollbackErr.Error(),
			Details:       rollbackErr.Details,
			Registrations: registrationEntries(rollbackErr.Outcomes),
		})
		return
	}

	slog.Error("Registration failed", "error", err)
	writeError(w, http.StatusInternalServerError, "An error occurred during registration")
}

// Helper functions

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, ErrorResponse{Error: message})
}
