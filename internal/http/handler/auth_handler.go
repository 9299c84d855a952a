package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
)

type AuthHandler struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewAuthHandler(userRepo *repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// MeResponse describes the authenticated user and the sections their
// role may navigate to.
type MeResponse struct {
	UserID   string           `json:"userId"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     domain.AdminRole `json:"role"`
	Sections []authz.Section  `json:"sections"`
}

// @Summary Current user
// @Description Get the authenticated user's identity, role and visible sections
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := authz.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Best-effort presence tracking
	if err := h.userRepo.TouchSeen(r.Context(), userCtx.UserID); err != nil {
		h.logger.Warn("failed to update last seen", zap.Error(err), zap.String("user_id", userCtx.UserID.String()))
	}

	respondJSON(w, http.StatusOK, MeResponse{
		UserID:   userCtx.UserID.String(),
		Name:     userCtx.Name,
		Email:    userCtx.Email,
		Role:     userCtx.Role,
		Sections: authz.SectionsFor(userCtx.Role),
	})
}
