package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

type TeamHandler struct {
	teamService *service.TeamService
	logger      *zap.Logger
}

func NewTeamHandler(teamService *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// @Summary List team members
// @Description List team members, active first
// @Tags Team
// @Produce json
// @Param includeInactive query bool false "Include deactivated members"
// @Success 200 {array} domain.TeamMemberDTO
// @Security BearerAuth
// @Router /team [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	members, err := h.teamService.List(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error("failed to list team members", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list team members")
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// @Summary Add team member
// @Description Add a new team member
// @Tags Team
// @Accept json
// @Produce json
// @Param request body domain.CreateTeamMemberRequest true "Member data"
// @Success 201 {object} domain.TeamMemberDTO
// @Security BearerAuth
// @Router /team [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.teamService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			respondWithError(w, http.StatusConflict, "A team member with this email already exists")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Invalid role")
		default:
			h.logger.Error("failed to create team member", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create team member")
		}
		return
	}

	w.Header().Set("Location", "/api/v1/team/"+member.ID.String())
	respondJSON(w, http.StatusCreated, member)
}

// @Summary Get team member
// @Description Get a team member by ID
// @Tags Team
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} domain.TeamMemberDTO
// @Security BearerAuth
// @Router /team/{id} [get]
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid member ID: must be a valid UUID")
		return
	}

	member, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team member not found")
			return
		}
		h.logger.Error("failed to get team member", zap.Error(err), zap.String("member_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get team member")
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// @Summary Update team member
// @Description Update a team member's details, role or active flag
// @Tags Team
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body domain.UpdateTeamMemberRequest true "Member data"
// @Success 200 {object} domain.TeamMemberDTO
// @Security BearerAuth
// @Router /team/{id} [put]
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid member ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	member, err := h.teamService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Team member not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Invalid role")
		default:
			h.logger.Error("failed to update team member", zap.Error(err), zap.String("member_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to update team member")
		}
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// @Summary Deactivate team member
// @Description Deactivate a team member; their history is preserved
// @Tags Team
// @Param id path string true "Member ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /team/{id} [delete]
func (h *TeamHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid member ID: must be a valid UUID")
		return
	}

	if err := h.teamService.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team member not found")
			return
		}
		h.logger.Error("failed to deactivate team member", zap.Error(err), zap.String("member_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to deactivate team member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
