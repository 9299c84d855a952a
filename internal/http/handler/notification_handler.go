package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

var validNotificationTypes = map[string]bool{
	string(domain.NotificationStageChanged):   true,
	string(domain.NotificationQuoteAccepted):  true,
	string(domain.NotificationQuoteRejected):  true,
	string(domain.NotificationQuoteExpired):   true,
	string(domain.NotificationTaskAssigned):   true,
	string(domain.NotificationDeliveryFailed): true,
	string(domain.NotificationFollowUpDue):    true,
}

func isValidNotificationType(t string) bool {
	return validNotificationTypes[t]
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// @Summary List notifications
// @Description Get paginated list of notifications for the current user
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param unreadOnly query bool false "Only unread notifications" default(false)
// @Param type query string false "Filter by notification type" Enums(stage_changed, quote_accepted, quote_rejected, quote_expired, task_assigned, delivery_failed, follow_up_due)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	notificationType := r.URL.Query().Get("type")

	if notificationType != "" && !isValidNotificationType(notificationType) {
		respondWithError(w, http.StatusBadRequest, "Invalid notification type")
		return
	}

	result, err := h.notificationService.GetForCurrentUser(r.Context(), page, pageSize, unreadOnly, notificationType)
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get unread notification count
// @Description Get the count of unread notifications for the current user
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Security BearerAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to get unread count", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get unread count")
		return
	}

	respondJSON(w, http.StatusOK, count)
}

// @Summary Get notification
// @Description Get a single notification by its ID
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.NotificationDTO
// @Security BearerAuth
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	notification, err := h.notificationService.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserContextRequired):
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Notification not found")
		case errors.Is(err, service.ErrNotificationNotOwned):
			respondWithError(w, http.StatusForbidden, "You do not have access to this notification")
		default:
			h.logger.Error("failed to get notification", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to get notification")
		}
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// @Summary Mark notification as read
// @Description Mark a single notification as read
// @Tags Notifications
// @Param id path string true "Notification ID" format(uuid)
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserContextRequired):
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Notification not found")
		case errors.Is(err, service.ErrNotificationNotOwned):
			respondWithError(w, http.StatusForbidden, "You do not have access to this notification")
		default:
			h.logger.Error("failed to mark notification as read", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Mark all notifications as read
// @Description Mark all notifications for the current user as read
// @Tags Notifications
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllAsReadForUser(r.Context()); err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to mark all notifications as read", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to mark all notifications as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
