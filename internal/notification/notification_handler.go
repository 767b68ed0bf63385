package notification

import (
	"net/http"

	"go-leavelink/internal/domain"
	"go-leavelink/internal/middleware"
	"go-leavelink/internal/shared/apperror"
	"go-leavelink/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) caller(c *gin.Context) (domain.Identity, bool) {
	id, found := middleware.CallerIdentity(c)
	if !found {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return domain.Identity{}, false
	}
	return id, true
}

func (h *Handler) GetMine(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.service.GetMine(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.service.GetUnreadCount(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Notification marked as read"}, nil)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), actor); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"}, nil)
}
