package notificationerrors

import (
	"net/http"

	"go-leavelink/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)

	ErrDuplicateNotification = apperror.New(
		apperror.CodeConflict,
		"Notification for this decision already exists",
		http.StatusConflict,
	)
)
