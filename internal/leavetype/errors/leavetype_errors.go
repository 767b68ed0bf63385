package leavetypeerrors

import (
	"net/http"

	"go-leavelink/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)

	ErrLeaveTypeNameTaken = apperror.New(
		apperror.CodeConflict,
		"Leave type with the same name already exists",
		http.StatusConflict,
	)

	ErrLeaveTypeInUse = apperror.New(
		apperror.CodeConflict,
		"Leave type is referenced by existing leave requests",
		http.StatusConflict,
	)
)
