package departmenterrors

import (
	"net/http"

	"go-leavelink/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Department not found",
		http.StatusNotFound,
	)

	ErrDepartmentNameTaken = apperror.New(
		apperror.CodeConflict,
		"Department with the same name already exists",
		http.StatusConflict,
	)

	ErrDepartmentCodeTaken = apperror.New(
		apperror.CodeConflict,
		"Department with the same code already exists",
		http.StatusConflict,
	)

	ErrInvalidDepartmentName = apperror.New(
		apperror.CodeInvalidInput,
		"Department name is required",
		http.StatusBadRequest,
	)
)
