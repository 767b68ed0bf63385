package leaveerrors

import (
	"net/http"

	"go-leavelink/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)

	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is not in a state that allows this action",
		http.StatusConflict,
	)

	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"An overlapping leave request already exists for this period",
		http.StatusConflict,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start date must not be after end date",
		http.StatusBadRequest,
	)

	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrExceedsMaxDays = apperror.New(
		apperror.CodeInvalidInput,
		"Requested period exceeds the maximum days for this leave type",
		http.StatusBadRequest,
	)

	ErrNotDepartmentReviewer = apperror.New(
		apperror.CodeForbidden,
		"You have no decision authority over this department",
		http.StatusForbidden,
	)

	ErrLeaveAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"You do not have access to this leave request",
		http.StatusForbidden,
	)

	ErrApplicantWithoutDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"Applicant account has no department assigned",
		http.StatusBadRequest,
	)

	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave request ID",
		http.StatusBadRequest,
	)

	// ErrInvalidActorID covers a caller whose user id claim is not a
	// valid UUID; the leave id may be perfectly fine.
	ErrInvalidActorID = apperror.New(
		apperror.CodeUnauthorized,
		"Caller identity is invalid",
		http.StatusUnauthorized,
	)
)
