package services

import "errors"

// Service errors used by the HTTP error mapper. Engine rejections pass through
// as the models error kinds.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrRunNotFound     = errors.New("run not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuelNotFound    = errors.New("duel record not found")
	ErrFormatMismatch  = errors.New("operation does not apply to this run format")
	ErrVersionConflict = errors.New("run was changed by another request; reload and retry")

	ErrRunNameConflict     = errors.New("run name is already in use")
	ErrRatedPlayerConflict = errors.New("player is already rated")

	ErrAuthenticationFailed = errors.New("authentication failed")
)
