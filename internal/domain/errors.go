package domain

import "errors"

var (
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrPermissionDenied = errors.New("permission denied")
)
