package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials возвращается, если API отклонил email или пароль
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionExpired синтезируется интерсептором, когда API отклонил приложенный токен
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrFetchFailed оборачивает любой сбой получения списка
	ErrFetchFailed = errors.New("failed to fetch properties")
	// ErrUnknown описывает прочие сбои входа, включая таймаут
	ErrUnknown = errors.New("login failed")
	// ErrNotFound возвращается для 404
	ErrNotFound = errors.New("not found")
)

// DefaultRetryHint подсказка, которую видит пользователь при 429 на входе
const DefaultRetryHint = "Please try again in 1 minute."

// RateLimitError возвращается при 429 на входе.
// Detail хранит текст сервера для логов, пользователю показывается RetryHint.
type RateLimitError struct {
	RetryHint string
	Detail    string
}

func (e *RateLimitError) Error() string {
	return "too many failed login attempts: " + e.RetryHint
}

// StatusError описывает ответ API со статусом 4xx или 5xx
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Code)
	}
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Detail)
}

// Is позволяет сопоставить 404 с ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == 404
}

// StatusCode извлекает HTTP-статус из цепочки ошибок, 0 если его нет
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Message возвращает текст ошибки для пользователя
func Message(err error) string {
	var rl *RateLimitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return "Too many failed login attempts. " + rl.RetryHint
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrFetchFailed):
		return "Failed to fetch properties"
	case errors.Is(err, ErrUnknown):
		return "Login failed. Please try again."
	case errors.Is(err, ErrNotFound):
		return "Not found"
	}
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return "An unexpected error occurred. Please try again."
}
