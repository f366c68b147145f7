package envelope

import "net/http"

// Envelope is the uniform wrapper around every backend response.
// Success is the only signal that Data can be trusted; Status and Message are
// for display and diagnostics.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
}

// Empty is the envelope of operations that return no data.
type Empty = Envelope[struct{}]

func OK[T any](status int, message string, data T) Envelope[T] {
	return Envelope[T]{Status: status, Message: message, Success: true, Data: &data}
}

func Fail[T any](status int, message string) Envelope[T] {
	return Envelope[T]{Status: status, Message: message, Success: false}
}

// Done is a successful envelope without data.
func Done(message string) Empty {
	return Empty{Status: http.StatusOK, Message: message, Success: true}
}

// MessageOr returns the envelope message, or fallback when the backend sent none.
func (e Envelope[T]) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
