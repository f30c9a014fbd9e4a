package commons

import "github.com/api-sage/paper-trading-engine/src/internal/domain"

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// KindResponse builds a failed response carrying the kind of err as its code.
// Untagged errors are reported as internal failures with a generic detail.
func KindResponse[T any](message string, err error) Response[T] {
	kind := domain.KindOf(err)
	if kind == "" {
		return ErrorResponse[T](message, "Unable to process request right now")
	}

	response := ErrorResponse[T](message, err.Error())
	response.Code = string(kind)
	return response
}
