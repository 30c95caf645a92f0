package model

import (
	"errors"

	"github.com/hay-kot/criterio"
)

var (
	// ErrNotFound — запись с указанным id отсутствует в хранилище.
	ErrNotFound = errors.New("item not found")
	// ErrAlreadyReturned — повторная попытка отметить возврат.
	ErrAlreadyReturned = errors.New("item is already marked as returned")
	// ErrStoreFailure — хранилище не смогло выполнить операцию.
	ErrStoreFailure = errors.New("store failure")
	// ErrPermissionDenied — доставка уведомлений запрещена.
	ErrPermissionDenied = errors.New("notification permissions not granted")
)

// ValidationError — ошибка валидации с сообщениями по полям.
type ValidationError struct {
	Fields criterio.FieldErrors
}

// NewValidationError оборачивает результат criterio. Возвращает nil, если ошибок нет.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fe criterio.FieldErrors
	if errors.As(err, &fe) {
		return &ValidationError{Fields: fe}
	}
	return &ValidationError{Fields: criterio.FieldErrors{{Field: "", Err: err}}}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error { return e.Fields }

// FieldMessages возвращает сообщения в виде field -> message.
func (e *ValidationError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Err.Error()
	}
	return out
}
