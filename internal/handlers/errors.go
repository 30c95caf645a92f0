package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"LendIt/internal/model"
)

// ErrorResponse — единый формат ошибки API.
type ErrorResponse struct {
	Code    string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor сопоставляет доменную ошибку с HTTP-статусом и кодом.
func statusFor(err error) (int, string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, model.ErrAlreadyReturned):
		return http.StatusConflict, "AlreadyReturned"
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden, "PermissionDenied"
	case errors.Is(err, model.ErrStoreFailure):
		return http.StatusInternalServerError, "StoreFailure"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

func (h *ItemHandler) writeError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	resp := ErrorResponse{Code: code, Message: err.Error()}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		resp.Message = "validation failed"
		resp.Fields = ve.FieldMessages()
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Errorw(op+": failed", "error", err)
		// детали хранилища наружу не отдаём
		resp.Message = "internal error"
	} else {
		h.Logger.Warnw(op+": rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}
