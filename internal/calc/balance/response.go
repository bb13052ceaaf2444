package balance

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Response is the envelope every calculator endpoint returns.
type Response struct {
	Success    bool     `json:"success"`
	Results    any      `json:"results,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Error      string   `json:"error,omitempty"`
	TestID     int64    `json:"test_id,omitempty"`
	TestNumber int      `json:"test_number,omitempty"`
	Saved      bool     `json:"saved,omitempty"`
}

// WriteJSON encodes v before the status line is sent. A value that cannot be
// encoded (NaN or an infinity in the results) becomes a 500 envelope.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(Response{Error: "could not encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func WriteResult(w http.ResponseWriter, resp Response) {
	resp.Success = true
	WriteJSON(w, http.StatusOK, resp)
}

func WriteBadPayload(w http.ResponseWriter) {
	WriteJSON(w, http.StatusBadRequest, Response{Error: "Invalid request payload"})
}

// WriteFailure maps a calculation error onto the envelope: validation errors
// carry the message list, field errors are client mistakes, anything else is
// an internal failure.
func WriteFailure(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var fe *FieldError
	switch {
	case errors.As(err, &ve):
		WriteJSON(w, http.StatusUnprocessableEntity, Response{Errors: ve.Messages, Error: err.Error()})
	case errors.As(err, &fe):
		WriteJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
	default:
		zap.L().Error("calculation failed", zap.Error(err))
		WriteJSON(w, http.StatusInternalServerError, Response{Error: err.Error()})
	}
}
