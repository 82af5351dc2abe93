package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON failure envelope. Error is a stable snake_case
// code; Message carries the backend-supplied text verbatim when there is
// one; Fields maps field names to validation codes.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	JSON(w, status, ErrorResponse{Error: code, Message: message, Fields: fields})
}
