// Package shared holds the JSON envelope helpers every handler uses, so
// error translation stays consistent across domains.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "gopass/pkg/domain-errors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded domain error into the JSON error envelope.
// Uncoded errors become opaque 500s; internal detail never leaks.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}

	var derr *dErrors.Error
	if errors.As(err, &derr) && derr.Code != dErrors.CodeInternal {
		body["error_description"] = derr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
