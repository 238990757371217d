package checkin

import (
	"encoding/json"
	"strings"
)

// maxTokenBytes rejects obviously malformed input before any store access.
const maxTokenBytes = 4096

// normalizeToken extracts the lookup key from a scanned payload.
//
// Gate scanners send two encodings: the bare token string, or the JSON
// object printed into QR codes, which wraps the token in a hash_signature
// field. Unwrapping here keeps a single lookup path. Anything unparseable is
// looked up verbatim and will simply miss.
func normalizeToken(raw string) (string, bool) {
	if raw == "" || len(raw) > maxTokenBytes {
		return "", false
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw, true
	}

	var payload struct {
		HashSignature string `json:"hash_signature"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.HashSignature != "" {
		return payload.HashSignature, true
	}
	return raw, true
}
