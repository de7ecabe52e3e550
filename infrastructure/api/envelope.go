package api

import (
	"encoding/json"
	"fmt"
)

// APIError is the structured error the backend places in the v1 envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Meta carries pagination info when the backend returns a page.
type Meta struct {
	Page     int   `json:"page,omitempty"`
	PageSize int   `json:"page_size,omitempty"`
	Total    int64 `json:"total,omitempty"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
	Meta  *Meta           `json:"meta"`
}

// decodeEnvelope validates a response body against the documented v1
// envelope {data, error, meta} once, at ingress. Bodies that are not an
// envelope at all (bare arrays, pre-v1 objects) are passed through to the
// legacy adapter instead of being speculatively probed at every call site.
func decodeEnvelope(body []byte) (json.RawMessage, *Meta, *APIError) {
	if len(body) == 0 {
		return nil, nil, nil
	}
	if body[0] == '[' {
		// Bare array: pre-envelope shape, the payload is the body.
		return json.RawMessage(body), nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return json.RawMessage(body), nil, nil
	}
	if env.Error != nil {
		return nil, env.Meta, env.Error
	}
	if env.Data != nil {
		return env.Data, env.Meta, nil
	}
	// An object without data/error keys is itself the payload.
	return json.RawMessage(body), nil, nil
}

// LegacyPayload unwraps the historical response shapes the backend has
// shipped for one named collection: {"<field>": [...]}, {"data": {"<field>":
// [...]}} or a bare array. It returns an empty array when nothing matches,
// favoring an empty-but-valid shape over a decode failure.
func LegacyPayload(raw json.RawMessage, field string) json.RawMessage {
	empty := json.RawMessage(`[]`)
	if len(raw) == 0 {
		return empty
	}
	if raw[0] == '[' {
		return raw
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return empty
	}
	if v, ok := obj[field]; ok {
		return v
	}
	if inner, ok := obj["data"]; ok {
		return LegacyPayload(inner, field)
	}
	return empty
}
