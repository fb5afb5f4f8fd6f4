package authapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fallback messages for responses the client cannot interpret.
const (
	loginFallback    = "Login failed. Invalid email or password."
	registerFallback = "Registration failed. Please check your data."
)

// Error is a structured failure from the auth service. Message is always
// human-readable; Status is zero when the service was unreachable.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// flattenErrorBody turns a remote error payload into one human-readable
// message. Shapes handled, in order:
//
//   - {"detail": "msg"}                  -> "msg"
//   - {"field": ["msg1", "msg2"], ...}   -> "field: msg1, msg2" per field,
//     fields joined by newlines
//   - anything else                      -> fallback
func flattenErrorBody(body []byte, fallback string) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return fallback
	}

	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
			return detail
		}
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, field := range keys {
		msgs := fieldMessages(payload[field])
		if len(msgs) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "\n")
}

// fieldMessages extracts the messages for one field, accepting either a
// list of strings or a single string.
func fieldMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
