package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/pengaduan/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	// Errors holds per-field validation messages, keyed by request field.
	Errors FieldErrors
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	}
	return nil
}

// FieldErrors maps a request field to its validation messages. The backend
// sends either a list or a single string per field; both decode.
type FieldErrors map[string][]string

func (f *FieldErrors) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(FieldErrors, len(raw))
	for field, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[field] = list
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err != nil {
			return fmt.Errorf("errors.%s: %w", field, err)
		}
		out[field] = []string{one}
	}
	*f = out
	return nil
}

// First returns the first message of every field.
func (f FieldErrors) First() map[string]string {
	out := make(map[string]string, len(f))
	for field, msgs := range f {
		if len(msgs) > 0 {
			out[field] = msgs[0]
		}
	}
	return out
}

func (f FieldErrors) String() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field + ": " + strings.Join(f[field], ", "))
	}
	return sb.String()
}
