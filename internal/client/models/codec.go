package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/common"
)

// RecordVersion is the envelope version written by Encode.
const RecordVersion = 1

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// Encode serializes v inside a versioned envelope.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(envelope{V: RecordVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a record written by Encode into out. Bare JSON written
// before envelopes existed is accepted as well.
func Decode(s string, out any) error {
	raw := bytes.TrimSpace([]byte(s))
	if len(raw) == 0 {
		return common.ErrCorruptRecord
	}

	if raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("%w: %v", common.ErrCorruptRecord, err)
		}
		vRaw, hasV := fields["v"]
		data, hasData := fields["data"]
		if hasV && hasData && len(fields) == 2 {
			var v int
			if err := json.Unmarshal(vRaw, &v); err != nil {
				return fmt.Errorf("%w: version: %v", common.ErrCorruptRecord, err)
			}
			if v != RecordVersion {
				return fmt.Errorf("%w: %d", common.ErrUnsupportedVersion, v)
			}
			raw = data
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCorruptRecord, err)
	}
	return nil
}
