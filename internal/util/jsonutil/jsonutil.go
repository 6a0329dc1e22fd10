package jsonutil

import (
	"bytes"
	"encoding/json"
)

// MarshalNoEscape encodes v into JSON without HTML-escaping <, >, and &,
// so stored prompts and labels stay readable.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex unmarshals raw into v with best effort: a direct
// unmarshal first, then one unwrap of a JSON-string-encoded payload
// (some clients double-encode the snapshot body).
func UnmarshalFlex(raw []byte, v any) error {
	direct := json.Unmarshal(raw, v)
	if direct == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return direct
	}
	return json.Unmarshal([]byte(s), v)
}
