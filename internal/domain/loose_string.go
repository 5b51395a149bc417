package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LooseString decodes from a JSON string, number or boolean and keeps the
// value's text. null decodes to the empty string. It always encodes as a
// JSON string.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = LooseString(data)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("domain: expected string, number or boolean, got %s", data)
	}
	*s = LooseString(num.String())
	return nil
}

// String returns the text.
func (s LooseString) String() string {
	return string(s)
}
