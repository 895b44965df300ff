package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DocID is a CMS document identifier. Payload returns ids as numbers on SQL
// adapters, strings on document adapters, and whole objects when a relation
// is populated. All three decode to the same string form.
type DocID string

func (id DocID) String() string { return string(id) }

func (id *DocID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocID(s)
	case '{':
		var ref struct {
			ID DocID `json:"id"`
		}
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*id = ref.ID
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("doc id: %w", err)
		}
		*id = DocID(n.String())
	}
	return nil
}

// MarshalJSON writes numeric ids back as numbers so SQL-backed collections
// accept them as relation values.
func (id DocID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
