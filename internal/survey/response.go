package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pcsurvey/internal/fileutil"
)

const (
	// FieldTimestamp is the JSON key holding the raw submission timestamp.
	FieldTimestamp = "timestamp"
	// FieldName is the JSON key holding the respondent name.
	FieldName = "name"
)

// Response is one survey submission.
type Response struct {
	// Timestamp is the submission time as exported, zone abbreviation included.
	Timestamp string
	// SubmittedAt is Timestamp resolved through the timezone table. It is zero
	// until the response has been parsed or resolved.
	SubmittedAt time.Time
	Name        string
	Fields      Fields
}

// Get returns a field value, treating timestamp and name as scalar fields.
func (r Response) Get(key string) (Value, bool) {
	switch key {
	case FieldTimestamp:
		return Scalar(r.Timestamp), true
	case FieldName:
		return Scalar(r.Name), true
	}
	return r.Fields.Get(key)
}

// Clone returns a deep copy.
func (r Response) Clone() Response {
	r.Fields = r.Fields.Clone()
	return r
}

func (r Response) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeMember := func(first bool, key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}
	if err := writeMember(true, FieldTimestamp, r.Timestamp); err != nil {
		return nil, err
	}
	if err := writeMember(false, FieldName, r.Name); err != nil {
		return nil, err
	}
	for _, key := range r.Fields.keys {
		if err := writeMember(false, key, r.Fields.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Response) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("response: expected object, got %v", tok)
	}

	out := Response{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("response: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("response field %q: %w", key, err)
		}
		switch key {
		case FieldTimestamp, FieldName:
			var v Value
			if err := v.UnmarshalJSON(raw); err != nil {
				return fmt.Errorf("response field %q: %w", key, err)
			}
			if key == FieldTimestamp {
				out.Timestamp = v.Scalar
			} else {
				out.Name = strings.TrimSpace(v.Scalar)
			}
		default:
			var v Value
			if err := v.UnmarshalJSON(raw); err != nil {
				return fmt.Errorf("response field %q: %w", key, err)
			}
			out.Fields.Set(key, v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// LoadResponses reads a JSON array of responses.
func LoadResponses(path string) ([]Response, error) {
	var responses []Response
	if err := fileutil.ReadJSON(path, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// SaveResponses writes responses as an indented JSON array.
func SaveResponses(path string, responses []Response) error {
	if responses == nil {
		responses = []Response{}
	}
	return fileutil.WriteJSON(path, responses)
}

// DistinctNames returns response names in first-appearance order.
func DistinctNames(responses []Response) []string {
	seen := make(map[string]struct{}, len(responses))
	names := make([]string, 0, len(responses))
	for _, r := range responses {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

// Rename replaces response names found in renames and returns the number of
// responses changed. Keys and values are trimmed before use.
func Rename(responses []Response, renames map[string]string) int {
	normalized := make(map[string]string, len(renames))
	for from, to := range renames {
		normalized[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	changed := 0
	for i := range responses {
		if to, ok := normalized[responses[i].Name]; ok && to != responses[i].Name {
			responses[i].Name = to
			changed++
		}
	}
	return changed
}
