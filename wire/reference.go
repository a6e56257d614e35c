package wire

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Reference is an IRI that may appear either as a plain string or as an
// object with an "@id" key.
type Reference string

type referenceObject struct {
	ID string `json:"@id"`
}

func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(referenceObject{ID: string(r)})
}

func (r *Reference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*r = Reference(strings.TrimSpace(value))
		return nil
	}
	var object referenceObject
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	*r = Reference(strings.TrimSpace(object.ID))
	return nil
}

// TypedLiteral is a JSON-LD value object such as
// {"@value": "2026-01-01T00:00:00Z", "@type": "xsd:dateTimeStamp"}.
type TypedLiteral struct {
	Value string `json:"@value"`
	Type  string `json:"@type,omitempty"`
}

// LangString is a language-tagged JSON-LD literal.
type LangString struct {
	Value    string `json:"@value"`
	Language string `json:"@language,omitempty"`
}

const xsdDateTimeStamp = "xsd:dateTimeStamp"

func timestampLiteral(value time.Time) *TypedLiteral {
	if value.IsZero() {
		return nil
	}
	return &TypedLiteral{Value: value.UTC().Format(time.RFC3339Nano), Type: xsdDateTimeStamp}
}

// flexibleLiteral accepts either a bare string or a TypedLiteral.
type flexibleLiteral string

func (l *flexibleLiteral) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*l = flexibleLiteral(strings.TrimSpace(value))
		return nil
	}
	var literal TypedLiteral
	if err := json.Unmarshal(data, &literal); err != nil {
		return err
	}
	*l = flexibleLiteral(strings.TrimSpace(literal.Value))
	return nil
}
