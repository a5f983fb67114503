package client

import (
	"encoding/json"
	"mime"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// BodyKind says which variant a Body holds.
type BodyKind int

const (
	// BodyNone means no response was received.
	BodyNone BodyKind = iota
	// BodyStructured is a response body that was parsed as JSON.
	BodyStructured
	// BodyRaw is a response body kept as text.
	BodyRaw
)

// Body is a response body: either a parsed JSON value or the raw text.
type Body struct {
	kind  BodyKind
	value ldvalue.Value
	text  string
}

func Structured(value ldvalue.Value) Body {
	return Body{kind: BodyStructured, value: value}
}

func Raw(text string) Body {
	return Body{kind: BodyRaw, text: text}
}

func (b Body) Kind() BodyKind { return b.kind }

// Structured returns the parsed value and true if the body is structured.
func (b Body) Structured() (ldvalue.Value, bool) {
	if b.kind != BodyStructured {
		return ldvalue.Null(), false
	}
	return b.value, true
}

// Raw returns the text and true if the body is raw.
func (b Body) Raw() (string, bool) {
	return b.text, b.kind == BodyRaw
}

// Lookup follows a dotted path of object keys into a structured body.
func (b Body) Lookup(path string) ldvalue.Value {
	v, ok := b.Structured()
	if !ok {
		return ldvalue.Null()
	}
	for _, key := range strings.Split(path, ".") {
		if v.Type() != ldvalue.ObjectType {
			return ldvalue.Null()
		}
		v = v.GetByKey(key)
	}
	return v
}

// String renders the body as JSON text for structured bodies and verbatim otherwise.
func (b Body) String() string {
	switch b.kind {
	case BodyStructured:
		return b.value.JSONString()
	case BodyRaw:
		return b.text
	default:
		return ""
	}
}

// MarshalJSON writes a structured body as its JSON value, a raw body as a JSON string, and an
// absent body as null.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case BodyStructured:
		return b.value.MarshalJSON()
	case BodyRaw:
		return json.Marshal(b.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the reverse of MarshalJSON. A JSON string always reads back as a raw body.
func (b *Body) UnmarshalJSON(data []byte) error {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch v := probe.(type) {
	case nil:
		*b = Body{}
	case string:
		*b = Raw(v)
	default:
		*b = Structured(ldvalue.Parse(data))
	}
	return nil
}

func parseBody(contentType string, data []byte) Body {
	if isJSONContentType(contentType) && json.Valid(data) {
		return Structured(ldvalue.Parse(data))
	}
	return Raw(string(data))
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
