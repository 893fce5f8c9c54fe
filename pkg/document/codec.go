package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by Unmarshal for an unrecognised kind.
var ErrUnknownKind = errors.New("document: unknown template kind")

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDocument, KindReport, KindContract, KindConfiguration:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Marshal encodes t as JSON. The encoding carries every exported field of
// the concrete type; the kind travels separately.
func Marshal(t Template) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("document: cannot marshal nil template")
	}
	return json.Marshal(t)
}

// Unmarshal decodes data as a template of the given kind. Missing tags and
// metadata are filled in the way a constructor would; opts apply afterwards
// so a clock can be attached.
func Unmarshal(kind Kind, data []byte, opts ...Option) (Template, error) {
	var t Template
	switch kind {
	case KindDocument:
		t = &Document{}
	case KindReport:
		t = &Report{}
	case KindContract:
		t = &Contract{}
	case KindConfiguration:
		t = &Configuration{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	base := t.Base()
	for _, opt := range opts {
		if opt != nil {
			opt(base)
		}
	}
	if base.Tags == nil {
		base.Tags = []string{}
	}
	if c, ok := t.(*Configuration); ok && c.Settings == nil {
		c.Settings = make(map[string]any)
	}
	if base.Metadata == nil {
		base.Metadata = NewMetadata(base.now())
	} else if !base.Metadata.Status.Valid() {
		return nil, fmt.Errorf("decode %s: unknown status %q", kind, base.Metadata.Status)
	}
	return t, nil
}
