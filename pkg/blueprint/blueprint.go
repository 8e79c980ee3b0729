// Package blueprint decodes factory blueprints and places their entities on
// a [factory.Layout].
//
// Blueprints arrive either as plain JSON or as exchange strings: a version
// byte ('0') followed by the base64 encoding of the zlib-compressed JSON.
// [Decode] accepts both; [Encode] produces exchange strings.
package blueprint

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/factoryflow/pkg/errors"
)

// exchangeVersion is the only exchange string version in use.
const exchangeVersion = '0'

// Position is an entity position in tile units. Multi-tile entities are
// positioned at their center, so coordinates may be fractional.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Entity is one placed entity as it appears in a blueprint.
type Entity struct {
	Number    int      `json:"entity_number"`
	Name      string   `json:"name"`
	Position  Position `json:"position"`
	Direction *int     `json:"direction,omitempty"`
	Recipe    string   `json:"recipe,omitempty"`
	Type      string   `json:"type,omitempty"` // underground belts: "input" or "output"
}

// Blueprint is the decoded "blueprint" object. Fields not needed for
// analysis are dropped.
type Blueprint struct {
	Label    string   `json:"label,omitempty"`
	Item     string   `json:"item,omitempty"`
	Version  int64    `json:"version,omitempty"`
	Entities []Entity `json:"entities"`
}

type envelope struct {
	Blueprint *Blueprint      `json:"blueprint,omitempty"`
	Book      json.RawMessage `json:"blueprint_book,omitempty"`
}

// Decode parses a blueprint given as JSON or as an exchange string.
func Decode(s string) (*Blueprint, error) {
	if err := errors.ValidateBlueprintInput(s); err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)

	data := []byte(s)
	if s[0] != '{' {
		var err error
		if data, err = inflate(s); err != nil {
			return nil, err
		}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "decode blueprint JSON")
	}
	if env.Blueprint == nil {
		if len(env.Book) > 0 {
			return nil, errors.New(errors.ErrCodeUnsupported, "blueprint books are not supported")
		}
		return nil, errors.New(errors.ErrCodeInvalidBlueprint, "no 'blueprint' key found")
	}
	if env.Blueprint.Label == "" {
		env.Blueprint.Label = "No label"
	}
	return env.Blueprint, nil
}

// Read decodes a blueprint from r.
func Read(r io.Reader) (*Blueprint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read blueprint")
	}
	return Decode(string(data))
}

func inflate(s string) ([]byte, error) {
	if s[0] != exchangeVersion {
		return nil, errors.New(errors.ErrCodeInvalidBlueprint, "unsupported exchange string version %q", s[0])
	}
	raw, err := base64.StdEncoding.DecodeString(s[1:])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "decode base64")
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "open zlib stream")
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "inflate")
	}
	return data, nil
}

// JSON returns the blueprint wrapped in its {"blueprint": ...} envelope.
func (b *Blueprint) JSON() ([]byte, error) {
	return json.Marshal(envelope{Blueprint: b})
}

// Encode returns b as an exchange string.
func Encode(b *Blueprint) (string, error) {
	data, err := b.JSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode blueprint")
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "deflate")
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "deflate")
	}
	return string(exchangeVersion) + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
