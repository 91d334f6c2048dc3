package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// File reads cards from a local JSON or TOML file.
//
// JSON files hold either an array of cards or an object with a "cards"
// array. TOML files hold a [[cards]] array of tables. The format is chosen
// by extension: .toml is TOML, everything else is JSON.
type File struct {
	path string
}

// NewFile returns a loader for path. The file is not read until Load.
func NewFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &File{path: path}, nil
}

func (f *File) Kind() string     { return KindFile }
func (f *File) Location() string { return f.path }
func (f *File) Close() error     { return nil }

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) ([]Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "feed file %s", f.path)
	}
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(f.path), ".toml") {
		return DecodeTOML(data)
	}
	return DecodeJSON(data)
}

type envelope struct {
	Cards []Card `json:"cards" toml:"cards"`
}

// DecodeJSON parses a JSON array of cards or a {"cards": [...]} object.
func DecodeJSON(data []byte) ([]Card, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var cards []Card
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json feed")
		}
		return normalize(cards), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json feed")
	}
	return normalize(env.Cards), nil
}

// DecodeTOML parses a TOML document with a [[cards]] array.
func DecodeTOML(data []byte) ([]Card, error) {
	var env envelope
	if err := toml.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml feed")
	}
	return normalize(env.Cards), nil
}
