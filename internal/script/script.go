// Package script reads edit scripts and replays them against a buffer.
//
// A script is a list of operations in YAML or TOML:
//
//	ops:
//	  - op: insert
//	    pos: 0
//	    text: "hello\n"
//	  - op: delete
//	    pos: 0
//	    len: 2
//	  - op: replace
//	    pos: 1
//	    len: 3
//	    text: "ELL"
//
// Offsets follow the buffer's raw-offset rules: out of range values are
// clamped rather than rejected.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Errors returned by script operations.
var (
	ErrUnknownOp     = errors.New("unknown script op")
	ErrUnknownFormat = errors.New("unknown script format")
)

// Kind names a script operation.
type Kind string

const (
	KindInsert  Kind = "insert"
	KindDelete  Kind = "delete"
	KindReplace Kind = "replace"
)

// Op is a single edit.
type Op struct {
	Kind Kind   `yaml:"op" toml:"op"`
	Pos  int    `yaml:"pos" toml:"pos"`
	Len  int    `yaml:"len,omitempty" toml:"len,omitempty"`
	Text string `yaml:"text,omitempty" toml:"text,omitempty"`
}

// Script is an ordered list of edits.
type Script struct {
	Ops []Op `yaml:"ops" toml:"ops"`
}

// Format is a script encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFor picks a format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Parse decodes and validates a script.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every op is known.
func (s *Script) Validate() error {
	for i, op := range s.Ops {
		switch op.Kind {
		case KindInsert, KindDelete, KindReplace:
		default:
			return fmt.Errorf("op %d: %q: %w", i, op.Kind, ErrUnknownOp)
		}
	}
	return nil
}

// Editor is the buffer surface a script drives.
type Editor interface {
	InsertText(pos int, text string)
	DeleteText(start, length int)
	Replace(start, length int, text string)
}

// Apply validates the script and then runs every op in order.
// Nothing is applied if validation fails.
func (s *Script) Apply(ed Editor) error {
	if err := s.Validate(); err != nil {
		return err
	}

	for _, op := range s.Ops {
		switch op.Kind {
		case KindInsert:
			ed.InsertText(op.Pos, op.Text)
		case KindDelete:
			ed.DeleteText(op.Pos, op.Len)
		case KindReplace:
			ed.Replace(op.Pos, op.Len, op.Text)
		}
	}
	return nil
}
