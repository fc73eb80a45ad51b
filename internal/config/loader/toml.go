package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// MaxIncludeDepth bounds how deeply "@include" files may nest.
const MaxIncludeDepth = 8

// TOMLLoader reads a TOML settings file.
//
// A file may name other files under an "@include" key, either one path or
// a list, relative to its own directory. Included settings are merged in
// order and the including file overrides them.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader returns a loader for path on the OS file system.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS returns a loader for path on fs.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Load reads the loader's file and its includes.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadWithIncludes(l.path, MaxIncludeDepth)
}

// LoadFrom reads a single file without resolving includes.
// A missing file yields nil, nil.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader decodes TOML read from r.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

// LoadWithIncludes reads path and resolves includes at most maxDepth
// files deep.
func (l *TOMLLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("%s: include depth exceeded", path)
	}

	settings, err := l.LoadFrom(path)
	if err != nil || settings == nil {
		return nil, err
	}

	raw, ok := settings["@include"]
	if !ok {
		return settings, nil
	}
	delete(settings, "@include")

	paths, err := includePaths(raw, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := make(map[string]any)
	for _, p := range paths {
		inc, err := l.LoadWithIncludes(p, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", p, err)
		}
		base = DeepMerge(base, inc)
	}
	return DeepMerge(base, settings), nil
}

func (l *TOMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var settings map[string]any
	if err := toml.Unmarshal(data, &settings); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if settings == nil {
		settings = make(map[string]any)
	}
	return settings, nil
}

// includePaths resolves an "@include" value against dir.
func includePaths(raw any, dir string) ([]string, error) {
	var names []string
	switch v := raw.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("@include entry %v is %T, not a string", item, item)
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("@include must be a string or a list of strings, got %T", raw)
	}

	for i, name := range names {
		if !filepath.IsAbs(name) {
			names[i] = filepath.Join(dir, name)
		}
	}
	return names, nil
}
