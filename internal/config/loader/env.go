package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader reads settings from prefixed environment variables.
//
// A variable named PREFIX_SECTION_SOME_SETTING sets section.someSetting.
// Variables listed in the mapping are routed to their mapped path instead
// and win over the generic form.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
}

// NewEnvLoader returns a loader for prefix, such as "TEXTENGINE_", with the
// built-in shorthand variables.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, map[string]string{
		prefix + "LOG_LEVEL":       "log.level",
		prefix + "LOG_FILE":        "log.file",
		prefix + "CHUNK_SIZE":      "engine.chunkSize",
		prefix + "LINE_CACHE_SIZE": "engine.lineCacheSize",
	})
}

// NewEnvLoaderWithMapping returns a loader with only the given shorthands.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{prefix: prefix, mapping: mapping}
}

// AddMapping routes envVar to configPath.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load returns the settings found in the environment. A variable set to
// the empty string is kept as an empty string.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		setByPath(out, l.envToPath(name), l.parseValue(value))
	}

	for name, path := range l.mapping {
		if value, ok := os.LookupEnv(name); ok {
			setByPath(out, path, l.parseValue(value))
		}
	}

	return out, nil
}

// envToPath maps PREFIX_ENGINE_CHUNK_SIZE to engine.chunkSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, rest, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}

	words := strings.Split(rest, "_")
	var sb strings.Builder
	sb.WriteString(section)
	sb.WriteByte('.')
	sb.WriteString(words[0])
	for _, w := range words[1:] {
		if w == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(w[:1]))
		sb.WriteString(w[1:])
	}
	return sb.String()
}

// parseValue types a raw value: integer, then float (only with a '.'),
// then boolean words, else the string itself.
func (l *EnvLoader) parseValue(s string) any {
	if s == "" {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}

// setByPath stores value under a dotted path, creating nested maps.
func setByPath(m map[string]any, path string, value any) {
	key, rest, nested := strings.Cut(path, ".")
	if !nested {
		m[key] = value
		return
	}

	child, ok := m[key].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[key] = child
	}
	setByPath(child, rest, value)
}

// getByPath looks up a dotted path.
func getByPath(m map[string]any, path string) (any, bool) {
	key, rest, nested := strings.Cut(path, ".")
	if !nested {
		v, ok := m[key]
		return v, ok
	}

	child, ok := m[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return getByPath(child, rest)
}
