package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ReadConfig reads a json5 configuration file. When a sibling
// `<name>.local.<ext>` exists its values override the base file's.
// Returns os.ErrNotExist when neither file is present.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, err
		}
		found = true
	}

	localPath := localOverridePath(name)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override T
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Debug("merged config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively walks from the cwd up to the filesystem root looking
// for a configuration file matching `name`.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	current, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		cfg, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return out, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return out, os.ErrNotExist
		}
		current = parent
	}
}

func localOverridePath(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.local%s", prefix, ext))
}
