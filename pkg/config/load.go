package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/linebreak/pkg/errors"
)

// Names lists the file names searched by [Find], in order.
var Names = []string{"linebreak.toml", "linebreak.yaml", "linebreak.yml"}

// Load reads a configuration file. The format follows the file extension:
// .toml, or .yaml and .yml. Missing sections keep the values of [Default].
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	f, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes configuration data in the given format ("toml" or "yaml")
// after expanding environment variables, and validates it. References to
// unset variables without a default are an error.
func Parse(data []byte, format string) (*File, error) {
	expanded, err := expandConfig(data)
	if err != nil {
		return nil, err
	}

	f := Default()
	switch format {
	case "toml":
		md, err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Find returns the first configuration file found in dirs, trying [Names]
// in each directory. It returns false when there is none.
func Find(dirs ...string) (string, bool) {
	for _, dir := range dirs {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// SearchDirs returns the default search path: the working directory followed
// by the user configuration directory.
func SearchDirs() []string {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "linebreak"))
	}
	return dirs
}
