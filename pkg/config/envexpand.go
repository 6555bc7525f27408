package config

import (
	"os"
	"regexp"
	"slices"

	"github.com/matzehuels/linebreak/pkg/errors"
)

// envRef matches ${NAME} and ${NAME:-default}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// expansion is a config file with its environment references substituted.
type expansion struct {
	text string
	// unset lists names referenced without a default that have no value.
	unset []string
}

func expandEnv(input string, lookup func(string) (string, bool)) expansion {
	var unset []string
	text := envRef.ReplaceAllStringFunc(input, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v, ok := lookup(m[1]); ok && v != "" {
			return v
		}
		if m[2] != "" {
			return m[2][len(":-"):]
		}
		if !slices.Contains(unset, m[1]) {
			unset = append(unset, m[1])
		}
		return ""
	})
	return expansion{text: text, unset: unset}
}

// expandConfig replaces ${NAME} and ${NAME:-default} with values from the
// environment. A name that is empty takes its default. A reference without
// a default must be set, so a missing REDIS_URL does not quietly become the
// file cache.
func expandConfig(data []byte) ([]byte, error) {
	exp := expandEnv(string(data), os.LookupEnv)
	if len(exp.unset) > 0 {
		name := exp.unset[0]
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"environment variable %s is not set (write ${%s:-} to allow an empty value)", name, name)
	}
	return []byte(exp.text), nil
}
