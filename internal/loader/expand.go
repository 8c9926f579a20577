// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Environ builds the variable environment for override paths. Process
// variables win over the entries of envFile; a missing envFile contributes
// nothing.
func Environ(envFile string, processEnv []string) (expand.Environ, error) {
	var pairs []string
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		default:
			for k, v := range vars {
				pairs = append(pairs, k+"="+v)
			}
		}
	}
	// ListEnviron keeps the last value of a repeated name.
	pairs = append(pairs, processEnv...)
	return expand.ListEnviron(pairs...), nil
}

// ExpandPath expands $VAR and ${VAR} references in an override path. An
// unset variable is an error unless the reference supplies a default, as in
// ${VAR:-fallback}.
func ExpandPath(path string, env expand.Environ) (string, error) {
	if !strings.Contains(path, "$") {
		return path, nil
	}
	word, err := syntax.NewParser().Document(strings.NewReader(path))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	cfg := &expand.Config{Env: env, NoUnset: true}
	out, err := expand.Literal(cfg, word)
	if err != nil {
		return "", fmt.Errorf("cannot expand %q: %w", path, err)
	}
	return out, nil
}
