// Package pathutil expands user supplied paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/padnav/errors"
)

// Expand resolves a leading ~ and environment variables and returns an
// absolute path. Empty input stays empty.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "could not get user home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	path = os.ExpandEnv(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid path "+path)
	}
	return abs, nil
}
