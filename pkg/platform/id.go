// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// Known target platforms. Identifiers outside this list are accepted as long
// as they are well-formed, so projects can name their own targets.
const (
	Win64      ID = "Win64"
	Mac        ID = "Mac"
	LinuxX64   ID = "Linux"
	LinuxArm64 ID = "LinuxArm64"
	Android    ID = "Android"
	IOS        ID = "IOS"
)

// ErrInvalidID is the sentinel error wrapped by InvalidIDError.
var ErrInvalidID = errors.New("invalid platform identifier")

var (
	idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

	known = []ID{Win64, Mac, LinuxX64, LinuxArm64, Android, IOS}
)

type (
	// ID names a build target platform (e.g. "Win64").
	ID string

	// InvalidIDError is returned when an ID is empty or malformed.
	// It wraps ErrInvalidID for errors.Is() compatibility.
	InvalidIDError struct {
		Value ID
	}
)

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// IsValid returns whether the identifier is well-formed: a letter followed by
// letters, digits, or underscores.
func (id ID) IsValid() (bool, []error) {
	if !idPattern.MatchString(string(id)) {
		return false, []error{&InvalidIDError{Value: id}}
	}
	return true, nil
}

// IsKnown reports whether id is one of the predefined platforms.
func (id ID) IsKnown() bool {
	for _, k := range known {
		if k == id {
			return true
		}
	}
	return false
}

// Canonical returns the predefined spelling of a known platform matched
// case-insensitively, or id unchanged.
func (id ID) Canonical() ID {
	for _, k := range known {
		if strings.EqualFold(string(k), string(id)) {
			return k
		}
	}
	return id
}

// IsWindows reports whether the platform uses Windows filesystem rules.
func (id ID) IsWindows() bool {
	return id == Win64
}

// Error implements the error interface for InvalidIDError.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid platform identifier %q: must start with a letter and contain only letters, digits, or underscores", e.Value)
}

// Unwrap returns ErrInvalidID for errors.Is() compatibility.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// Known returns the predefined platform identifiers in a stable order.
func Known() []ID {
	out := make([]ID, len(known))
	copy(out, known)
	return out
}

// Parse converts user input to an ID. Known platforms match
// case-insensitively so "win64" and "Win64" name the same target; anything
// else is returned verbatim and must still pass IsValid.
func Parse(s string) (ID, error) {
	id := ID(strings.TrimSpace(s)).Canonical()
	if id.IsKnown() {
		return id, nil
	}
	if ok, errs := id.IsValid(); !ok {
		return "", errs[0]
	}
	return id, nil
}

// Host returns the platform the current process runs on.
func Host() ID {
	switch runtime.GOOS {
	case Windows:
		return Win64
	case Darwin:
		return Mac
	case Linux:
		if runtime.GOARCH == "arm64" {
			return LinuxArm64
		}
		return LinuxX64
	default:
		return ID(strings.ToUpper(runtime.GOOS[:1]) + runtime.GOOS[1:])
	}
}
