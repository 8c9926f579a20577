// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// windowsReservedNames are device names Windows refuses as file or directory
// names regardless of extension.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name is a Windows device name.
// Only the part before the last dot is compared, case-insensitively.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}

// ReservedSegment returns the first segment of the slash- or
// backslash-separated path rel that is a Windows device name.
func ReservedSegment(rel string) (string, bool) {
	segments := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' })
	for _, seg := range segments {
		if IsWindowsReservedName(seg) {
			return seg, true
		}
	}
	return "", false
}
