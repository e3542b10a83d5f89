// Package pathsafe validates relative paths for literal (non-percent-encoded)
// URL embedding. The manifest keeps URLs byte-for-byte equal to the relative
// path, so the validator constrains the input space instead of encoding it.
package pathsafe

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Characters that break or alter a literal URL when left unescaped.
const urlBreaking = "#?%&+\\"

// Characters invalid on common filesystems.
const fsInvalid = "<>:\"|*"

// reservedNames are device names that Windows resolves regardless of
// extension or directory position.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Validate checks a forward-slash separated, root-relative path against all
// safety rules. Rules are evaluated in order and the first violation wins.
// It never touches the filesystem.
func Validate(rel string) error {
	if rel == "" {
		return fmt.Errorf("path is empty")
	}

	for _, r := range rel {
		switch {
		case r <= 0x1F || r == 0x7F:
			return fmt.Errorf("path contains control character U+%04X", r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			return fmt.Errorf("path contains whitespace")
		case strings.ContainsRune(urlBreaking, r):
			return fmt.Errorf("path contains URL-breaking character %q", r)
		case strings.ContainsRune(fsInvalid, r):
			return fmt.Errorf("path contains filesystem-invalid character %q", r)
		}
	}

	if strings.Contains(rel, "//") {
		return fmt.Errorf("path contains doubled separator")
	}

	for _, seg := range strings.Split(rel, "/") {
		if err := validateSegment(seg); err != nil {
			return err
		}
	}

	return nil
}

func validateSegment(seg string) error {
	switch seg {
	case "":
		return fmt.Errorf("path contains empty segment")
	case ".", "..":
		return fmt.Errorf("path contains traversal segment %q", seg)
	}
	if strings.HasSuffix(seg, " ") || strings.HasSuffix(seg, ".") {
		return fmt.Errorf("segment %q ends in a space or period", seg)
	}
	if name := reservedBase(seg); name != "" {
		return fmt.Errorf("segment %q uses reserved device name %s", seg, name)
	}
	return nil
}

// reservedBase strips an extension-like suffix, normalizes, and uppercases
// the segment, returning the reserved device name it collides with, if any.
func reservedBase(seg string) string {
	base := seg
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	upper := strings.ToUpper(norm.NFKC.String(base))
	if _, ok := reservedNames[upper]; ok {
		return upper
	}
	return ""
}
