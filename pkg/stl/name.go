package stl

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateName reports whether name survives a "solid <name>" line
// unchanged. ASCII readers split the line on whitespace, so control
// characters, surrounding whitespace and whitespace runs are rejected.
func ValidateName(name string) error {
	if i := strings.IndexFunc(name, unicode.IsControl); i >= 0 {
		return fmt.Errorf("solid name %q contains control character %U", name, []rune(name[i:])[0])
	}
	if strings.Join(strings.Fields(name), " ") != name {
		return fmt.Errorf("solid name %q must be trimmed and use single spaces", name)
	}
	return nil
}
