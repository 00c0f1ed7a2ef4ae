package types

import (
	"fmt"
	"strings"
)

// Status is the bare variant name stored in an entity's status column.
type Status string

// StatusSet is the closed set of variants for one kind. Default is named
// explicitly and must be one of Variants; reordering Variants never changes
// it.
type StatusSet struct {
	Default  Status
	Variants []Status
}

// Contains reports whether st is a variant of the set.
func (s StatusSet) Contains(st Status) bool {
	for _, v := range s.Variants {
		if v == st {
			return true
		}
	}
	return false
}

// Parse matches raw case-insensitively against the variants and returns the
// canonical variant.
func (s StatusSet) Parse(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range s.Variants {
		if strings.EqualFold(string(v), raw) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: %s)", ErrInvalidStatus, raw, s)
}

func (s StatusSet) String() string {
	names := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// Validate checks that the set is non-empty and holds its default.
func (s StatusSet) Validate() error {
	if len(s.Variants) == 0 {
		return fmt.Errorf("%w: empty status set", ErrInvalidStatus)
	}
	if !s.Contains(s.Default) {
		return fmt.Errorf("%w: default %q is not a variant", ErrInvalidStatus, s.Default)
	}
	return nil
}
