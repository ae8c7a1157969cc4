package abtest

import (
	"fmt"
	"strings"
)

// Alternative selects the tail of the hypothesis test.
type Alternative int

const (
	// TwoSided tests whether B differs from A in either direction.
	TwoSided Alternative = iota + 1
	// Larger tests whether B converts better than A.
	Larger
	// Smaller tests whether B converts worse than A.
	Smaller
)

var alternativeNames = map[Alternative]string{
	TwoSided: "two-sided",
	Larger:   "larger",
	Smaller:  "smaller",
}

// Alternatives returns the recognized alternatives in display order.
func Alternatives() []Alternative {
	return []Alternative{TwoSided, Larger, Smaller}
}

// ParseAlternative maps "two-sided", "larger" or "smaller" to an Alternative.
func ParseAlternative(s string) (Alternative, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, alt := range Alternatives() {
		if alternativeNames[alt] == name {
			return alt, nil
		}
	}
	return 0, &ValidationError{Field: FieldAlternative, Value: s, Kind: ErrInvalidAlternative}
}

// Valid reports whether a is one of the three recognized alternatives.
func (a Alternative) Valid() bool {
	_, ok := alternativeNames[a]
	return ok
}

func (a Alternative) String() string {
	if name, ok := alternativeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Alternative(%d)", int(a))
}

// MarshalText encodes the canonical name. Unrecognized values fail.
func (a Alternative) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, &ValidationError{Field: FieldAlternative, Value: int(a), Kind: ErrInvalidAlternative}
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a canonical name.
func (a *Alternative) UnmarshalText(text []byte) error {
	alt, err := ParseAlternative(string(text))
	if err != nil {
		return err
	}
	*a = alt
	return nil
}
