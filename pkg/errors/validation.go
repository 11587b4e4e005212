package errors

import (
	"slices"
	"strconv"
	"strings"
)

// MaxWorldSize bounds the size of a world file accepted over the network.
const MaxWorldSize = 4 << 20

// ValidateWorldSource checks a world file body before it is parsed.
func ValidateWorldSource(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(ErrCodeInvalidWorld, "world file is empty")
	}
	if len(data) > MaxWorldSize {
		return New(ErrCodeInvalidWorld, "world file too large (max %d bytes)", MaxWorldSize)
	}
	return nil
}

// ParseSeed parses a decimal seed. An empty string is an error; callers
// that want a random default must handle it first.
func ParseSeed(s string) (uint64, error) {
	if s == "" {
		return 0, New(ErrCodeInvalidInput, "seed cannot be empty")
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "seed must be a non-negative integer: %q", s)
	}
	return seed, nil
}

// ValidateAttempts checks an attempt or parallelism bound.
func ValidateAttempts(name string, n, limit int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative", name)
	}
	if n > limit {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, limit)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
