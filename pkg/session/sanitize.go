package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/itfview/pkg/domain"
)

// Limits on client-supplied input.
const (
	MaxViewIDSize    = 128
	MaxVariableSize  = 256
	MaxVariableCount = 1024
)

// SanitizeViewID rejects view IDs that are empty, too large or not valid
// UTF-8, and IDs containing control characters.
func SanitizeViewID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty view id", domain.ErrInvalidInput)
	case len(id) > MaxViewIDSize:
		return fmt.Errorf("%w: view id size=%d limit=%d", domain.ErrInvalidInput, len(id), MaxViewIDSize)
	case !utf8.ValidString(id):
		return fmt.Errorf("%w: view id is not valid UTF-8", domain.ErrInvalidInput)
	case strings.IndexFunc(id, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: view id contains control characters", domain.ErrInvalidInput)
	}
	return nil
}

// sanitizeCommand validates cmd and strips control characters from
// variable names. Names left empty are dropped.
func sanitizeCommand(cmd Command) (Command, error) {
	if len(cmd.Variables) > MaxVariableCount {
		return cmd, fmt.Errorf("%w: %d variables, limit=%d", domain.ErrInvalidInput, len(cmd.Variables), MaxVariableCount)
	}
	if cmd.Variables == nil {
		return cmd, nil
	}

	clean := make([]string, 0, len(cmd.Variables))
	for _, v := range cmd.Variables {
		if len(v) > MaxVariableSize {
			return cmd, fmt.Errorf("%w: variable size=%d limit=%d", domain.ErrInvalidInput, len(v), MaxVariableSize)
		}
		if !utf8.ValidString(v) {
			return cmd, fmt.Errorf("%w: variable name is not valid UTF-8", domain.ErrInvalidInput)
		}
		if s := stripControl(v); s != "" {
			clean = append(clean, s)
		}
	}
	cmd.Variables = clean
	return cmd, nil
}

func stripControl(s string) string {
	// Fast path: nothing to strip.
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
