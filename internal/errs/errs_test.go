package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	v := Validation("line_count", "need 6 lines, got %d", 5)
	c := Computation("palace_lookup", "no palace row for %s", "000000")

	assert.True(t, IsValidation(v))
	assert.False(t, IsComputation(v))
	assert.True(t, IsComputation(c))
	assert.False(t, IsValidation(c))

	wrapped := fmt.Errorf("compute: %w", v)
	assert.True(t, IsValidation(wrapped))
	assert.True(t, errors.Is(wrapped, &Error{Kind: KindValidation, Code: "line_count"}))
	assert.False(t, errors.Is(wrapped, &Error{Kind: KindValidation, Code: "rule_set"}))
}

func TestErrorString(t *testing.T) {
	e := Validation("rule_set", "unknown rule set %q", "nope")
	assert.Equal(t, `[VALIDATION_ERROR:rule_set] unknown rule set "nope"`, e.Error())

	cause := errors.New("boom")
	e.WithCause(cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "boom")
}
