package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmichell/psxdmh/internal/errs"
)

func TestKindMatching(t *testing.T) {
	err := errs.Malformed("bad filter index %d", 7)
	assert.True(t, errs.OfKind(err, errs.MalformedInput))
	assert.False(t, errs.OfKind(err, errs.IOError))
}

func TestIsBySentinel(t *testing.T) {
	sentinel := errs.Missing("patch %d not found", 12)
	wrapped := errs.IO(errors.New("disk full"), "writing wav")
	assert.False(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(sentinel, errs.Missing("patch %d not found", 12)))
}
