package vizerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError_IsMalformed(t *testing.T) {
	err := Malformed("body.dat", 3, "expected %d columns, got %d", 7, 6)

	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.NotErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, "body.dat:3: expected 7 columns, got 6", err.Error())

	wrapped := fmt.Errorf("load trajectory: %w", err)
	var ie *InputError
	assert.True(t, errors.As(wrapped, &ie))
	assert.Equal(t, 3, ie.Line)
}

func TestInputError_NoLine(t *testing.T) {
	err := &InputError{Path: "objs.tsv", Reason: "unreadable"}
	assert.Equal(t, "objs.tsv: unreadable", err.Error())
}

func TestEmpty(t *testing.T) {
	err := Empty("body.dat", "timesteps")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "no timesteps")
}

func TestSink(t *testing.T) {
	assert.NoError(t, Sink("encode", nil))

	cause := errors.New("exec: \"ffmpeg\": executable file not found in $PATH")
	err := Sink("finalize", cause)

	assert.ErrorIs(t, err, ErrRenderSink)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "finalize: "+cause.Error(), err.Error())
}
