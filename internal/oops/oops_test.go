package oops

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var SampleErrorValue = errors.New("some error occurred that you should handle")

type SampleErrorType struct {
	Message string
}

func (s SampleErrorType) Error() string {
	return s.Message
}

func init() {
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
}

func TestNew(t *testing.T) {
	t.Run("errors.Is", func(t *testing.T) {
		err := New(SampleErrorValue, "test error")
		assert.ErrorIs(t, err, SampleErrorValue)
	})
	t.Run("errors.As", func(t *testing.T) {
		err := New(SampleErrorType{Message: "some fancy error type has occurred"}, "test error")
		var sErr SampleErrorType
		assert.True(t, errors.As(err, &sErr), "error did not appear to wrap the sample error type")
	})
	t.Run("message", func(t *testing.T) {
		err := New(SampleErrorValue, "chunk %q", "IDAT")
		assert.Equal(t, `some error occurred that you should handle: chunk "IDAT"`, err.Error())
		assert.Equal(t, SampleErrorValue.Error(), New(SampleErrorValue, "").Error())
	})
	t.Run("stack", func(t *testing.T) {
		err := New(SampleErrorValue, "test error")
		stack, ok := ZerologStackMarshaler(err).(CallStack)
		assert.True(t, ok)
		assert.NotEmpty(t, stack)
		assert.Nil(t, ZerologStackMarshaler(SampleErrorValue))
	})
}
