package platform

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSupport(t *testing.T) {
	err := ValidateSupport()
	if runtime.GOOS == "darwin" {
		assert.NoError(t, err)
		assert.True(t, IsSupported())
		return
	}
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, IsSupported())
}

func TestUnsupportedWrapsSentinel(t *testing.T) {
	err := Unsupported("battery monitoring")
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Equal(t, "battery monitoring not supported on this platform", err.Error())
}
