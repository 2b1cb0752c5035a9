package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlpha2(t *testing.T) {
	code, ok := Alpha2(" usa ")
	assert.True(t, ok)
	assert.Equal(t, "US", code)

	_, ok = Alpha2("US")
	assert.False(t, ok)
}

func TestAlpha3(t *testing.T) {
	code, ok := Alpha3("gb")
	assert.True(t, ok)
	assert.Equal(t, "GBR", code)

	_, ok = Alpha3("XX")
	assert.False(t, ok)
}
