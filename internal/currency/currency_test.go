package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	amount, code := Convert(830, "US")
	assert.InDelta(t, 10.0, amount, 0.001)
	assert.Equal(t, "USD", code)

	amount, code = Convert(500, "IN")
	assert.Equal(t, 500.0, amount)
	assert.Equal(t, "INR", code)

	// Unknown codes fall back to the base currency.
	_, code = Convert(500, "XX")
	assert.Equal(t, "INR", code)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹500", Format(500, "IN"))
	assert.Equal(t, "₹500", Format(500, ""))
	assert.Equal(t, "$10", Format(830, "US"))
	assert.Equal(t, "$6.02", Format(500, "us"))
}
