package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "CS-20260901-0042", formatOrderNumber("20260901", 42))
	assert.Equal(t, "CS-20260901-0001", formatOrderNumber("20260901", 1))
	// Counters past four digits keep growing rather than wrapping.
	assert.Equal(t, "CS-20260901-12345", formatOrderNumber("20260901", 12345))
}
