package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Olá", Truncate("Olá", 10))
	assert.Equal(t, "Olá, ", Truncate("Olá, João", 5))
	assert.Equal(t, "", Truncate("", 3))
}
