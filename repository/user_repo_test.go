package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", normalizeEmail("  Asha@Example.COM "))
	assert.Equal(t, "", normalizeEmail("   "))
}
