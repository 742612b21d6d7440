package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionID(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		assert.Len(t, id, 20)
		assert.True(t, strings.HasPrefix(id, "S"))
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()
	assert.True(t, strings.HasPrefix(no, "PO-"))
	assert.Len(t, no, 15)
	assert.Equal(t, strings.ToUpper(no), no)
}

func TestGenerateShortUUID(t *testing.T) {
	id := GenerateShortUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
}
