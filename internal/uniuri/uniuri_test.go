package uniuri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		token := New()
		assert.Len(t, token, StdLen)

		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestNewLenChars(t *testing.T) {
	token := NewLenChars(64, []byte("ab"))
	assert.Len(t, token, 64)

	for _, c := range token {
		assert.Contains(t, "ab", string(c))
	}

	assert.Empty(t, NewLen(0))
	assert.Panics(t, func() { NewLenChars(4, nil) })
}
