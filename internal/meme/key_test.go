package meme

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat.jpg", "cat.jpg"},
		{"my cat.jpg", "my-cat.jpg"},
		{"my   cat.jpg", "my-cat.jpg"},
		{"cat (1).jpg", "cat-1-.jpg"},
		{"cat(copy)(2).png", "cat-copy-2-.png"},
		{"  cat.jpg  ", "cat.jpg"},
		{"tab\there.png", "tab-here.png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("my cat (1).jpg")

	// 36-char UUID prefix, then the sanitized original name.
	require.Greater(t, len(key), 37)
	_, err := uuid.Parse(key[:36])
	require.NoError(t, err)
	assert.Equal(t, byte('-'), key[36])
	assert.True(t, strings.HasSuffix(key, "my-cat-1-.jpg"))

	// Keys must be collision-resistant across calls for the same input.
	assert.NotEqual(t, key, NewObjectKey("my cat (1).jpg"))
}
