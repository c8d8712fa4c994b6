package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	lr := NewLineReader(strings.NewReader("one\ntwo\nthree"))

	for _, want := range []string{"one", "two", "three"} {
		got, ok := lr.Next()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := lr.Next()
	assert.False(t, ok)
	assert.NoError(t, lr.Err())
}

func TestLineReaderCRLF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("one\r\ntwo\r\n"))

	got, ok := lr.Next()
	require.True(t, ok)
	assert.Equal(t, "one", got)
	got, ok = lr.Next()
	require.True(t, ok)
	assert.Equal(t, "two", got)
}

func TestLineReaderEmptyInput(t *testing.T) {
	lr := NewLineReader(strings.NewReader(""))
	_, ok := lr.Next()
	assert.False(t, ok)
	assert.NoError(t, lr.Err())
}
