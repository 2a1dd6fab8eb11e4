package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, b *Buffer, text string) {
	t.Helper()
	tail := b.Tail()
	require.GreaterOrEqual(t, len(tail), len(text))
	copy(tail, text)
	b.Advance(len(text))
}

func TestBuffer(t *testing.T) {
	t.Run("tail accounting", func(t *testing.T) {
		b := New(16)
		require.Equal(t, 16, b.Spare())
		fill(t, b, "Hello")
		require.Equal(t, 11, b.Spare())
		require.Equal(t, "Hello", string(b.Preview()))
		require.Equal(t, 5, b.SegmentLength())
	})

	t.Run("segments are disjoint", func(t *testing.T) {
		b := New(32)
		fill(t, b, "first")
		first := b.Finish()
		fill(t, b, "second")
		second := b.Finish()
		require.Equal(t, "first", string(first))
		require.Equal(t, "second", string(second))
		require.Equal(t, 0, b.SegmentLength())
	})

	t.Run("split keeps the remainder", func(t *testing.T) {
		b := New(32)
		fill(t, b, "HEAD+body")
		head := b.Split(len("HEAD+"))
		require.Equal(t, "HEAD+", string(head))
		require.Equal(t, "body", string(b.Preview()))

		// the next segment grows contiguously after the split point
		fill(t, b, "-more")
		require.Equal(t, "body-more", string(b.Finish()))
		require.Equal(t, "HEAD+", string(head))
	})

	t.Run("exhaustion", func(t *testing.T) {
		b := New(8)
		fill(t, b, strings.Repeat("a", 8))
		require.Empty(t, b.Tail())
		require.Equal(t, 0, b.Spare())
	})

	t.Run("clear releases everything", func(t *testing.T) {
		b := New(8)
		fill(t, b, "12345678")
		b.Finish()
		b.Clear()
		require.Equal(t, 8, b.Spare())
		fill(t, b, "abc")
		require.Equal(t, "abc", string(b.Preview()))
	})
}

func BenchmarkBuffer(b *testing.B) {
	buff := New(4096)
	chunk := []byte(strings.Repeat("a", 1024))

	b.ReportAllocs()
	b.SetBytes(int64(len(chunk)))

	for i := 0; i < b.N; i++ {
		copy(buff.Tail(), chunk)
		buff.Advance(len(chunk))
		buff.Finish()
		buff.Clear()
	}
}
