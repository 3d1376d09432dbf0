package libreorama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestOutputBuffer_appendAccumulates(t *testing.T) {
	b := NewOutputBuffer()
	b.Append([]byte{1, 2, 3})
	b.Append([]byte{4, 5})
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, b.Bytes())
	assert.Equal(t, 5, b.Written())
}

func TestOutputBuffer_resetRewindsButKeepsCapacity(t *testing.T) {
	b := NewOutputBuffer()
	b.Append([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	capBefore := b.Capacity()

	b.Reset()
	assert.Equal(t, 0, b.Written())
	assert.Equal(t, capBefore, b.Capacity())
}

func TestOutputBuffer_freeReleasesCapacity(t *testing.T) {
	b := NewOutputBuffer()
	b.Append([]byte{1, 2, 3})
	b.Free()
	assert.Equal(t, 0, b.Written())
	assert.Equal(t, 0, b.Capacity())
}

func TestOutputBuffer_appendIsLossless(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewOutputBuffer()
		var want []byte

		chunks := rapid.SliceOfN(rapid.SliceOf(rapid.Byte()), 0, 20).Draw(t, "chunks")
		for _, chunk := range chunks {
			b.Append(chunk)
			want = append(want, chunk...)
		}

		assert.Equal(t, want, b.Bytes())
	})
}
