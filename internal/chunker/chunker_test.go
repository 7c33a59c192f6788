package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_EmptyInput(t *testing.T) {
	t.Parallel()

	c := New(DefaultMaxChars, DefaultOverlapChars)

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		_, err := c.Split(input)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	t.Parallel()

	c := New(DefaultMaxChars, DefaultOverlapChars)

	text := "A short document that fits comfortably in one chunk."
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_HonorsMaxChars(t *testing.T) {
	t.Parallel()

	c := New(100, 20)

	text := strings.Repeat("word ", 500)
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100, "chunk %d exceeds cap", i)
		assert.NotEmpty(t, chunk, "chunk %d is empty", i)
	}
}

func TestSplit_NoSeparatorsHardCut(t *testing.T) {
	t.Parallel()

	c := New(50, 10)

	// One unbroken run of characters forces hard cuts at the cap.
	text := strings.Repeat("x", 200)
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 50)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	t.Parallel()

	c := New(100, 0)

	para1 := strings.Repeat("a", 70)
	para2 := strings.Repeat("b", 70)
	text := para1 + "\n\n" + para2

	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// The first chunk ends at the paragraph break, not at the hard cap.
	assert.Equal(t, para1+"\n\n", chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplit_OverlapSharedBetweenChunks(t *testing.T) {
	t.Parallel()

	overlap := 20
	c := New(100, overlap)

	text := strings.Repeat("x", 250)
	chunks, err := c.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		tail := string(prev[len(prev)-overlap:])
		assert.True(t, strings.HasPrefix(string(curr), tail),
			"chunk %d does not start with the tail of chunk %d", i, i-1)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	t.Parallel()

	c := New(80, 15)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	first, err := c.Split(text)
	require.NoError(t, err)
	second, err := c.Split(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplit_CoversAllInput(t *testing.T) {
	t.Parallel()

	c := New(100, 0)
	text := strings.Repeat("Sentence one here. Sentence two follows. ", 30)

	chunks, err := c.Split(text)
	require.NoError(t, err)

	// With zero overlap the chunks concatenate back to the input.
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplit_MultiByteRunes(t *testing.T) {
	t.Parallel()

	c := New(50, 10)
	text := strings.Repeat("número de párrafo añadido ", 40)

	chunks, err := c.Split(text)
	require.NoError(t, err)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 50)
	}
	// Rune-based windowing must never split inside a multi-byte sequence.
	for _, chunk := range chunks {
		assert.True(t, strings.ToValidUTF8(chunk, "") == chunk)
	}
}

func TestNew_ClampsBadLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		maxChars    int
		overlap     int
		wantMax     int
		wantOverlap int
	}{
		{"defaults on zero max", 0, 200, DefaultMaxChars, 200},
		{"defaults on negative overlap", 4000, -1, 4000, DefaultOverlapChars},
		{"overlap clamped below max", 100, 150, 100, 50},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := New(tc.maxChars, tc.overlap)
			assert.Equal(t, tc.wantMax, c.maxChars)
			assert.Equal(t, tc.wantOverlap, c.overlapChars)
		})
	}
}
