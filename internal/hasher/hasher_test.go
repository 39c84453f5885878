package hasher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_Deterministic(t *testing.T) {
	t.Parallel()

	content := []byte("guarantee letter 2024/11")

	first, size, err := Sum(bytes.NewReader(content))
	require.NoError(t, err)

	second, _, err := Sum(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(len(content)), size)
	assert.Len(t, first, 64)
}

func TestSum_SingleBitDifference(t *testing.T) {
	t.Parallel()

	a := []byte("contract-0001.pdf content")
	b := make([]byte, len(a))
	copy(b, a)
	b[0] ^= 0x01

	digestA, _, err := Sum(bytes.NewReader(a))
	require.NoError(t, err)

	digestB, _, err := Sum(bytes.NewReader(b))
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
}

func TestSumBytes_MatchesSum(t *testing.T) {
	t.Parallel()

	content := []byte("bill #778-A")

	streamed, _, err := Sum(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, streamed, SumBytes(content))
}

func TestSum_EmptyContent(t *testing.T) {
	t.Parallel()

	digest, size, err := Sum(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
	assert.Len(t, digest, 64)
}
