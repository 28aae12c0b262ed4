package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator()

	t.Run("produces exactly length digits", func(t *testing.T) {
		for _, length := range []int{4, 6, 8} {
			for i := 0; i < 50; i++ {
				code, err := g.Generate(length)
				require.NoError(t, err)
				assert.Len(t, code, length)
				for _, r := range code {
					assert.True(t, r >= '0' && r <= '9', "unexpected character %q in %q", r, code)
				}
			}
		}
	})

	t.Run("rejects invalid lengths", func(t *testing.T) {
		_, err := g.Generate(0)
		assert.Error(t, err)

		_, err = g.Generate(-1)
		assert.Error(t, err)

		_, err = g.Generate(19)
		assert.Error(t, err)
	})
}

func TestHashAndVerify(t *testing.T) {
	g := NewGenerator()

	hash, err := g.Hash("042118")
	require.NoError(t, err)
	assert.NotEqual(t, "042118", hash)

	assert.True(t, g.Verify("042118", hash))
	assert.False(t, g.Verify("000000", hash))
	assert.False(t, g.Verify("", hash))
}

func TestHashIsSaltedPerCode(t *testing.T) {
	g := NewGenerator()

	first, err := g.Hash("042118")
	require.NoError(t, err)
	second, err := g.Hash("042118")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, g.Verify("042118", first))
	assert.True(t, g.Verify("042118", second))
}
