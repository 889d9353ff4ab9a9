package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFormats_Examples(t *testing.T) {
	require.Len(t, DateFormats, 9)
	for _, f := range DateFormats {
		t.Run(f.Pattern, func(t *testing.T) {
			got, err := Example(f.Pattern)
			require.NoError(t, err)
			assert.Equal(t, f.Example, got)
		})
	}
}

func TestIsListed(t *testing.T) {
	assert.True(t, IsListed("%d-%b-%Y"))
	assert.True(t, IsListed("%Y/%m/%d"))
	assert.False(t, IsListed("%H:%M"))
}
