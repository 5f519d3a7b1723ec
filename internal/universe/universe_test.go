package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	u := Default()

	symbols := u.Symbols()
	require.Len(t, symbols, 43)
	assert.Equal(t, 43, u.Count())

	assert.Equal(t, "AAPL", symbols[0])
	assert.Equal(t, "GM", symbols[len(symbols)-1])
	assert.Len(t, u.Categories, 8)
}

func TestUniverse_KeepsDuplicates(t *testing.T) {
	u := Universe{Categories: []Category{
		{Name: "A", Symbols: []string{"AAPL", "MSFT"}},
		{Name: "B", Symbols: []string{"AAPL"}},
	}}

	assert.Equal(t, []string{"AAPL", "MSFT", "AAPL"}, u.Symbols())
	assert.Equal(t, 3, u.Count())

	cat, ok := u.CategoryOf("AAPL")
	require.True(t, ok)
	assert.Equal(t, "A", cat)
}

func TestUniverse_CategoryOf(t *testing.T) {
	u := Default()

	cat, ok := u.CategoryOf("NVDA")
	require.True(t, ok)
	assert.Equal(t, "Large Cap Tech", cat)

	cat, ok = u.CategoryOf("NAKD")
	require.True(t, ok)
	assert.Equal(t, "Penny/Momentum", cat)

	_, ok = u.CategoryOf("BRK.B")
	assert.False(t, ok)
}
