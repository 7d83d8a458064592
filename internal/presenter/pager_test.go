package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

func TestPager_AdvancesOnlyWithinRange(t *testing.T) {
	var p Pager

	page, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.True(t, p.Loading())

	_, ok = p.Next()
	assert.False(t, ok, "second request while loading")

	assert.True(t, p.Accept(testutil.Page(1, 2)))
	assert.Equal(t, 1, p.Current())

	page, _ = p.Next()
	assert.Equal(t, 2, page)
	assert.True(t, p.Accept(testutil.Page(2, 2)))
	assert.Equal(t, 2, p.Current())

	page, _ = p.Next()
	assert.Equal(t, 3, page)
	assert.False(t, p.Accept(&media.Page{Page: 3, TotalPages: 2}))
	assert.Equal(t, 2, p.Current())
	assert.True(t, p.Exhausted())

	_, ok = p.Next()
	assert.False(t, ok)
}

func TestPager_FailRetriesSamePage(t *testing.T) {
	var p Pager
	p.Next()
	p.Fail()
	assert.False(t, p.Loading())
	assert.Equal(t, 0, p.Current())

	page, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, 1, page)
}

func TestPager_NeverMovesBackwards(t *testing.T) {
	var p Pager
	p.Next()
	p.Accept(testutil.Page(3, 5))
	p.Next()
	p.Accept(testutil.Page(2, 5))
	assert.Equal(t, 3, p.Current())
}

func TestPager_NilPage(t *testing.T) {
	var p Pager
	p.Next()
	assert.False(t, p.Accept(nil))
	assert.False(t, p.Exhausted())
	assert.False(t, p.Loading())
}

func TestPager_Reset(t *testing.T) {
	var p Pager
	p.Next()
	p.Accept(&media.Page{Page: 1, TotalPages: 0})
	require.True(t, p.Exhausted())

	p.Reset()
	assert.False(t, p.Exhausted())
	assert.Equal(t, 0, p.Current())
}
