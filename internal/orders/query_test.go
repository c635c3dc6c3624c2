package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetaFirstOfTwoPages(t *testing.T) {
	// 11 orders, page size 10: first page is full and has a next page.
	meta := computeMeta(11, 1, 10)

	assert.Equal(t, int64(11), meta.TotalCount)
	assert.Equal(t, int64(2), meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.False(t, meta.HasPreviousPage)
}

func TestComputeMetaLastPage(t *testing.T) {
	meta := computeMeta(11, 2, 10)

	assert.Equal(t, int64(2), meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPreviousPage)
}

func TestComputeMetaExactMultiple(t *testing.T) {
	meta := computeMeta(20, 2, 10)

	assert.Equal(t, int64(2), meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPreviousPage)
}

func TestComputeMetaEmpty(t *testing.T) {
	meta := computeMeta(0, 1, 10)

	assert.Equal(t, int64(0), meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPreviousPage)
}
