package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 0, 5, 12)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(12), p.TotalElements)
	assert.Len(t, p.Content, 2)

	empty := NewPage[string](nil, 2, 5, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)

	exact := NewPage([]int{1}, 1, 5, 10)
	assert.Equal(t, 2, exact.TotalPages)
}
