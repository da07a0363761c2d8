package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Offset(t *testing.T) {
	tests := []struct {
		name     string
		page     Pagination
		expected int
	}{
		{"first page", Pagination{Page: 1, PageSize: 10}, 0},
		{"third page", Pagination{Page: 3, PageSize: 25}, 50},
		{"zero page", Pagination{Page: 0, PageSize: 10}, 0},
		{"zero page size", Pagination{Page: 5, PageSize: 0}, 0},
		{"saturates instead of wrapping", Pagination{Page: 4611686018427387905, PageSize: 10}, math.MaxInt},
		{"largest page", Pagination{Page: math.MaxInt, PageSize: 100}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.page.Offset())
		})
	}
}
