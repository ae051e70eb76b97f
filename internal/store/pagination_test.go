package store

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Number: 1, Size: 6}},
		{"keeps valid", Page{Number: 3, Size: 10}, Page{Number: 3, Size: 10}},
		{"caps size", Page{Number: 1, Size: 500}, Page{Number: 1, Size: 100}},
		{"negative number", Page{Number: -2, Size: 5}, Page{Number: 1, Size: 5}},
		{"huge number", Page{Number: math.MaxInt, Size: 100}, Page{Number: math.MaxInt32/100 + 1, Size: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(6, 100))
		})
	}
}

func TestPageResult_Navigation(t *testing.T) {
	first := &PageResult[int]{Items: []int{1, 2}, Total: 5, Page: Page{Number: 1, Size: 2}}
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	last := &PageResult[int]{Items: []int{5}, Total: 5, Page: Page{Number: 3, Size: 2}}
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
	assert.Equal(t, 4, last.Page.Offset())
}

func TestMapPage(t *testing.T) {
	in := &PageResult[int]{Items: []int{1, 2}, Total: 9, Page: Page{Number: 2, Size: 2}}
	out := MapPage(in, func(v int) string { return string(rune('a' + v)) })
	assert.Equal(t, []string{"b", "c"}, out.Items)
	assert.Equal(t, 9, out.Total)
	assert.Equal(t, in.Page, out.Page)
}

func TestPage_OffsetNeverOverflows(t *testing.T) {
	for _, size := range []int{1, 6, 100} {
		p := Page{Number: math.MaxInt, Size: size}.Normalize(6, 100)
		assert.GreaterOrEqual(t, p.Offset(), 0, "size %d", size)
		assert.LessOrEqual(t, p.Offset(), math.MaxInt32, "size %d", size)
	}
}

func TestConvertPage(t *testing.T) {
	in := &PageResult[int]{Items: []int{4, 5}, Total: 7, Page: Page{Number: 2, Size: 2}}

	out, err := ConvertPage(in, func(items []int) ([]string, error) {
		strs := make([]string, len(items))
		for i, v := range items {
			strs[i] = strconv.Itoa(v)
		}
		return strs, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, out.Items)
	assert.Equal(t, 7, out.Total)
	assert.Equal(t, in.Page, out.Page)

	_, err = ConvertPage(in, func([]int) ([]string, error) { return nil, errors.New("lookup failed") })
	assert.EqualError(t, err, "lookup failed")
}

func TestRecipeFilter_IsEmpty(t *testing.T) {
	assert.True(t, RecipeFilter{}.IsEmpty())
	assert.False(t, RecipeFilter{TagSlugs: []string{"lunch"}}.IsEmpty())
	assert.False(t, RecipeFilter{FavoritedBy: 1}.IsEmpty())
}

func TestError_Is(t *testing.T) {
	wrapped := ErrNotFound.WithCause(assert.AnError)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrAlreadyExists)
}
