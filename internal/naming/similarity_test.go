package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"títle", "title", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 1.0, Similarity("customerName", "customer_name"), 0.001)
	assert.InDelta(t, 0.8, Similarity("title", "titl"), 0.001)
	assert.Less(t, Similarity("email", "password"), SuggestThreshold)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"title", "author", "price", "items"}

	got, ok := Suggest("titl", candidates)
	assert.True(t, ok)
	assert.Equal(t, "title", got)

	got, ok = Suggest("Price", candidates)
	assert.True(t, ok)
	assert.Equal(t, "price", got)

	_, ok = Suggest("zzz", candidates)
	assert.False(t, ok)

	_, ok = Suggest("title", nil)
	assert.False(t, ok)
}
