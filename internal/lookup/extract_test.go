package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSearchTerm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dp product id", "https://www.amazon.co.jp/dp/B0ABCDEFGH", "B0ABCDEFGH"},
		{"product id wins over slug", "https://www.amazon.co.jp/Dune-Frank-Herbert-ebook/dp/B00B7NPRY8/ref=sr_1_1?keywords=dune", "B00B7NPRY8"},
		{"isbn13 style id", "https://www.amazon.com/gp/product/9784062748681", "9784062748681"},
		{"slug without id drops stopwords", "https://www.amazon.com/Meditations-Marcus-Aurelius-Kindle-Edition/dp/", "Meditations Marcus Aurelius"},
		{"percent-encoded slug", "https://www.amazon.co.jp/%E3%83%8E%E3%83%AB/dp/?tag=x", "ノル"},
		{"plain title", "  ノルウェイの森 ", "ノルウェイの森"},
		{"unrelated url", "https://example.com/books/1", "https://example.com/books/1"},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSearchTerm(tt.raw))
		})
	}
}

func TestExtractSearchTerm_Idempotent(t *testing.T) {
	for _, raw := range []string{
		"https://www.amazon.co.jp/dp/B0ABCDEFGH",
		"https://www.amazon.com/Meditations-Marcus-Aurelius-Kindle-Edition/dp/",
		"Dune",
	} {
		once := ExtractSearchTerm(raw)
		assert.Equal(t, once, ExtractSearchTerm(once), raw)
	}
}
