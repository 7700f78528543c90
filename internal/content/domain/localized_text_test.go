package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"json null", "null", ""},
		{"plain", "  Frank Herbert ", "Frank Herbert"},
		{"json array", `["Neil Gaiman", "Terry Pratchett"]`, "Neil Gaiman, Terry Pratchett"},
		{"json array skips blanks and non-strings", `["A", "", 3, " B "]`, "A, B"},
		{"empty json array", `[]`, ""},
		{"json string", `"Ursula K. Le Guin"`, "Ursula K. Le Guin"},
		{"broken json array kept raw", `[not json`, "[not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.raw))
		})
	}
}

func TestLocalizedTextResolve(t *testing.T) {
	both := NewLocalizedText("Dune", "كثيب")
	primaryOnly := NewLocalizedText("Dune", "")
	localizedOnly := NewLocalizedText("", "كثيب")
	none := NewLocalizedText("", "[]")

	assert.Equal(t, "كثيب", both.Resolve(true, "Book"))
	assert.Equal(t, "Dune", both.Resolve(false, "Book"))
	assert.Equal(t, "Dune", primaryOnly.Resolve(true, "Book"))
	assert.Equal(t, "كثيب", localizedOnly.Resolve(false, "Book"))
	assert.Equal(t, "Book", none.Resolve(true, "Book"))
	assert.True(t, none.IsEmpty())
}

func TestFromBook(t *testing.T) {
	c := FromBook(Book{
		ID:         "b1",
		Title:      "Good Omens",
		Author:     `["Neil Gaiman","Terry Pratchett"]`,
		IsFeatured: true,
		Rating:     4.5,
		CoverURL:   "https://cdn.example.com/b1.jpg",
	})

	assert.Equal(t, KindBook, c.Kind)
	assert.Equal(t, "Neil Gaiman, Terry Pratchett", c.Author.Primary)
	assert.True(t, c.Description.IsEmpty())
	assert.True(t, c.IsFeatured)
}
