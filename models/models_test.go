package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text", text: "Test post", want: "Test post"},
		{name: "exactly fifteen", text: "123456789012345", want: "123456789012345"},
		{name: "long text is cut", text: "This text is definitely longer", want: "This text is de"},
		{name: "cyrillic counted by rune", text: "Тестовый пост для проверки", want: "Тестовый пост д"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Post{Text: tt.text}.String())
		})
	}
}

func TestGroupString(t *testing.T) {
	g := Group{Title: "Test group", Slug: "test-slug", Description: "desc"}
	assert.Equal(t, "Test group", g.String())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "auth", User{Username: "auth"}.FullName())
	assert.Equal(t, "Leo", User{Username: "auth", FirstName: "Leo"}.FullName())
	assert.Equal(t, "Leo Tolstoy", User{Username: "auth", FirstName: "Leo", LastName: "Tolstoy"}.FullName())
}
