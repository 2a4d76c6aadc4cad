package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"turkish letters", "Pişirme Grubu 700", "pisirme-grubu-700"},
		{"dotted capital I", "İnoksan Fırın", "inoksan-firin"},
		{"punctuation stripped", "Gazlı Ocak (4 Gözlü)", "gazli-ocak-4-gozlu"},
		{"hyphen runs collapse", "700  -  Serisi", "700-serisi"},
		{"already clean", "gn-2-1-kuvet", "gn-2-1-kuvet"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GenerateSlug(tc.input))
		})
	}
}

func TestReplaceTurkishChars(t *testing.T) {
	assert.Equal(t, "CcGgIiOoSsUu", ReplaceTurkishChars("ÇçĞğİıÖöŞşÜü"))
}
