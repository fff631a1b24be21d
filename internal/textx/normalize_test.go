package textx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"SEDU", "sedu"},
		{"Secretaria de Saúde", "secretaria de saude"},
		{"Educação", "educacao"},
		{"ÁÉÍÓÚ ãõ ç", "aeiou ao c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Polícia Civil", "policia"))
	assert.True(t, Contains("Polícia Civil", ""))
	assert.False(t, Contains("SEGER", "sedu"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "PRODEST", Truncate("PRODEST", 12))
	assert.Equal(t, "123456789012", Truncate("123456789012", 12))
	assert.Equal(t, "Secretaria d…", Truncate("Secretaria de Estado", 12))
	assert.Equal(t, "Educação e C…", Truncate("Educação e Cultura", 12))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
