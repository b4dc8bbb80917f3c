package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Confirmação de Pagamento", "confirmacao de pagamento"},
		{"  TARIFA   BANCÁRIA!! ", "tarifa bancaria"},
		{"Déjà-vu (test)", "deja vu test"},
		{"", ""},
		{"123/456", "123 456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeAccount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10018", "10018"},
		{"10018.0", "10018"},
		{"10018,0", "10018"},
		{" 1.001-8 ", "10018"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAccount(tt.in), "input %q", tt.in)
	}
}
