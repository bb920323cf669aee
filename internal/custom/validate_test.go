package custom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNameChatInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "greet", true},
		{"kebab", "my-command", true},
		{"digits", "cmd42", true},
		{"single char", "x", true},
		{"max length", strings.Repeat("a", 32), true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 33), false},
		{"uppercase", "Greet", false},
		{"spaces", "Has Spaces", false},
		{"underscore", "my_command", false},
		{"unicode", "héllo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateName(TypeChatInput, tt.input))
		})
	}
}

func TestValidateNameContextTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"mixed case", "Wave Hello", true},
		{"underscore", "find_user", true},
		{"hyphen", "report-user", true},
		{"max length", strings.Repeat("b", 32), true},
		{"empty", "", false},
		{"too long", strings.Repeat("b", 33), false},
		{"punctuation", "hey!", false},
		{"slash", "a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateName(TypeUser, tt.input))
			assert.Equal(t, tt.want, ValidateName(TypeMessage, tt.input))
		})
	}
}
