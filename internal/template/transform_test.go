package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	isBlock := func(name string) bool { return name == "shout" }

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"bare path", "{{user.id}}", "{{.user.id}}"},
		{"bare name", "{{guild_id}}", "{{.guild_id}}"},
		{"already dotted", "{{.user.id}}", "{{.user.id}}"},
		{"surrounding text", "Hello {{user.username}}!", "Hello {{.user.username}}!"},
		{"two actions", "{{user.id}} in {{guild_id}}", "{{.user.id}} in {{.guild_id}}"},
		{"block call arg", "{{shout user.name}}", "{{shout .user.name}}"},
		{"bare block call", "{{shout}}", "{{shout}}"},
		{"keyword", "{{end}}", "{{end}}"},
		{"condition", "{{if user.premium}}yes{{end}}", "{{if .user.premium}}yes{{end}}"},
		{"range", "{{range messages}}{{end}}", "{{range .messages}}{{end}}"},
		{"variable", "{{$x}}", "{{$x}}"},
		{"string literal", `{{printf "%s" user.id}}`, `{{printf "%s" .user.id}}`},
		{"literal true", "{{true}}", "{{true}}"},
		{"trim markers", "{{- user.id -}}", "{{- .user.id -}}"},
		{"pipeline", "{{user.name | shout}}", "{{.user.name | shout}}"},
		{"no actions", "plain text", "plain text"},
		{"unterminated", "{{user.id", "{{user.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transform(tt.source, isBlock))
		})
	}
}
