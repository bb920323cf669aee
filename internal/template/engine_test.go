package template

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFieldShorthand(t *testing.T) {
	e := NewEngine()

	out, err := e.Render(context.Background(), "{{user.id}}", map[string]any{
		"user": map[string]any{"id": "123"},
	})

	require.NoError(t, err)
	assert.Equal(t, "123", out)
}

func TestRenderDeterministic(t *testing.T) {
	e := NewEngine()
	data := map[string]any{"user": map[string]any{"username": "alice"}}

	first, err := e.Render(context.Background(), "Hello {{user.username}}", data)
	require.NoError(t, err)

	second, err := e.Render(context.Background(), "Hello {{user.username}}", data)
	require.NoError(t, err)

	assert.Equal(t, "Hello alice", first)
	assert.Equal(t, first, second)
}

func TestRenderCachesCompilation(t *testing.T) {
	e := NewEngine()
	data := map[string]any{"user": map[string]any{"id": "1"}}

	_, err := e.Render(context.Background(), "{{user.id}}", data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.Compilations())

	_, err = e.Render(context.Background(), "{{user.id}}", data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.Compilations(), "second render must not recompile")

	_, err = e.Render(context.Background(), "{{user.id}}!", data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.Compilations(), "distinct content compiles once more")
}

func TestRenderRawPassthrough(t *testing.T) {
	// Output is Discord chat text, not HTML: no escaping is applied.
	e := NewEngine()

	out, err := e.Render(context.Background(), "{{payload}}", map[string]any{
		"payload": "<script>alert(1)</script>",
	})

	require.NoError(t, err)
	assert.Equal(t, "<script>alert(1)</script>", out)
}

func TestRenderMalformedTemplate(t *testing.T) {
	e := NewEngine()

	_, err := e.Render(context.Background(), "{{if}}", map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")
}

func TestRenderMissingKeyFailsLoudly(t *testing.T) {
	e := NewEngine()

	_, err := e.Render(context.Background(), "{{user.nope}}", map[string]any{
		"user": map[string]any{"id": "1"},
	})

	assert.Error(t, err, "author typos surface as render errors")
}

func TestRenderCancelledContext(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Render(ctx, "{{user.id}}", map[string]any{
		"user": map[string]any{"id": "1"},
	})

	assert.Error(t, err)
}

func TestRenderOutputCap(t *testing.T) {
	e := NewEngine()
	data := map[string]any{"chunk": strings.Repeat("x", 1<<10)}

	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("{{chunk}}")
	}

	_, err := e.Render(context.Background(), b.String(), data)
	assert.ErrorIs(t, err, ErrOutputTooLarge)
}

func TestBlocksCallable(t *testing.T) {
	e := NewEngine()
	e.RegisterBlock("shout", strings.ToUpper)

	out, err := e.Render(context.Background(), `{{shout user.name}}`, map[string]any{
		"user": map[string]any{"name": "alice"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ALICE", out)
}

func TestRegisterBlockInvalidatesCache(t *testing.T) {
	e := NewEngine()
	data := map[string]any{"user": map[string]any{"id": "1"}}

	_, err := e.Render(context.Background(), "{{user.id}}", data)
	require.NoError(t, err)
	require.Equal(t, uint64(1), e.Compilations())

	e.RegisterBlock("shout", strings.ToUpper)

	_, err = e.Render(context.Background(), "{{user.id}}", data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.Compilations(), "block registration drops compiled closures")
}

func TestResetClearsBlocks(t *testing.T) {
	e := NewEngine()
	e.RegisterBlock("shout", strings.ToUpper)
	e.Reset()

	_, err := e.Render(context.Background(), `{{shout "hi"}}`, map[string]any{})
	assert.Error(t, err, "blocks are gone after reset")
}
