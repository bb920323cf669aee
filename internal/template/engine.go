// Package template renders guild-author-supplied command content. Templates
// are compiled once per distinct body (keyed by a rolling content hash) and
// executed against the per-interaction context map with a registry of named
// helper blocks. Content is untrusted: evaluation sees only the context map
// and the block registry, output is size-capped, and execution is bounded by
// the caller's deadline.
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"text/template"
	"time"
)

const (
	// maxOutputBytes caps rendered output well above Discord's message limit;
	// anything bigger is a runaway template.
	maxOutputBytes = 64 << 10

	// DefaultTimeout bounds a render when the caller's context has no
	// deadline of its own.
	DefaultTimeout = 3 * time.Second
)

// ErrOutputTooLarge is returned when a render exceeds the output cap.
var ErrOutputTooLarge = errors.New("template: output too large")

// Engine compiles and renders templates. Rendered text is returned raw: the
// output target is Discord chat, not HTML, so no escaping is applied.
type Engine struct {
	mu       sync.RWMutex
	cache    map[string]*template.Template
	blocks   template.FuncMap
	compiles atomic.Uint64
	timeout  time.Duration
}

// NewEngine returns an Engine with an empty block registry.
func NewEngine() *Engine {
	return &Engine{
		cache:   make(map[string]*template.Template),
		blocks:  make(template.FuncMap),
		timeout: DefaultTimeout,
	}
}

// RegisterBlock adds a named helper callable from templates. Compiled
// templates bound the previous block set, so the cache is invalidated.
func (e *Engine) RegisterBlock(name string, fn any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocks[name] = fn
	e.cache = make(map[string]*template.Template)
}

// RegisterBlocks adds several helpers at once, invalidating the cache once.
func (e *Engine) RegisterBlocks(blocks map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, fn := range blocks {
		e.blocks[name] = fn
	}
	e.cache = make(map[string]*template.Template)
}

// Reset clears both the block registry and the compiled cache.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocks = make(template.FuncMap)
	e.cache = make(map[string]*template.Template)
}

// Compilations returns how many templates have been compiled. Renders of
// cached content do not increase it.
func (e *Engine) Compilations() uint64 {
	return e.compiles.Load()
}

// Render executes source against data. Deterministic for a fixed
// (source, data, blocks) triple. Compile errors and render errors both carry
// the underlying template error so authors can fix their content.
func (e *Engine) Render(ctx context.Context, source string, data any) (string, error) {
	tmpl, err := e.compiled(source)
	if err != nil {
		return "", err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	w := &boundedWriter{ctx: ctx}
	if err := tmpl.Execute(w, data); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}
	return w.buf.String(), nil
}

// compiled returns the cached template for source, compiling on first sight.
// Concurrent first renders may compile the same body twice; the duplicate
// work is harmless.
func (e *Engine) compiled(source string) (*template.Template, error) {
	key := contentHash(source)

	e.mu.RLock()
	tmpl, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[key]; ok {
		return tmpl, nil
	}

	isBlock := func(name string) bool {
		_, ok := e.blocks[name]
		return ok
	}
	tmpl, err := template.New(key).
		Funcs(e.blocks).
		Option("missingkey=error").
		Parse(transform(source, isBlock))
	if err != nil {
		return nil, fmt.Errorf("template: compile: %w", err)
	}

	e.compiles.Add(1)
	e.cache[key] = tmpl
	return tmpl, nil
}

// contentHash is a rolling polynomial hash of the template body, base-36.
// Collisions are an accepted low-probability risk, not defended
// cryptographically.
func contentHash(source string) string {
	var h int32
	for _, r := range source {
		h = h<<5 - h + int32(r)
	}
	return strconv.FormatInt(int64(h), 36)
}

// boundedWriter enforces the output cap and the context deadline on every
// write, so a runaway template aborts instead of hanging the interaction.
type boundedWriter struct {
	ctx context.Context
	buf bytes.Buffer
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	if w.buf.Len()+len(p) > maxOutputBytes {
		return 0, ErrOutputTooLarge
	}
	return w.buf.Write(p)
}
