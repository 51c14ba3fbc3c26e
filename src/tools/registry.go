// Package tools adapts the fitness core, the vision model, the object store
// and search into named tools with JSON arguments and JSON-serializable
// results.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/llm"
)

var ErrUnknownTool = errors.New("unknown tool")

type Tool interface {
	Name() string
	Description() string
	Parameters() *jsonschema.Schema
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// Spec is the description of a tool handed to callers and models.
type Spec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

type funcTool[A any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	fn          func(context.Context, A) (any, error)
}

// New builds a Tool whose parameter schema is reflected from A.
func New[A any](name, description string, fn func(context.Context, A) (any, error)) Tool {
	return &funcTool[A]{
		name:        name,
		description: description,
		schema:      llm.GenerateSchema[A](),
		fn:          fn,
	}
}

func (t *funcTool[A]) Name() string                   { return t.name }
func (t *funcTool[A]) Description() string            { return t.description }
func (t *funcTool[A]) Parameters() *jsonschema.Schema { return t.schema }

func (t *funcTool[A]) Call(ctx context.Context, raw json.RawMessage) (any, error) {
	var args A
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fitness.InvalidInput(t.name, "malformed arguments: %v", err)
		}
	}
	return t.fn(ctx, args)
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
	log   zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{tools: make(map[string]Tool), log: log}
}

func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.tools[t.Name()]; dup {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names lists tools in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, Spec{Name: name, Description: t.Description(), Parameters: t.Parameters()})
	}
	return specs
}

// Invoke runs the named tool with raw JSON arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	start := time.Now()
	out, err := t.Call(ctx, args)
	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	r.log.WithLevel(level).
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Err(err).
		Str("kind", fitness.KindOf(err)).
		Msg("tool invoked")
	return out, err
}
