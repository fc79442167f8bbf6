// Package wllama provides the execution core that fuses a vision projector
// with a causal language model to generate text conditioned on an image and
// a prompt, using llamacpp via yzma.
package wllama

import (
	"context"
	"fmt"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/hybridgroup/yzma/pkg/mtmd"
	"github.com/lxe/wllama/cache"
)

// Logger provides the signature for a function the engine uses for logging.
type Logger func(ctx context.Context, msg string, args ...any)

// Engine is the multimodal execution core. One request runs to completion
// before the next is admitted; the slot channel serializes all access to the
// model, its attention memory, and the multimodal context.
type Engine struct {
	cfg     Config
	log     Logger
	sem     chan struct{}
	results *cache.Results

	model     llama.Model
	vocab     llama.Vocab
	ctxParams llama.ContextParams
	lctx      llama.Context
	loaded    bool

	mm mtmdState
}

// mtmdState holds the live multimodal context and its configuration. Owned
// exclusively by the engine and replaced as a whole on reinitialization.
type mtmdState struct {
	ctx         mtmd.Context
	marker      string
	useGPU      bool
	nThreads    int
	initialized bool
}

// New constructs an engine ready to load a model.
func New(cfg Config) (*Engine, error) {
	results, err := cache.NewResults(cfg.Results)
	if err != nil {
		return nil, fmt.Errorf("new: unable to construct results cache: %w", err)
	}

	log := cfg.Log
	if log == nil {
		log = func(ctx context.Context, msg string, args ...any) {}
	}

	e := Engine{
		cfg:     cfg,
		log:     log,
		sem:     make(chan struct{}, 1),
		results: results,
	}

	return &e, nil
}

// Marker returns the active image marker, or the empty string when no
// multimodal context is initialized.
func (e *Engine) Marker() string {
	if e.mm.initialized {
		return e.mm.marker
	}

	return ""
}

func (e *Engine) acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e.sem <- struct{}{}:
		return nil
	}
}

func (e *Engine) release() {
	<-e.sem
}
