package wllama

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/hybridgroup/yzma/pkg/mtmd"
)

// LoadModel loads the text model from a gguf file. Any previously loaded
// model, together with its multimodal context, is released first.
func (e *Engine) LoadModel(ctx context.Context, modelFile string) error {
	if libraryLocation == "" {
		return fmt.Errorf("load-model: the Init() function has not been called")
	}

	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()

	if e.loaded {
		e.releaseContexts()
		llama.ModelFree(e.model)
		e.loaded = false
	}

	mparams := llama.ModelDefaultParams()

	mdl, err := llama.ModelLoadFromFile(modelFile, mparams)
	if err != nil {
		return fmt.Errorf("load-model: unable to load %q: %w", modelFile, err)
	}

	e.cfg = adjustConfig(e.cfg, mdl)
	e.model = mdl
	e.vocab = llama.ModelGetVocab(mdl)
	e.ctxParams = modelCtxParams(e.cfg)

	if err := e.allocContext(); err != nil {
		llama.ModelFree(mdl)
		return fmt.Errorf("load-model: %w", err)
	}

	e.loaded = true

	e.log(ctx, "load-model", "status", "loaded", "file", filepath.Base(modelFile), "contextWindow", e.cfg.ContextWindow)

	return nil
}

// Unload releases the multimodal context, the llama context, and the model.
// Safe to call when nothing is loaded.
func (e *Engine) Unload(ctx context.Context) error {
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()

	if !e.loaded {
		return nil
	}

	e.releaseContexts()
	llama.ModelFree(e.model)
	llama.BackendFree()
	e.loaded = false

	e.log(ctx, "unload", "status", "unloaded")

	return nil
}

func (e *Engine) allocContext() error {
	lctx, err := llama.InitFromModel(e.model, e.ctxParams)
	if err != nil {
		return fmt.Errorf("alloc-context: unable to init from model: %w", err)
	}

	e.lctx = lctx

	return nil
}

func (e *Engine) releaseContexts() {
	if e.mm.initialized {
		mtmd.Free(e.mm.ctx)
		e.mm = mtmdState{}
	}

	if e.lctx != 0 {
		llama.Synchronize(e.lctx)
		llama.Free(e.lctx)
		e.lctx = 0
	}
}
