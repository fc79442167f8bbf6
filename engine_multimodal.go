package wllama

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/hybridgroup/yzma/pkg/mtmd"
	"github.com/lxe/wllama/model"
)

// MultimodalConfig carries the parameters for binding a vision projector to
// the loaded model.
//
// NThreads is the number of threads for projector evaluation. When set to 0
// or below, the default value is 1.
//
// Marker is the splice point for image embeddings inside prompts. When
// empty, the default marker is used.
type MultimodalConfig struct {
	ProjFile string
	UseGPU   bool
	NThreads int
	Marker   string
}

func adjustMultimodalConfig(cfg MultimodalConfig) MultimodalConfig {
	if cfg.NThreads <= 0 {
		cfg.NThreads = 1
	}

	if cfg.Marker == "" {
		cfg.Marker = model.DefaultMarker
	}

	return cfg
}

// InitMultimodal binds the vision projector to the loaded model. Any prior
// multimodal context is fully released before the new one is installed, so
// repeated calls reconfigure the engine without leaking native state. The
// llama context is rebuilt as well so the requested thread count takes
// effect.
func (e *Engine) InitMultimodal(ctx context.Context, cfg MultimodalConfig) error {
	if err := e.acquire(ctx); err != nil {
		return err
	}
	defer e.release()

	if !e.loaded {
		return fmt.Errorf("init-multimodal: call LoadModel first: %w", model.ErrModelNotLoaded)
	}

	cfg = adjustMultimodalConfig(cfg)

	if e.mm.initialized {
		mtmd.Free(e.mm.ctx)
		e.mm = mtmdState{}
	}

	llama.Synchronize(e.lctx)
	llama.Free(e.lctx)
	e.lctx = 0

	e.ctxParams.NThreads = int32(cfg.NThreads)
	e.ctxParams.NThreadsBatch = int32(cfg.NThreads)

	if err := e.allocContext(); err != nil {
		return fmt.Errorf("init-multimodal: %s: %w", err, model.ErrInitialization)
	}

	mctxParams := mtmd.ContextParamsDefault()
	mctxParams.UseGPU = cfg.UseGPU
	mctxParams.FlashAttentionType = llama.FlashAttentionTypeAuto

	mtmdCtx, err := mtmd.InitFromFile(cfg.ProjFile, e.model, mctxParams)
	if err != nil {
		return fmt.Errorf("init-multimodal: unable to init projection %q: %s: %w", cfg.ProjFile, err, model.ErrInitialization)
	}

	e.mm = mtmdState{
		ctx:         mtmdCtx,
		marker:      cfg.Marker,
		useGPU:      cfg.UseGPU,
		nThreads:    cfg.NThreads,
		initialized: true,
	}

	e.log(ctx, "init-multimodal", "proj", filepath.Base(cfg.ProjFile), "useGPU", cfg.UseGPU, "nThreads", cfg.NThreads, "marker", cfg.Marker)

	return nil
}
