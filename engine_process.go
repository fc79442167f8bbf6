package wllama

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/lxe/wllama/cache"
	"github.com/lxe/wllama/model"
	"github.com/lxe/wllama/observ/metrics"
)

// ProcessRequest carries the parameters for one image and prompt generation
// cycle. ImageData holds raw RGB pixels for a Width by Height image. When
// UseCache is false the attention memory is cleared before evaluation; when
// true the memory is kept and the results cache is consulted.
type ProcessRequest struct {
	ImageData []byte
	Width     int
	Height    int
	Prompt    string
	UseCache  bool
	Params    model.Params
}

// ProcessImage runs the full pipeline for one request: image validation,
// prompt composition, tokenization, prefill, and the decode loop. It returns
// the generated text.
func (e *Engine) ProcessImage(ctx context.Context, req ProcessRequest) (result string, err error) {
	if err := e.acquire(ctx); err != nil {
		return "", err
	}
	defer e.release()

	defer func() {
		if rec := recover(); rec != nil {
			result = ""
			err = fmt.Errorf("process-image: %v: %w", rec, model.ErrDecode)
		}
	}()

	if !e.loaded || e.lctx == 0 {
		return "", fmt.Errorf("process-image: call LoadModel first: %w", model.ErrModelNotLoaded)
	}

	if !e.mm.initialized {
		return "", fmt.Errorf("process-image: call InitMultimodal first: %w", model.ErrNotInitialized)
	}

	id := uuid.New().String()

	bm, err := model.AcceptImage(req.ImageData, req.Width, req.Height)
	if err != nil {
		return "", fmt.Errorf("process-image: %w", err)
	}

	prompt := model.ComposePrompt(req.Prompt, e.mm.marker)

	key := cache.Key(bm.ID, prompt)
	if req.UseCache {
		if text, found := e.results.Lookup(key); found {
			metrics.CacheHitsTotal.Inc()
			e.log(ctx, "process-image", "id", id, "status", "cache-hit", "bitmap", bm.ID)
			return text, nil
		}
	}

	chunks, err := model.BuildChunks(e.mm.ctx, prompt, e.mm.marker, bm)
	if err != nil {
		return "", fmt.Errorf("process-image: %w", err)
	}
	defer chunks.Free()

	if !req.UseCache {
		mem, err := llama.GetMemory(e.lctx)
		if err != nil {
			return "", fmt.Errorf("process-image: unable to get memory: %s: %w", err, model.ErrEvaluation)
		}
		llama.MemoryClear(mem, true)
	}

	start := time.Now()

	nPast, err := model.Prefill(e.mm.ctx, e.lctx, chunks, 0, int32(e.cfg.NBatch))
	if err != nil {
		return "", fmt.Errorf("process-image: %w", err)
	}

	metrics.ObservePrefill(time.Since(start))

	params := model.AdjustParams(req.Params)

	dec := model.NewNativeDecoder(e.lctx, e.vocab, params)
	defer dec.Free()

	start = time.Now()

	res, err := model.Generate(dec, nPast, params.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("process-image: %w", err)
	}

	metrics.ObserveDecode(time.Since(start))
	metrics.GeneratedTokensTotal.Add(float64(res.Generated))

	e.results.Store(key, res.Text)

	e.log(ctx, "process-image", "id", id, "bitmap", bm.ID, "promptTokens", chunks.NTokens(), "generated", res.Generated, "finish", res.Finish)

	return res.Text, nil
}
