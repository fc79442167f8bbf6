package model

import "github.com/hybridgroup/yzma/pkg/llama"

const (
	defTemp      = 0.7
	defTopK      = 40
	defTopP      = 0.9
	defMaxTokens = 1024
)

// Params represents the sampling options for a single request. Zero values
// are replaced with the defaults by AdjustParams.
//
// Temp controls the randomness of sampling. Higher values flatten the
// distribution, lower values sharpen it. When set to 0, the default
// value is 0.7.
//
// TopK restricts sampling to the K most likely tokens. When set to 0, the
// default value is 40.
//
// TopP restricts sampling to the smallest set of tokens whose cumulative
// probability exceeds P. When set to 0, the default value is 0.9.
//
// MaxTokens bounds the decode loop. Reaching the bound is a defined
// truncation, not an error. When set to 0, the default value is 1024.
type Params struct {
	Temp      float32
	TopK      int32
	TopP      float32
	MaxTokens int
}

// AdjustParams applies the defaults for any parameter left at its zero value.
func AdjustParams(p Params) Params {
	if p.Temp <= 0 {
		p.Temp = defTemp
	}

	if p.TopK <= 0 {
		p.TopK = defTopK
	}

	if p.TopP <= 0 {
		p.TopP = defTopP
	}

	if p.MaxTokens <= 0 {
		p.MaxTokens = defMaxTokens
	}

	return p
}

// newSampler builds a fresh sampling chain for one request. Sampling state,
// including the recent-token history the chain keeps, never carries over
// between requests. The history fed through SamplerAccept is bounded by the
// chain defaults; its window size is not configurable through this API.
func newSampler(p Params) llama.Sampler {
	sampler := llama.SamplerChainInit(llama.SamplerChainDefaultParams())

	llama.SamplerChainAdd(sampler, llama.SamplerInitTopK(p.TopK))
	llama.SamplerChainAdd(sampler, llama.SamplerInitTopP(p.TopP, 0))
	llama.SamplerChainAdd(sampler, llama.SamplerInitTempExt(p.Temp, 0, 1.0))
	llama.SamplerChainAdd(sampler, llama.SamplerInitDist(llama.DefaultSeed))

	return sampler
}
