package model

import (
	"fmt"
	"strings"

	"github.com/hybridgroup/yzma/pkg/llama"
)

// FinishReason reports why the decode loop reached a terminal state.
type FinishReason string

// Set of terminal states for a completed decode loop.
const (
	FinishEOS    FinishReason = "eos"
	FinishBudget FinishReason = "budget"
)

// Result carries the outcome of a completed decode loop.
type Result struct {
	Text      string
	Finish    FinishReason
	Generated int
	LastPos   llama.Pos
}

// Decoder abstracts one step of autoregressive decoding so the loop can be
// driven against the native engine or a test double.
type Decoder interface {

	// Sample draws the next token id from the current model output.
	Sample() llama.Token

	// Accept records the token in the sampling history.
	Accept(llama.Token)

	// IsEOG reports whether the token ends generation.
	IsEOG(llama.Token) bool

	// Piece converts the token id to its textual fragment.
	Piece(llama.Token) string

	// Feed evaluates the token back through the model at pos.
	Feed(llama.Token, llama.Pos) error
}

// Generate drives the decode loop from a prefilled position until the end
// token, the iteration budget, or a decode failure. Reaching the budget is a
// defined truncation, not an error. On a decode failure the partial text is
// discarded and only the error is reported.
func Generate(dec Decoder, startPos llama.Pos, budget int) (Result, error) {
	var output strings.Builder

	nPast := startPos
	var generated int

	for range budget {
		token := dec.Sample()

		if dec.IsEOG(token) {
			res := Result{
				Text:      output.String(),
				Finish:    FinishEOS,
				Generated: generated,
				LastPos:   nPast,
			}
			return res, nil
		}

		output.WriteString(dec.Piece(token))
		dec.Accept(token)

		if err := dec.Feed(token, nPast); err != nil {
			return Result{}, fmt.Errorf("generate: feed token at position %d: %s: %w", nPast, err, ErrDecode)
		}

		nPast++
		generated++
	}

	res := Result{
		Text:      output.String(),
		Finish:    FinishBudget,
		Generated: generated,
		LastPos:   nPast,
	}

	return res, nil
}

// NativeDecoder drives decoding through the llama context. A fresh sampling
// chain is built per request and Free must be called when the request
// completes.
type NativeDecoder struct {
	lctx    llama.Context
	vocab   llama.Vocab
	sampler llama.Sampler
	buf     []byte
}

// NewNativeDecoder creates the per-request decoder. Params must already be
// adjusted.
func NewNativeDecoder(lctx llama.Context, vocab llama.Vocab, params Params) *NativeDecoder {
	const bufferSize = 32 * 1024

	nd := NativeDecoder{
		lctx:    lctx,
		vocab:   vocab,
		sampler: newSampler(params),
		buf:     make([]byte, bufferSize),
	}

	return &nd
}

// Free releases the sampling chain.
func (nd *NativeDecoder) Free() {
	llama.SamplerFree(nd.sampler)
}

// Sample draws the next token from the model output.
func (nd *NativeDecoder) Sample() llama.Token {
	return llama.SamplerSample(nd.sampler, nd.lctx, -1)
}

// Accept records the token in the chain's history.
func (nd *NativeDecoder) Accept(token llama.Token) {
	llama.SamplerAccept(nd.sampler, token)
}

// IsEOG reports whether the token ends generation.
func (nd *NativeDecoder) IsEOG(token llama.Token) bool {
	return llama.VocabIsEOG(nd.vocab, token)
}

// Piece converts the token to its textual fragment.
func (nd *NativeDecoder) Piece(token llama.Token) string {
	l := llama.TokenToPiece(nd.vocab, token, nd.buf, 0, false)
	return string(nd.buf[:l])
}

// Feed evaluates the token back through the model.
func (nd *NativeDecoder) Feed(token llama.Token, pos llama.Pos) error {
	batch := llama.BatchGetOne([]llama.Token{token})

	ret, err := llama.Decode(nd.lctx, batch)
	if err != nil || ret != 0 {
		return fmt.Errorf("decode returned %d: %v", ret, err)
	}

	return nil
}
