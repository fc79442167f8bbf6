package model

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/hybridgroup/yzma/pkg/mtmd"
)

// ChunkSequence is the ordered set of text-token and image-embedding chunks
// produced by multimodal tokenization. It owns the native chunk list and the
// native bitmap until Free is called, which must happen exactly once after
// the sequence has been evaluated.
type ChunkSequence struct {
	chunks  mtmd.InputChunks
	bitmap  mtmd.Bitmap
	nTokens int
}

// NTokens returns the total number of token positions across all chunks.
func (cs ChunkSequence) NTokens() int {
	return cs.nTokens
}

// Free releases the native chunk list and bitmap.
func (cs ChunkSequence) Free() {
	mtmd.InputChunksFree(cs.chunks)
	mtmd.BitmapFree(cs.bitmap)
}

// BuildChunks tokenizes the composed prompt together with the bitmap into an
// ordered chunk sequence. The image-embedding chunk is placed where the
// marker occurs in the text.
func BuildChunks(mtmdCtx mtmd.Context, text string, marker string, bm Bitmap) (ChunkSequence, error) {
	if !strings.Contains(text, marker) {
		return ChunkSequence{}, fmt.Errorf("build-chunks: marker %q absent from composed prompt: %w", marker, ErrTokenization)
	}

	if len(bm.Data) != bm.Width*bm.Height*3 {
		return ChunkSequence{}, fmt.Errorf("build-chunks: malformed bitmap %dx%d with %d bytes: %w", bm.Width, bm.Height, len(bm.Data), ErrTokenization)
	}

	// The native side copies the pixels, but the uintptr is invisible to the
	// GC so the slice must stay alive across the call.
	bitmap := mtmd.BitmapInit(uint32(bm.Width), uint32(bm.Height), uintptr(unsafe.Pointer(&bm.Data[0])))
	runtime.KeepAlive(bm.Data)

	if bitmap == 0 {
		return ChunkSequence{}, fmt.Errorf("build-chunks: unable to create native bitmap: %w", ErrTokenization)
	}

	chunks := mtmd.InputChunksInit()
	input := mtmd.NewInputText(spliceNativeMarker(text, marker), true, true)

	if ret := mtmd.Tokenize(mtmdCtx, chunks, input, []mtmd.Bitmap{bitmap}); ret != 0 {
		mtmd.InputChunksFree(chunks)
		mtmd.BitmapFree(bitmap)
		return ChunkSequence{}, fmt.Errorf("build-chunks: tokenize returned %d: %w", ret, ErrTokenization)
	}

	nTokens := countTokens(chunks)
	if nTokens == 0 {
		mtmd.InputChunksFree(chunks)
		mtmd.BitmapFree(bitmap)
		return ChunkSequence{}, fmt.Errorf("build-chunks: empty chunk sequence: %w", ErrTokenization)
	}

	cs := ChunkSequence{
		chunks:  chunks,
		bitmap:  bitmap,
		nTokens: nTokens,
	}

	return cs, nil
}

func countTokens(chunks mtmd.InputChunks) int {
	var total int

	nChunks := mtmd.InputChunksSize(chunks)
	for i := range nChunks {
		chunk := mtmd.InputChunksGet(chunks, i)
		total += int(mtmd.InputChunkGetNTokens(chunk))
	}

	return total
}

// Prefill evaluates the chunk sequence through the language model, advancing
// the attention state for sequence 0. The returned position is where decoding
// must continue from.
func Prefill(mtmdCtx mtmd.Context, lctx llama.Context, cs ChunkSequence, startPos llama.Pos, nBatch int32) (llama.Pos, error) {
	newPos := startPos
	mtmd.HelperEvalChunks(mtmdCtx, lctx, cs.chunks, startPos, 0, nBatch, true, &newPos)

	// The helper reports progress through the position pointer. A position
	// that did not advance across a non-empty sequence means evaluation
	// failed partway and the attention state can no longer be trusted.
	if cs.nTokens > 0 && newPos <= startPos {
		return startPos, fmt.Errorf("prefill: position did not advance past %d: %w", startPos, ErrEvaluation)
	}

	return newPos, nil
}
