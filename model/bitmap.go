package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Bitmap represents validated raw RGB pixel data ready for tokenization.
// Data holds exactly Width*Height*3 bytes. ID is a content hash used as a
// best-effort identity for caching and logging; collisions are tolerated.
type Bitmap struct {
	Width  int
	Height int
	Data   []byte
	ID     string
}

// AcceptImage validates raw pixel data against the declared dimensions and
// produces a Bitmap owning its own copy of the pixels. The buffer must carry
// at least Width*Height*3 bytes. Surplus bytes are ignored rather than
// rejected, preserving tolerance for callers that pad their transfers.
func AcceptImage(raw []byte, width int, height int) (Bitmap, error) {
	if width <= 0 || height <= 0 {
		return Bitmap{}, fmt.Errorf("accept-image: dimensions %dx%d: %w", width, height, ErrInvalidInput)
	}

	size := width * height * 3
	if len(raw) < size {
		return Bitmap{}, fmt.Errorf("accept-image: have %d bytes, need %d for %dx%d: %w", len(raw), size, width, height, ErrInvalidInput)
	}

	data := make([]byte, size)
	copy(data, raw[:size])

	sum := sha256.Sum256(data)

	bm := Bitmap{
		Width:  width,
		Height: height,
		Data:   data,
		ID:     fmt.Sprintf("img_%s", hex.EncodeToString(sum[:8])),
	}

	return bm, nil
}
