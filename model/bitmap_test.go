package model_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lxe/wllama/model"
)

func Test_AcceptImage(t *testing.T) {
	pixels := func(n int) []byte {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i % 251)
		}
		return data
	}

	t.Run("exact buffer", func(t *testing.T) {
		raw := pixels(4 * 2 * 3)

		bm, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if !bytes.Equal(bm.Data, raw) {
			t.Fatal("expected data to match the input pixels")
		}

		if bm.Width != 4 || bm.Height != 2 {
			t.Fatalf("expected 4x2, got %dx%d", bm.Width, bm.Height)
		}
	})

	t.Run("surplus bytes tolerated", func(t *testing.T) {
		raw := pixels(4*2*3 + 100)

		bm, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if len(bm.Data) != 4*2*3 {
			t.Fatalf("expected data truncated to %d bytes, got %d", 4*2*3, len(bm.Data))
		}

		if !bytes.Equal(bm.Data, raw[:4*2*3]) {
			t.Fatal("expected data to match the leading pixels")
		}
	})

	t.Run("undersized buffer rejected", func(t *testing.T) {
		raw := pixels(4*2*3 - 1)

		if _, err := model.AcceptImage(raw, 4, 2); !errors.Is(err, model.ErrInvalidInput) {
			t.Fatalf("expected invalid input error, got: %v", err)
		}
	})

	t.Run("bad dimensions rejected", func(t *testing.T) {
		raw := pixels(64)

		if _, err := model.AcceptImage(raw, 0, 2); !errors.Is(err, model.ErrInvalidInput) {
			t.Fatal("expected invalid input error for zero width")
		}

		if _, err := model.AcceptImage(raw, 4, -1); !errors.Is(err, model.ErrInvalidInput) {
			t.Fatal("expected invalid input error for negative height")
		}
	})

	t.Run("id is content derived", func(t *testing.T) {
		raw := pixels(4 * 2 * 3)

		bm1, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		bm2, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if bm1.ID != bm2.ID {
			t.Fatalf("expected identical pixels to share an id: %q vs %q", bm1.ID, bm2.ID)
		}

		raw[0]++
		bm3, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if bm3.ID == bm1.ID {
			t.Fatal("expected different pixels to produce a different id")
		}
	})

	t.Run("ignored surplus does not change id", func(t *testing.T) {
		raw := pixels(4 * 2 * 3)

		bm1, err := model.AcceptImage(raw, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		padded := append(append([]byte{}, raw...), 0xFF, 0xFF, 0xFF)
		bm2, err := model.AcceptImage(padded, 4, 2)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if bm1.ID != bm2.ID {
			t.Fatal("expected surplus bytes to be excluded from the id")
		}
	})
}
