package model_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/lxe/wllama/model"
)

// fakeDecoder scripts the decode loop without the native engine. Each call
// to Sample returns the next scripted token.
type fakeDecoder struct {
	eogAt    int
	failAt   int
	step     int
	accepted []llama.Token
	fed      []llama.Pos
}

func (fd *fakeDecoder) Sample() llama.Token {
	token := llama.Token(fd.step)
	fd.step++
	return token
}

func (fd *fakeDecoder) Accept(token llama.Token) {
	fd.accepted = append(fd.accepted, token)
}

func (fd *fakeDecoder) IsEOG(token llama.Token) bool {
	return fd.eogAt > 0 && int(token) == fd.eogAt-1
}

func (fd *fakeDecoder) Piece(token llama.Token) string {
	return fmt.Sprintf("<%d>", token)
}

func (fd *fakeDecoder) Feed(token llama.Token, pos llama.Pos) error {
	if fd.failAt > 0 && int(token) == fd.failAt-1 {
		return errors.New("boom")
	}

	fd.fed = append(fd.fed, pos)
	return nil
}

func Test_Generate(t *testing.T) {
	t.Run("budget exhaustion truncates", func(t *testing.T) {
		fd := fakeDecoder{}

		res, err := model.Generate(&fd, 10, 5)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if res.Finish != model.FinishBudget {
			t.Fatalf("expected budget finish, got %q", res.Finish)
		}

		if res.Generated != 5 {
			t.Fatalf("expected 5 tokens generated, got %d", res.Generated)
		}

		want := "<0><1><2><3><4>"
		if res.Text != want {
			t.Fatalf("expected %q, got %q", want, res.Text)
		}

		if res.LastPos != 15 {
			t.Fatalf("expected position 15, got %d", res.LastPos)
		}
	})

	t.Run("eos on first draw yields empty success", func(t *testing.T) {
		fd := fakeDecoder{eogAt: 1}

		res, err := model.Generate(&fd, 0, 100)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if res.Finish != model.FinishEOS {
			t.Fatalf("expected eos finish, got %q", res.Finish)
		}

		if res.Text != "" || res.Generated != 0 {
			t.Fatalf("expected empty result, got %q after %d tokens", res.Text, res.Generated)
		}
	})

	t.Run("eos token never emitted", func(t *testing.T) {
		fd := fakeDecoder{eogAt: 4}

		res, err := model.Generate(&fd, 0, 100)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if strings.Contains(res.Text, "<3>") {
			t.Fatalf("expected end token excluded from %q", res.Text)
		}

		if res.Generated != 3 {
			t.Fatalf("expected 3 tokens generated, got %d", res.Generated)
		}
	})

	t.Run("feed failure discards partial text", func(t *testing.T) {
		fd := fakeDecoder{failAt: 3}

		res, err := model.Generate(&fd, 0, 100)
		if !errors.Is(err, model.ErrDecode) {
			t.Fatalf("expected decode error, got: %v", err)
		}

		if res.Text != "" {
			t.Fatalf("expected partial text discarded, got %q", res.Text)
		}
	})

	t.Run("positions advance one per token", func(t *testing.T) {
		fd := fakeDecoder{}

		if _, err := model.Generate(&fd, 7, 3); err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		want := []llama.Pos{7, 8, 9}
		for i, pos := range fd.fed {
			if pos != want[i] {
				t.Fatalf("expected feed positions %v, got %v", want, fd.fed)
			}
		}
	})

	t.Run("every emitted token accepted", func(t *testing.T) {
		fd := fakeDecoder{}

		res, err := model.Generate(&fd, 0, 4)
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		if len(fd.accepted) != res.Generated {
			t.Fatalf("expected %d accepted tokens, got %d", res.Generated, len(fd.accepted))
		}
	})
}

func Test_AdjustParams(t *testing.T) {
	t.Run("zero values take defaults", func(t *testing.T) {
		p := model.AdjustParams(model.Params{})

		if p.Temp != 0.7 || p.TopK != 40 || p.TopP != 0.9 || p.MaxTokens != 1024 {
			t.Fatalf("unexpected defaults: %+v", p)
		}
	})

	t.Run("configured values preserved", func(t *testing.T) {
		p := model.AdjustParams(model.Params{Temp: 0.2, TopK: 10, TopP: 0.5, MaxTokens: 16})

		if p.Temp != 0.2 || p.TopK != 10 || p.TopP != 0.5 || p.MaxTokens != 16 {
			t.Fatalf("expected values preserved: %+v", p)
		}
	})
}
