package model_test

import (
	"strings"
	"testing"

	"github.com/lxe/wllama/model"
)

func Test_ComposePrompt(t *testing.T) {
	t.Run("marker appended when absent", func(t *testing.T) {
		got := model.ComposePrompt("describe this image", model.DefaultMarker)

		want := "describe this image " + model.DefaultMarker
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("prompt with marker unchanged", func(t *testing.T) {
		prompt := "look at " + model.DefaultMarker + " and describe it"

		if got := model.ComposePrompt(prompt, model.DefaultMarker); got != prompt {
			t.Fatalf("expected prompt unchanged, got %q", got)
		}
	})

	t.Run("custom marker honored", func(t *testing.T) {
		got := model.ComposePrompt("what is here", "[IMG]")

		if !strings.Contains(got, "[IMG]") {
			t.Fatalf("expected custom marker in %q", got)
		}

		if strings.Contains(got, model.DefaultMarker) {
			t.Fatalf("expected no default marker in %q", got)
		}
	})

	t.Run("composition is idempotent", func(t *testing.T) {
		once := model.ComposePrompt("hello", model.DefaultMarker)
		twice := model.ComposePrompt(once, model.DefaultMarker)

		if once != twice {
			t.Fatalf("expected %q, got %q", once, twice)
		}

		if strings.Count(twice, model.DefaultMarker) != 1 {
			t.Fatalf("expected exactly one marker in %q", twice)
		}
	})
}
