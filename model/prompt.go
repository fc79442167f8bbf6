package model

import (
	"strings"

	"github.com/hybridgroup/yzma/pkg/mtmd"
)

// DefaultMarker is the splice point used when a request does not configure
// its own image marker.
const DefaultMarker = "<__image__>"

// ComposePrompt guarantees the marker appears in the prompt so tokenization
// has a splice point for the image embeddings. A prompt already containing
// the marker is returned unchanged.
func ComposePrompt(prompt string, marker string) string {
	if strings.Contains(prompt, marker) {
		return prompt
	}

	return prompt + " " + marker
}

// spliceNativeMarker rewrites the configured marker to the one the native
// tokenizer recognizes. mtmd only splices image embeddings at its own
// sentinel, so a custom marker is translated just before tokenization.
func spliceNativeMarker(text string, marker string) string {
	native := mtmd.DefaultMarker()
	if marker == native {
		return text
	}

	return strings.ReplaceAll(text, marker, native)
}
