package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/lxe/wllama/foundation/logger"
)

func Test_Logger(t *testing.T) {
	t.Run("json output carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, "INFO", "json")

		log.Info(context.Background(), "process-image", "bitmap", "img_aabb", "generated", 12)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("expected JSON output, got %q: %s", buf.String(), err)
		}

		if entry["message"] != "process-image" {
			t.Fatalf("expected message field, got %v", entry["message"])
		}

		if entry["bitmap"] != "img_aabb" {
			t.Fatalf("expected bitmap field, got %v", entry["bitmap"])
		}

		if entry["generated"] != float64(12) {
			t.Fatalf("expected generated field, got %v", entry["generated"])
		}
	})

	t.Run("level gating", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, "ERROR", "json")

		log.Info(context.Background(), "hidden")
		if buf.Len() != 0 {
			t.Fatalf("expected info suppressed at error level, got %q", buf.String())
		}

		log.Error(context.Background(), "visible")
		if buf.Len() == 0 {
			t.Fatal("expected error output at error level")
		}
	})

	t.Run("odd key value pairs ignored", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, "INFO", "json")

		log.Info(context.Background(), "msg", "key")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("expected JSON output: %s", err)
		}

		if _, exists := entry["key"]; exists {
			t.Fatal("expected dangling key dropped")
		}
	})
}
