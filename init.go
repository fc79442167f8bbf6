package wllama

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/hybridgroup/yzma/pkg/llama"
	"github.com/hybridgroup/yzma/pkg/mtmd"
)

// LogLevel represents the logging level.
type LogLevel int

// Set of logging levels supported by llamacpp.
const (
	LogSilent LogLevel = iota + 1
	LogNormal
)

var (
	libraryLocation string
	initOnce        sync.Once
	initErr         error
)

// Init loads the llamacpp and mtmd shared libraries and initializes the
// backend. Safe to call multiple times; only the first call does the work.
// When libPath is empty the WLLAMA_LIB_PATH environment variable is used.
func Init(libPath string, logLevel LogLevel) error {
	initOnce.Do(func() {
		if libPath == "" {
			libPath = os.Getenv("WLLAMA_LIB_PATH")
		}

		// Windows uses PATH for DLL discovery, Unix uses LD_LIBRARY_PATH.
		switch runtime.GOOS {
		case "windows":
			if v := os.Getenv("PATH"); !strings.Contains(v, libPath) {
				os.Setenv("PATH", fmt.Sprintf("%s;%s", libPath, v))
			}
		default:
			if v := os.Getenv("LD_LIBRARY_PATH"); !strings.Contains(v, libPath) {
				os.Setenv("LD_LIBRARY_PATH", fmt.Sprintf("%s:%s", libPath, v))
			}
		}

		if err := llama.Load(libPath); err != nil {
			initErr = fmt.Errorf("init: unable to load library: %w", err)
			return
		}

		if err := mtmd.Load(libPath); err != nil {
			initErr = fmt.Errorf("init: unable to load mtmd library: %w", err)
			return
		}

		libraryLocation = libPath

		llama.Init()

		switch logLevel {
		case LogNormal:
			llama.LogSet(llama.LogNormal)
			mtmd.LogSet(llama.LogNormal)
		default:
			llama.LogSet(llama.LogSilent())
			mtmd.LogSet(llama.LogSilent())
		}
	})

	return initErr
}
