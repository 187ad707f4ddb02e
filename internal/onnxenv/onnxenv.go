// Package onnxenv refcounts the process-wide ONNX Runtime environment
// so the classifier and the embedder can share it without either
// tearing it down under the other.
package onnxenv

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	mu   sync.Mutex
	refs int
)

// Acquire initializes the ONNX Runtime environment on first use and
// bumps the refcount.
func Acquire() error {
	mu.Lock()
	defer mu.Unlock()

	if refs == 0 && !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	}
	refs++
	return nil
}

// Release drops one reference and destroys the environment when the
// last holder lets go.
func Release() {
	mu.Lock()
	defer mu.Unlock()

	if refs == 0 {
		return
	}
	refs--
	if refs == 0 {
		_ = ort.DestroyEnvironment()
	}
}
