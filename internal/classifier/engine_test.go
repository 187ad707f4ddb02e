package classifier

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/campuspilot/campuspilot/internal/tokenize"
)

// stubForwarder returns canned logits and counts invocations, so cache
// behavior is observable without ONNX Runtime.
type stubForwarder struct {
	logits []float32
	err    error
	calls  int
}

func (s *stubForwarder) Forward(encs []tokenize.Encoding) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(encs))
	for i := range out {
		out[i] = s.logits
	}
	return out, nil
}

func (s *stubForwarder) Close() error { return nil }

var testVocab = strings.Join([]string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"what", "is", "my", "attendance", "fee", "status", "##s", "mark",
}, "\n")

const testModelConfig = `{
	"id2label": {
		"0": "attendance", "1": "marks", "2": "fees", "3": "course",
		"4": "assignment", "5": "college_info", "6": "user_info",
		"7": "notices", "8": "general"
	}
}`

func writeTestVocab(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(testVocab), 0644); err != nil {
		t.Fatalf("Failed to write vocab: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, fw forwarder) *Engine {
	t.Helper()

	tok, err := tokenize.LoadWordPiece(writeTestVocab(t), 16)
	if err != nil {
		t.Fatalf("Failed to load tokenizer: %v", err)
	}

	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(testModelConfig), 0644); err != nil {
		t.Fatalf("Failed to write model config: %v", err)
	}
	labels, err := LoadLabelSpace(configPath)
	if err != nil {
		t.Fatalf("Failed to load label space: %v", err)
	}

	cache, err := lru.New[string, cachedPrediction](8)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	return &Engine{
		tok:      tok,
		labels:   labels,
		fw:       fw,
		device:   "cpu",
		logger:   zap.NewNop(),
		cache:    cache,
		capacity: 8,
	}
}

func TestPredict(t *testing.T) {
	// Index 0 (attendance) dominates.
	fw := &stubForwarder{logits: []float32{5, 1, 1, 1, 1, 1, 1, 1, 1}}
	engine := newTestEngine(t, fw)

	res := engine.Predict("what is my attendance")
	if res.Err != "" {
		t.Fatalf("Unexpected error: %s", res.Err)
	}
	if res.Label != "attendance" {
		t.Errorf("Expected label attendance, got %q", res.Label)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("Expected confidence in (0,1], got %f", res.Confidence)
	}
	if res.InferenceTimeMs < 0 {
		t.Errorf("Expected non-negative inference time, got %f", res.InferenceTimeMs)
	}
}

func TestPredictDeterministic(t *testing.T) {
	fw := &stubForwarder{logits: []float32{0, 0, 3, 0, 0, 0, 0, 0, 0}}
	engine := newTestEngine(t, fw)

	first := engine.Predict("fee status")
	second := engine.Predict("fee status")
	if first.Label != second.Label || first.Confidence != second.Confidence {
		t.Errorf("Expected identical results for identical input, got %+v and %+v", first, second)
	}
}

func TestPredictError(t *testing.T) {
	fw := &stubForwarder{err: errors.New("session closed")}
	engine := newTestEngine(t, fw)

	res := engine.Predict("anything")
	if res.Err == "" {
		t.Fatal("Expected errored result")
	}
	if res.Label != "" || res.Confidence != 0 {
		t.Errorf("Expected empty label and zero confidence on error, got %+v", res)
	}
}

func TestPredictCached(t *testing.T) {
	fw := &stubForwarder{logits: []float32{0, 4, 0, 0, 0, 0, 0, 0, 0}}
	engine := newTestEngine(t, fw)

	miss := engine.PredictCached("my marks")
	if fw.calls != 1 {
		t.Fatalf("Expected one forward pass after miss, got %d", fw.calls)
	}

	hit := engine.PredictCached("my marks")
	if fw.calls != 1 {
		t.Errorf("Expected cache hit to skip inference, got %d forward passes", fw.calls)
	}
	if hit.Label != miss.Label || hit.Confidence != miss.Confidence {
		t.Errorf("Expected hit identical to miss, got %+v and %+v", hit, miss)
	}

	stats := engine.Status().CacheStats
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.Size != 1 {
		t.Errorf("Expected cache size 1, got %d", stats.Size)
	}
	if stats.Capacity != 8 {
		t.Errorf("Expected capacity 8, got %d", stats.Capacity)
	}
}

func TestPredictCachedSkipsErrors(t *testing.T) {
	fw := &stubForwarder{err: errors.New("transient failure")}
	engine := newTestEngine(t, fw)

	if res := engine.PredictCached("query"); res.Err == "" {
		t.Fatal("Expected errored result")
	}
	if fw.calls != 1 {
		t.Fatalf("Expected one forward pass, got %d", fw.calls)
	}

	// Failure recovers; the errored result must not have been cached.
	fw.err = nil
	fw.logits = []float32{0, 0, 0, 0, 0, 0, 0, 2, 0}
	res := engine.PredictCached("query")
	if res.Err != "" {
		t.Fatalf("Expected recovery after error, got %s", res.Err)
	}
	if res.Label != "notices" {
		t.Errorf("Expected label notices, got %q", res.Label)
	}
	if fw.calls != 2 {
		t.Errorf("Expected recomputation after errored miss, got %d forward passes", fw.calls)
	}
}

func TestPredictBatch(t *testing.T) {
	fw := &stubForwarder{logits: []float32{0, 0, 0, 0, 0, 0, 6, 0, 0}}
	engine := newTestEngine(t, fw)

	results := engine.PredictBatch([]string{"who am i", "my profile", "my email"})
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if fw.calls != 1 {
		t.Errorf("Expected a single forward pass for the batch, got %d", fw.calls)
	}
	for i, res := range results {
		if res.Err != "" {
			t.Errorf("Result %d errored: %s", i, res.Err)
		}
		if res.Label != "user_info" {
			t.Errorf("Result %d: expected user_info, got %q", i, res.Label)
		}
	}
}

func TestPredictBatchError(t *testing.T) {
	fw := &stubForwarder{err: errors.New("out of memory")}
	engine := newTestEngine(t, fw)

	results := engine.PredictBatch([]string{"a", "b"})
	if len(results) != 2 {
		t.Fatalf("Expected one result per input, got %d", len(results))
	}
	for i, res := range results {
		if res.Err == "" {
			t.Errorf("Result %d: expected errored result", i)
		}
	}
}

func TestPredictBatchEmpty(t *testing.T) {
	fw := &stubForwarder{}
	engine := newTestEngine(t, fw)

	if results := engine.PredictBatch(nil); results != nil {
		t.Errorf("Expected nil for empty batch, got %v", results)
	}
	if fw.calls != 0 {
		t.Errorf("Expected no forward pass for empty batch, got %d", fw.calls)
	}
}

func TestStatus(t *testing.T) {
	engine := newTestEngine(t, &stubForwarder{logits: make([]float32, 9)})

	status := engine.Status()
	if !status.Loaded {
		t.Error("Expected loaded status")
	}
	if status.Device != "cpu" {
		t.Errorf("Expected device cpu, got %q", status.Device)
	}
	if len(status.Labels) != 9 {
		t.Errorf("Expected 9 labels, got %d", len(status.Labels))
	}
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float32{1, 2, 3})

	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("Expected probabilities to sum to 1, got %f", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("Expected monotonic probabilities, got %v", probs)
	}

	// Large logits must not overflow.
	big := softmax([]float32{1000, 999})
	if math.IsNaN(big[0]) || math.IsInf(big[0], 0) {
		t.Errorf("Expected stable softmax for large logits, got %v", big)
	}
}
