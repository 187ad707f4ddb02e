// Package classifier turns raw query text into a best-guess label with
// confidence, using a fine-tuned sequence-classification checkpoint run
// through ONNX Runtime. One engine is constructed per process and
// shared by every request; the prediction cache is the only mutable
// state after load.
package classifier

import (
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/campuspilot/campuspilot/internal/intent"
	"github.com/campuspilot/campuspilot/internal/tokenize"
	"github.com/campuspilot/campuspilot/pkg/models"
)

const (
	// DefaultMaxSeqLen bounds tokenization well under the model's
	// absolute limit; longer queries are truncated, not rejected.
	DefaultMaxSeqLen = 128

	// DefaultCacheCapacity bounds the prediction cache. Tuning knob,
	// not a correctness constraint.
	DefaultCacheCapacity = 1000
)

// Config holds engine construction parameters. ModelDir must contain
// model.onnx, vocab.txt and config.json from the same training run.
type Config struct {
	ModelDir      string
	MaxSeqLen     int
	CacheCapacity int
}

// forwarder runs one forward pass over a tokenized batch and returns
// one logit vector per input. Split out so tests can stub inference
// without ONNX Runtime.
type forwarder interface {
	Forward(encs []tokenize.Encoding) ([][]float32, error)
	Close() error
}

type cachedPrediction struct {
	label      string
	confidence float64
}

// Engine owns the model, tokenizer and label space. Read-only after
// construction except for the prediction cache, which is safe for
// concurrent use.
type Engine struct {
	tok    *tokenize.WordPiece
	labels *LabelSpace
	fw     forwarder
	device string
	logger *zap.Logger

	cache    *lru.Cache[string, cachedPrediction]
	capacity int
	hits     atomic.Int64
	misses   atomic.Int64
}

// New loads the tokenizer, label space and ONNX session from cfg's
// model directory. Any load failure is fatal to the caller: there is no
// degraded mode, and a process that cannot construct the engine must
// not serve requests.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = DefaultMaxSeqLen
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("classifier")

	start := time.Now()

	tok, err := tokenize.LoadWordPiece(filepath.Join(cfg.ModelDir, "vocab.txt"), cfg.MaxSeqLen)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	labels, err := LoadLabelSpace(filepath.Join(cfg.ModelDir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load label space: %w", err)
	}
	if err := intent.CheckCoverage(labels.Names()); err != nil {
		return nil, err
	}

	fw, device, err := newOnnxForwarder(filepath.Join(cfg.ModelDir, "model.onnx"), cfg.MaxSeqLen, labels.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	cache, err := lru.New[string, cachedPrediction](cfg.CacheCapacity)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}

	logger.Info("model loaded",
		zap.Duration("load_time", time.Since(start)),
		zap.String("device", device),
		zap.Strings("labels", labels.Names()))

	return &Engine{
		tok:      tok,
		labels:   labels,
		fw:       fw,
		device:   device,
		logger:   logger,
		cache:    cache,
		capacity: cfg.CacheCapacity,
	}, nil
}

// Predict classifies one text. Internal failures are reported through
// the result's Err field; this method never panics past the engine
// boundary, because the router has a defined fallback for errored
// results.
func (e *Engine) Predict(text string) models.ClassificationResult {
	start := time.Now()

	logits, err := e.fw.Forward([]tokenize.Encoding{e.tok.Encode(text)})
	if err != nil {
		e.logger.Warn("inference failed", zap.Error(err))
		return models.ClassificationResult{Err: err.Error()}
	}

	res := e.resultFromLogits(logits[0])
	res.InferenceTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return res
}

// PredictCached behaves exactly like Predict but consults a bounded
// LRU keyed by the exact input text first. A hit is indistinguishable
// in shape from a miss. Errored results are never cached, so a miss
// always recomputes.
func (e *Engine) PredictCached(text string) models.ClassificationResult {
	start := time.Now()

	if entry, ok := e.cache.Get(text); ok {
		e.hits.Add(1)
		return models.ClassificationResult{
			Label:           entry.label,
			Confidence:      entry.confidence,
			InferenceTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		}
	}
	e.misses.Add(1)

	res := e.Predict(text)
	if res.Err == "" {
		e.cache.Add(text, cachedPrediction{label: res.Label, confidence: res.Confidence})
	}
	return res
}

// PredictBatch classifies several texts in one forward pass, returning
// one result per input in input order. A failure affecting the whole
// batch yields one errored result per input so callers can always index
// positionally.
func (e *Engine) PredictBatch(texts []string) []models.ClassificationResult {
	if len(texts) == 0 {
		return nil
	}

	start := time.Now()
	results := make([]models.ClassificationResult, len(texts))

	logits, err := e.fw.Forward(e.tok.EncodeBatch(texts))
	if err != nil {
		e.logger.Warn("batch inference failed", zap.Error(err), zap.Int("batch", len(texts)))
		for i := range results {
			results[i] = models.ClassificationResult{Err: err.Error()}
		}
		return results
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	for i := range logits {
		results[i] = e.resultFromLogits(logits[i])
		results[i].InferenceTimeMs = elapsed
	}
	return results
}

func (e *Engine) resultFromLogits(logits []float32) models.ClassificationResult {
	if len(logits) == 0 {
		return models.ClassificationResult{Err: "model returned no logits"}
	}
	probs := softmax(logits)

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	return models.ClassificationResult{
		Label:      e.labels.Label(best),
		Confidence: probs[best],
	}
}

// Status reports readiness and cache effectiveness for health checks.
func (e *Engine) Status() models.EngineStatus {
	return models.EngineStatus{
		Loaded: true,
		Device: e.device,
		Labels: e.labels.Names(),
		CacheStats: models.CacheStats{
			Capacity: e.capacity,
			Size:     e.cache.Len(),
			Hits:     e.hits.Load(),
			Misses:   e.misses.Load(),
		},
	}
}

// Labels returns the model's label names in index order.
func (e *Engine) Labels() []string { return e.labels.Names() }

// Close releases the ONNX session. The engine must not be used after.
func (e *Engine) Close() error {
	return e.fw.Close()
}

// softmax converts logits to a normalized probability distribution,
// subtracting the max for numerical stability.
func softmax(logits []float32) []float64 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
