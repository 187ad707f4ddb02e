// Package embedding provides sentence embeddings for retrieval queries
// using an all-MiniLM-L6-v2 ONNX checkpoint. Only the college_info path
// needs it; the sequence classifier has its own session.
package embedding

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/campuspilot/campuspilot/internal/onnxenv"
	"github.com/campuspilot/campuspilot/internal/tokenize"
)

const (
	defaultMaxSeqLen = 128
	// all-MiniLM-L6-v2 output dimension.
	embeddingDim = 384
)

// Engine embeds single texts. Safe for concurrent use; the forward
// pass is serialized internally.
type Engine struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	tok     *tokenize.WordPiece
}

// New loads the embedding model and vocabulary from modelDir, which
// must contain model_quantized.onnx and vocab.txt.
func New(modelDir string) (*Engine, error) {
	tok, err := tokenize.LoadWordPiece(filepath.Join(modelDir, "vocab.txt"), defaultMaxSeqLen)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding tokenizer: %w", err)
	}

	if err := onnxenv.Acquire(); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		onnxenv.Release()
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	if err := options.SetIntraOpNumThreads(2); err != nil {
		onnxenv.Release()
		return nil, fmt.Errorf("failed to set threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		filepath.Join(modelDir, "model_quantized.onnx"),
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"sentence_embedding"},
		options,
	)
	if err != nil {
		onnxenv.Release()
		return nil, fmt.Errorf("failed to create embedding session: %w", err)
	}

	return &Engine{session: session, tok: tok}, nil
}

// Embed returns the L2-normalized embedding vector for text.
func (e *Engine) Embed(text string) ([]float32, error) {
	enc := e.tok.Encode(text)
	seqLen := e.tok.MaxSeqLen()
	shape := ort.NewShape(1, int64(seqLen))

	inputIDs, err := ort.NewTensor(shape, enc.InputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDs.Destroy() }()

	attentionMask, err := ort.NewTensor(shape, enc.AttentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMask.Destroy() }()

	tokenTypeIDs, err := ort.NewTensor(shape, enc.TokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	defer func() { _ = tokenTypeIDs.Destroy() }()

	output, err := ort.NewTensor(ort.NewShape(1, embeddingDim), make([]float32, embeddingDim))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer func() { _ = output.Destroy() }()

	e.mu.Lock()
	err = e.session.Run(
		[]ort.Value{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.Value{output},
	)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("embedding inference failed: %w", err)
	}

	return normalizeL2(output.GetData()), nil
}

// Dim returns the embedding dimension.
func (e *Engine) Dim() int { return embeddingDim }

// Close releases the ONNX session.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
		onnxenv.Release()
	}
	return nil
}

// normalizeL2 scales vec to unit length so dot product equals cosine
// similarity downstream.
func normalizeL2(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return vec
	}
	result := make([]float32, len(vec))
	for i, v := range vec {
		result[i] = v / norm
	}
	return result
}
