package classifier

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/campuspilot/campuspilot/internal/onnxenv"
	"github.com/campuspilot/campuspilot/internal/tokenize"
)

// onnxForwarder runs forward passes through a dynamic-batch ONNX
// session. The session itself is not safe for concurrent Run calls, so
// a mutex serializes them; inference dominates latency over the lock.
type onnxForwarder struct {
	mu        sync.Mutex
	session   *ort.DynamicAdvancedSession
	seqLen    int
	numLabels int
}

func newOnnxForwarder(modelPath string, seqLen, numLabels int) (*onnxForwarder, string, error) {
	if err := onnxenv.Acquire(); err != nil {
		return nil, "", err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		onnxenv.Release()
		return nil, "", fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	if err := options.SetIntraOpNumThreads(2); err != nil {
		onnxenv.Release()
		return nil, "", fmt.Errorf("failed to set threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		options,
	)
	if err != nil {
		onnxenv.Release()
		return nil, "", err
	}

	// CPU execution only; classification stays deterministic for
	// identical input and unchanged weights.
	return &onnxForwarder{session: session, seqLen: seqLen, numLabels: numLabels}, "cpu", nil
}

func (f *onnxForwarder) Forward(encs []tokenize.Encoding) ([][]float32, error) {
	batch := len(encs)
	if batch == 0 {
		return nil, nil
	}

	inputIDs := make([]int64, 0, batch*f.seqLen)
	attentionMask := make([]int64, 0, batch*f.seqLen)
	tokenTypeIDs := make([]int64, 0, batch*f.seqLen)
	for _, enc := range encs {
		inputIDs = append(inputIDs, enc.InputIDs...)
		attentionMask = append(attentionMask, enc.AttentionMask...)
		tokenTypeIDs = append(tokenTypeIDs, enc.TokenTypeIDs...)
	}

	shape := ort.NewShape(int64(batch), int64(f.seqLen))
	inputIDsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDsTensor.Destroy() }()

	attentionMaskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMaskTensor.Destroy() }()

	tokenTypeIDsTensor, err := ort.NewTensor(shape, tokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	defer func() { _ = tokenTypeIDsTensor.Destroy() }()

	outputTensor, err := ort.NewTensor(ort.NewShape(int64(batch), int64(f.numLabels)), make([]float32, batch*f.numLabels))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer func() { _ = outputTensor.Destroy() }()

	f.mu.Lock()
	err = f.session.Run(
		[]ort.Value{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.Value{outputTensor},
	)
	f.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	flat := outputTensor.GetData()
	logits := make([][]float32, batch)
	for i := 0; i < batch; i++ {
		row := make([]float32, f.numLabels)
		copy(row, flat[i*f.numLabels:(i+1)*f.numLabels])
		logits[i] = row
	}
	return logits, nil
}

func (f *onnxForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session != nil {
		_ = f.session.Destroy()
		f.session = nil
		onnxenv.Release()
	}
	return nil
}
