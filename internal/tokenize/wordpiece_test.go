package tokenize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Token ids follow line order: [PAD]=0, [UNK]=1, [CLS]=2, [SEP]=3.
var vocabLines = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"what", "is", "my", "attendance", "fee", "##s", "status", "?",
}

func newTestTokenizer(t *testing.T, maxSeqLen int) *WordPiece {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(vocabLines, "\n")), 0644); err != nil {
		t.Fatalf("Failed to write vocab: %v", err)
	}

	tok, err := LoadWordPiece(path, maxSeqLen)
	if err != nil {
		t.Fatalf("Failed to load tokenizer: %v", err)
	}
	return tok
}

func TestLoadWordPieceMissingSpecials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte("hello\nworld"), 0644); err != nil {
		t.Fatalf("Failed to write vocab: %v", err)
	}
	if _, err := LoadWordPiece(path, 16); err == nil {
		t.Error("Expected error for vocab without special tokens")
	}
}

func TestEncode(t *testing.T) {
	tok := newTestTokenizer(t, 16)

	enc := tok.Encode("What is my attendance?")

	if len(enc.InputIDs) != 16 || len(enc.AttentionMask) != 16 || len(enc.TokenTypeIDs) != 16 {
		t.Fatalf("Expected all sequences padded to 16, got %d/%d/%d",
			len(enc.InputIDs), len(enc.AttentionMask), len(enc.TokenTypeIDs))
	}

	// [CLS] what is my attendance ? [SEP] then padding
	expected := []int64{2, 4, 5, 6, 7, 11, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	for i, want := range expected {
		if enc.InputIDs[i] != want {
			t.Errorf("InputIDs[%d] = %d, expected %d", i, enc.InputIDs[i], want)
		}
	}

	for i := range enc.AttentionMask {
		want := int64(0)
		if i < 7 {
			want = 1
		}
		if enc.AttentionMask[i] != want {
			t.Errorf("AttentionMask[%d] = %d, expected %d", i, enc.AttentionMask[i], want)
		}
	}
}

func TestEncodeSubwords(t *testing.T) {
	tok := newTestTokenizer(t, 16)

	// "fees" is not in vocab; greedy split yields "fee" + "##s".
	enc := tok.Encode("fees")
	expected := []int64{2, 8, 9, 3}
	for i, want := range expected {
		if enc.InputIDs[i] != want {
			t.Errorf("InputIDs[%d] = %d, expected %d", i, enc.InputIDs[i], want)
		}
	}
}

func TestEncodeUnknown(t *testing.T) {
	tok := newTestTokenizer(t, 16)

	enc := tok.Encode("什")
	if enc.InputIDs[1] != 1 {
		t.Errorf("Expected [UNK] id 1 for out-of-vocab rune, got %d", enc.InputIDs[1])
	}
}

func TestEncodeCaseFolding(t *testing.T) {
	tok := newTestTokenizer(t, 16)

	upper := tok.Encode("ATTENDANCE STATUS")
	lower := tok.Encode("attendance status")
	for i := range upper.InputIDs {
		if upper.InputIDs[i] != lower.InputIDs[i] {
			t.Fatalf("Expected case-insensitive encoding, ids differ at %d", i)
		}
	}
}

func TestEncodeTruncation(t *testing.T) {
	tok := newTestTokenizer(t, 6)

	enc := tok.Encode("what is my attendance status fee what is")

	if len(enc.InputIDs) != 6 {
		t.Fatalf("Expected sequence length 6, got %d", len(enc.InputIDs))
	}
	if enc.InputIDs[0] != 2 {
		t.Errorf("Expected [CLS] first, got %d", enc.InputIDs[0])
	}
	if enc.InputIDs[5] != 3 {
		t.Errorf("Expected [SEP] last after truncation, got %d", enc.InputIDs[5])
	}
	for i, m := range enc.AttentionMask {
		if m != 1 {
			t.Errorf("Expected full attention after truncation, mask[%d] = %d", i, m)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	tok := newTestTokenizer(t, 8)

	enc := tok.Encode("")
	if enc.InputIDs[0] != 2 || enc.InputIDs[1] != 3 {
		t.Errorf("Expected [CLS][SEP] for empty input, got %v", enc.InputIDs[:2])
	}
	if enc.AttentionMask[2] != 0 {
		t.Errorf("Expected padding after [SEP], got mask %v", enc.AttentionMask)
	}
}

func TestEncodeBatch(t *testing.T) {
	tok := newTestTokenizer(t, 8)

	texts := []string{"what is my fee", "attendance", "status"}
	encs := tok.EncodeBatch(texts)
	if len(encs) != 3 {
		t.Fatalf("Expected 3 encodings, got %d", len(encs))
	}
	for i, enc := range encs {
		single := tok.Encode(texts[i])
		for j := range enc.InputIDs {
			if enc.InputIDs[j] != single.InputIDs[j] {
				t.Errorf("Batch encoding %d differs from single encoding at %d", i, j)
				break
			}
		}
	}
}
