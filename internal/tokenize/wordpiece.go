// Package tokenize implements WordPiece tokenization for BERT-style
// models. Shared by the sequence classifier and the sentence embedder,
// which both run MiniLM-family checkpoints with the standard
// [CLS]/[SEP]/[PAD]/[UNK] vocabulary.
package tokenize

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var wordSplit = regexp.MustCompile(`[\w]+|[^\s\w]`)

// Encoding holds one tokenized sequence, padded to the tokenizer's
// fixed sequence length.
type Encoding struct {
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
}

// WordPiece tokenizes text against a fixed vocabulary, truncating
// silently at the configured sequence length.
type WordPiece struct {
	vocab      map[string]int32
	unkTokenID int32
	padTokenID int32
	clsTokenID int32
	sepTokenID int32
	maxSeqLen  int
}

// LoadWordPiece reads a vocab.txt (one token per line, line number is
// the token id) and returns a tokenizer with the given sequence length.
func LoadWordPiece(vocabPath string, maxSeqLen int) (*WordPiece, error) {
	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab file: %w", err)
	}

	vocab := make(map[string]int32)
	for i, line := range strings.Split(string(data), "\n") {
		token := strings.TrimSpace(line)
		if token == "" {
			continue
		}
		vocab[token] = int32(i)
	}

	specials := make(map[string]int32, 4)
	for _, name := range []string{"[UNK]", "[PAD]", "[CLS]", "[SEP]"} {
		id, ok := vocab[name]
		if !ok {
			return nil, fmt.Errorf("vocab missing %s token", name)
		}
		specials[name] = id
	}

	return &WordPiece{
		vocab:      vocab,
		unkTokenID: specials["[UNK]"],
		padTokenID: specials["[PAD]"],
		clsTokenID: specials["[CLS]"],
		sepTokenID: specials["[SEP]"],
		maxSeqLen:  maxSeqLen,
	}, nil
}

// MaxSeqLen returns the fixed sequence length every encoding is padded
// or truncated to.
func (t *WordPiece) MaxSeqLen() int { return t.maxSeqLen }

// Encode tokenizes text into one padded sequence.
func (t *WordPiece) Encode(text string) Encoding {
	tokens := t.tokenize(text)

	// Reserve room for [CLS] and [SEP].
	maxTokens := t.maxSeqLen - 2
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	enc := Encoding{
		InputIDs:      make([]int64, t.maxSeqLen),
		AttentionMask: make([]int64, t.maxSeqLen),
		TokenTypeIDs:  make([]int64, t.maxSeqLen),
	}

	enc.InputIDs[0] = int64(t.clsTokenID)
	enc.AttentionMask[0] = 1

	for i, token := range tokens {
		id, ok := t.vocab[token]
		if !ok {
			id = t.unkTokenID
		}
		enc.InputIDs[i+1] = int64(id)
		enc.AttentionMask[i+1] = 1
	}

	enc.InputIDs[len(tokens)+1] = int64(t.sepTokenID)
	enc.AttentionMask[len(tokens)+1] = 1

	// Remaining positions stay 0 ([PAD]).
	return enc
}

// EncodeBatch tokenizes several texts with shared padding, one encoding
// per input in input order.
func (t *WordPiece) EncodeBatch(texts []string) []Encoding {
	encs := make([]Encoding, len(texts))
	for i, text := range texts {
		encs[i] = t.Encode(text)
	}
	return encs
}

func (t *WordPiece) tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	for _, word := range wordSplit.FindAllString(text, -1) {
		tokens = append(tokens, t.wordpiece(word)...)
	}
	return tokens
}

// wordpiece greedily splits a word into the longest vocabulary
// subwords, prefixing continuations with "##".
func (t *WordPiece) wordpiece(word string) []string {
	if len(word) == 0 {
		return nil
	}

	if _, ok := t.vocab[word]; ok {
		return []string{word}
	}

	var tokens []string
	start := 0

	for start < len(word) {
		end := len(word)
		var curToken string
		found := false

		for end > start {
			substr := word[start:end]
			if start > 0 {
				substr = "##" + substr
			}
			if _, ok := t.vocab[substr]; ok {
				curToken = substr
				found = true
				break
			}
			end--
		}

		if !found {
			// Single character not in vocab.
			if start > 0 {
				tokens = append(tokens, "##"+string(word[start]))
			} else {
				tokens = append(tokens, string(word[start]))
			}
			start++
		} else {
			tokens = append(tokens, curToken)
			start = end
		}
	}

	return tokens
}
