// Package retrieval answers open-domain institution questions by
// similarity search over the crawled campus site stored in a Pinecone
// index. Failures are returned to the router as errors; this package
// never substitutes placeholder text.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/campuspilot/campuspilot/pkg/models"
)

// DefaultTopK is the number of documents fetched per query unless
// configured otherwise.
const DefaultTopK = 5

// Embedder turns a query into the vector the index was built with.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// Config holds index connection parameters.
type Config struct {
	APIKey    string
	IndexHost string
	Namespace string
	TopK      int
}

// Retriever embeds queries and searches the document index.
type Retriever struct {
	index    *pinecone.IndexConnection
	embedder Embedder
	topK     int
	logger   *zap.Logger
}

// New connects to the configured index. Construction fails when the
// index is unreachable; the caller decides whether that is fatal.
func New(cfg Config, embedder Embedder, logger *zap.Logger) (*Retriever, error) {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	index, err := client.Index(pinecone.NewIndexConnParams{
		Host:      cfg.IndexHost,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}

	return &Retriever{
		index:    index,
		embedder: embedder,
		topK:     cfg.TopK,
		logger:   logger.Named("retrieval"),
	}, nil
}

// Retrieve embeds the query and returns the top-ranked documents,
// descending by score.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.Document, error) {
	vector, err := r.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	resp, err := r.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(r.topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	docs := make([]models.Document, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if match.Vector == nil {
			continue
		}
		docs = append(docs, docFromMetadata(match.Vector.Metadata, match.Score))
	}

	r.logger.Debug("retrieved documents",
		zap.Int("count", len(docs)),
		zap.String("query", query))
	return docs, nil
}

// docFromMetadata maps one match's metadata onto a Document. The index
// stores page text under "text" and its origin URL or file under
// "source"; anything else is ignored.
func docFromMetadata(meta *structpb.Struct, score float32) models.Document {
	doc := models.Document{Score: float64(score)}
	if meta == nil {
		return doc
	}
	fields := meta.GetFields()
	if v, ok := fields["text"]; ok {
		doc.Content = v.GetStringValue()
	}
	if v, ok := fields["source"]; ok {
		doc.Source = v.GetStringValue()
	}
	return doc
}

// BuildContext assembles retrieved documents into the generation
// context block, one "Document N:" section per document.
func BuildContext(docs []models.Document) string {
	blocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("Document %d:\n%s", i+1, doc.Content))
	}
	return strings.Join(blocks, "\n\n")
}
