package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campuspilot/campuspilot/internal/audit"
	"github.com/campuspilot/campuspilot/internal/classifier"
	"github.com/campuspilot/campuspilot/internal/config"
	"github.com/campuspilot/campuspilot/internal/embedding"
	"github.com/campuspilot/campuspilot/internal/intent"
	"github.com/campuspilot/campuspilot/internal/interfaces"
	"github.com/campuspilot/campuspilot/internal/llm"
	"github.com/campuspilot/campuspilot/internal/logging"
	"github.com/campuspilot/campuspilot/internal/retrieval"
	"github.com/campuspilot/campuspilot/internal/router"
	"github.com/campuspilot/campuspilot/internal/search"
	"github.com/campuspilot/campuspilot/internal/store"
	"github.com/campuspilot/campuspilot/internal/ui"
	"github.com/campuspilot/campuspilot/pkg/models"
)

var (
	version     = "1.0.0"
	configPath  string
	dbPath      string
	modelDir    string
	callerID    int64
	initDB      bool
	showVersion bool
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	defaultConfigPath := filepath.Join(homeDir, ".campuspilot", "config.yaml")

	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.StringVar(&modelDir, "model", "", "Path to classifier model directory (overrides config)")
	flag.Int64Var(&callerID, "user", 1, "User ID to answer record queries for")
	flag.BoolVar(&initDB, "init", false, "Initialize database with schema and sample records")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("CampusPilot v%s\n", version)
		fmt.Println("Student Assistant Chatbot for college record management")
		return
	}

	// API keys come from the environment; a .env file is a convenience.
	_ = godotenv.Load()

	// Load configuration (creates with defaults if doesn't exist)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if modelDir != "" {
		cfg.ModelDir = modelDir
	}

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	// Open record store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	// Initialize if requested
	if initDB {
		if err := initializeStore(st); err != nil {
			log.Fatalf("Initialization failed: %v", err)
		}
		return
	}

	// Classifier engine
	engine, err := classifier.New(classifier.Config{
		ModelDir:      cfg.ModelDir,
		MaxSeqLen:     cfg.Classifier.MaxSeqLen,
		CacheCapacity: cfg.Classifier.CacheCapacity,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to load classifier: %v", err)
	}
	defer engine.Close()

	// Generation client
	groqKey := os.Getenv("GROQ_API_KEY")
	if groqKey == "" {
		logger.Warn("GROQ_API_KEY not set; response generation will fail")
	}
	generator := llm.NewGenerator(llm.NewClient(groqKey, cfg.GenerationModel, logger))

	// Document retrieval (optional; college_info falls back gracefully)
	retriever, closeRetriever, err := buildRetriever(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up retrieval: %v", err)
	}
	defer closeRetriever()

	rt := router.New(router.Deps{
		Classifier: engine,
		Policy:     intent.NewPolicy(cfg.Classifier.ConfidenceThreshold),
		Store:      st,
		Generator:  generator,
		Retriever:  retriever,
		Searcher:   search.NewClient(cfg.SearchEndpoint),
		Trail:      audit.NewLogger(cfg.AuditTrailPath),
		Logger:     logger,
	})

	repl := ui.NewREPL(rt, callerID, version)

	// Non-interactive mode: join all args as a single query
	if args := flag.Args(); len(args) > 0 {
		if err := repl.Ask(strings.Join(args, " ")); err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		return
	}

	if err := repl.Start(); err != nil {
		log.Fatalf("REPL error: %v", err)
	}
}

// initializeStore applies the schema and loads the sample records.
func initializeStore(st *store.Store) error {
	fmt.Println("Initializing CampusPilot...")

	if err := st.Migrate(); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	fmt.Println("✓ Database initialized")

	if err := st.Seed(); err != nil {
		return fmt.Errorf("failed to seed records: %w", err)
	}
	fmt.Println("✓ Sample records loaded")

	fmt.Println("\n✓ CampusPilot initialized successfully!")
	fmt.Println("Run 'campuspilot' to start the assistant.")
	return nil
}

// buildRetriever wires the Pinecone-backed retriever when an index host
// is configured, and a disabled retriever otherwise. The returned
// cleanup function is always safe to call.
func buildRetriever(cfg *config.Config, logger *zap.Logger) (interfaces.Retriever, func(), error) {
	if cfg.PineconeHost == "" {
		logger.Info("no retrieval index configured; college_info answers without documents")
		return disabledRetriever{}, func() {}, nil
	}

	pineconeKey := os.Getenv("PINECONE_API_KEY")
	if pineconeKey == "" {
		return nil, nil, fmt.Errorf("PINECONE_API_KEY not set but pinecone_host is configured")
	}

	embedder, err := embedding.New(cfg.EmbeddingDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load embedding model: %w", err)
	}

	retriever, err := retrieval.New(retrieval.Config{
		APIKey:    pineconeKey,
		IndexHost: cfg.PineconeHost,
		Namespace: cfg.PineconeNS,
		TopK:      cfg.RetrievalTopK,
	}, embedder, logger)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	return retriever, func() { embedder.Close() }, nil
}

// disabledRetriever returns no documents, which the router renders as
// the no-documents context rather than an error.
type disabledRetriever struct{}

func (disabledRetriever) Retrieve(ctx context.Context, query string) ([]models.Document, error) {
	return nil, nil
}
