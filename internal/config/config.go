package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. API keys are not
// stored here; they come from the environment.
type Config struct {
	ModelDir        string     `yaml:"model_dir"`
	EmbeddingDir    string     `yaml:"embedding_dir"`
	DBPath          string     `yaml:"db_path"`
	AuditTrailPath  string     `yaml:"audit_trail_path,omitempty"`
	LogLevel        string     `yaml:"log_level"`
	GenerationModel string     `yaml:"generation_model"`
	SearchEndpoint  string     `yaml:"search_endpoint,omitempty"`
	PineconeHost    string     `yaml:"pinecone_host,omitempty"`
	PineconeNS      string     `yaml:"pinecone_namespace,omitempty"`
	RetrievalTopK   int        `yaml:"retrieval_top_k"`
	Classifier      Classifier `yaml:"classifier"`
}

// Classifier holds inference tuning knobs.
type Classifier struct {
	// ConfidenceThreshold is the floor below which predictions fall
	// back to the general intent.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MaxSeqLen           int     `yaml:"max_seq_len"`
	CacheCapacity       int     `yaml:"cache_capacity"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".campuspilot")
	return &Config{
		ModelDir:        filepath.Join(base, "models", "query-classifier"),
		EmbeddingDir:    filepath.Join(base, "models", "minilm"),
		DBPath:          filepath.Join(base, "campuspilot.db"),
		AuditTrailPath:  filepath.Join(base, "dispatch_trail.json"),
		LogLevel:        "info",
		GenerationModel: "llama-3.3-70b-versatile",
		RetrievalTopK:   5,
		Classifier: Classifier{
			ConfidenceThreshold: 0.15,
			MaxSeqLen:           128,
			CacheCapacity:       1000,
		},
	}
}

// Load reads configuration from file, creating it with defaults if it
// doesn't exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".campuspilot", "config.yaml")
}
