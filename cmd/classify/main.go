// Command classify runs the query classifier over a list of queries,
// one per line from a file or stdin, and prints a TSV of query, label,
// confidence and resolved intent. Useful for eyeballing model behavior
// and for regression checks against a labeled query set.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/campuspilot/campuspilot/internal/classifier"
	"github.com/campuspilot/campuspilot/internal/config"
	"github.com/campuspilot/campuspilot/internal/intent"
	"github.com/campuspilot/campuspilot/internal/logging"
)

const batchSize = 32

var (
	configPath string
	modelDir   string
	threshold  float64
)

func main() {
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "Path to configuration file")
	flag.StringVar(&modelDir, "model", "", "Path to classifier model directory (overrides config)")
	flag.Float64Var(&threshold, "threshold", 0, "Confidence threshold (0 uses the configured value)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if modelDir != "" {
		cfg.ModelDir = modelDir
	}
	if threshold == 0 {
		threshold = cfg.Classifier.ConfidenceThreshold
	}

	logger, err := logging.Init("warn")
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	queries, err := readQueries(flag.Args())
	if err != nil {
		log.Fatalf("Failed to read queries: %v", err)
	}
	if len(queries) == 0 {
		log.Fatal("No queries to classify")
	}

	engine, err := classifier.New(classifier.Config{
		ModelDir:      cfg.ModelDir,
		MaxSeqLen:     cfg.Classifier.MaxSeqLen,
		CacheCapacity: cfg.Classifier.CacheCapacity,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to load classifier: %v", err)
	}
	defer engine.Close()

	policy := intent.NewPolicy(threshold)

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	fmt.Fprintln(w, "query\tlabel\tconfidence\tintent")

	for start := 0; start < len(queries); start += batchSize {
		end := start + batchSize
		if end > len(queries) {
			end = len(queries)
		}
		results := engine.PredictBatch(queries[start:end])
		for i, res := range results {
			if res.Err != "" {
				fmt.Fprintf(w, "%s\t-\t-\terror: %s\n", queries[start+i], res.Err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\n",
				queries[start+i], res.Label, res.Confidence, policy.Resolve(res))
		}
	}
}

// readQueries reads one query per line from the named file, or stdin
// when no file is given. Blank lines are skipped.
func readQueries(args []string) ([]string, error) {
	in := os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var queries []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			queries = append(queries, line)
		}
	}
	return queries, scanner.Err()
}
