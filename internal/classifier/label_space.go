package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// LabelSpace is the model's native index-to-name vocabulary, read from
// the same artifact directory as the weights so index and label can
// never skew apart.
type LabelSpace struct {
	names map[int]string
	order []int
}

// modelConfig is the slice of the checkpoint's config.json we care
// about.
type modelConfig struct {
	ID2Label map[string]string `json:"id2label"`
}

// LoadLabelSpace reads the id2label table from a checkpoint config
// file.
func LoadLabelSpace(configPath string) (*LabelSpace, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model config: %w", err)
	}

	var cfg modelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}
	if len(cfg.ID2Label) == 0 {
		return nil, fmt.Errorf("model config %s has no id2label mapping", configPath)
	}

	names := make(map[int]string, len(cfg.ID2Label))
	order := make([]int, 0, len(cfg.ID2Label))
	for k, v := range cfg.ID2Label {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("non-integer label index %q in model config: %w", k, err)
		}
		names[idx] = v
		order = append(order, idx)
	}
	sort.Ints(order)

	return &LabelSpace{names: names, order: order}, nil
}

// Label returns the name for a class index. Indices outside the table
// produce a synthetic unknown_<index> name rather than failing; the
// normalizer downstream resolves those to the general intent.
func (ls *LabelSpace) Label(idx int) string {
	if name, ok := ls.names[idx]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", idx)
}

// Size returns the number of classes the model emits.
func (ls *LabelSpace) Size() int { return len(ls.names) }

// Names returns all label names in index order.
func (ls *LabelSpace) Names() []string {
	out := make([]string, 0, len(ls.order))
	for _, idx := range ls.order {
		out = append(out, ls.names[idx])
	}
	return out
}
