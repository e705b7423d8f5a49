package compose

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/ingest"
	"github.com/dmitrijs2005/moments/internal/models"
)

// MaxImages is the most images a thought may carry.
const MaxImages = 9

// Draft is a thought being composed. An empty ThoughtID creates a new
// thought; otherwise the thought is replaced.
type Draft struct {
	ThoughtID  string
	Content    string
	Tags       []string
	Visibility models.Visibility
	Selections []ingest.Selection
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return common.ErrEmptyContent
	}
	if len(d.Selections) > MaxImages {
		return fmt.Errorf("%w: %d selected, at most %d", common.ErrTooManyImages, len(d.Selections), MaxImages)
	}
	return nil
}

// NormalizeTags trims tags, drops empty ones and removes duplicates keeping
// the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
