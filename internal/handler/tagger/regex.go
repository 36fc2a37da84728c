package tagger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/docforge/ingest/internal/metadata"
)

// Regex scans content line by line and stores pattern matches in a
// metadata field. With a capture group, group 1 is stored; otherwise
// the whole match.
//
// Handler instances are shared across concurrent imports, so the
// matcher state is serialized.
type Regex struct {
	Field   string
	Pattern *regexp.Regexp

	mu sync.Mutex
}

func (t *Regex) Tag(_ context.Context, _ string, r io.Reader, meta *metadata.Metadata, _ bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, m := range t.Pattern.FindAllStringSubmatch(scanner.Text(), -1) {
			if len(m) > 1 {
				meta.Add(t.Field, m[1])
			} else {
				meta.Add(t.Field, m[0])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan content: %w", err)
	}
	return nil
}

func (t *Regex) String() string {
	return fmt.Sprintf("RegexTagger(%s)", t.Field)
}
