package docmem

import (
	"fmt"
	"os"
	"strings"
)

// LoadFile reads a plain-text document, one paragraph per line, into a
// fresh accessor with an empty header region.
func LoadFile(path string, opts ...Option) (*Accessor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return New(strings.Split(text, "\n"), opts...), nil
}

// WriteFile writes the committed document back as plain text, header
// paragraphs first, then the body. Styling does not survive the
// plain-text round trip.
func (a *Accessor) WriteFile(path string) error {
	a.mu.Lock()
	var lines []string
	for _, p := range a.header {
		lines = append(lines, p.text)
	}
	for _, p := range a.body {
		lines = append(lines, p.text)
	}
	a.mu.Unlock()

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
