package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
//
// The store uses lazy initialisation: files are only created when
// first accessed, not in the constructor, which keeps testing simple
// and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
}

// defaultPrompts contains embedded default prompts, used when user
// files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptClassify: `Identify every piece of sensitive information in the text below: personally identifiable information (PII), sensitive personal information, protected health information (PHI), financial account details, and government-issued identifiers.

Flag: full person names, email addresses, phone numbers, street addresses, dates of birth, social security and other government ID numbers, passport and driver licence numbers, credit card and bank account numbers, medical record numbers, and health conditions tied to a person.

Do NOT flag: common words, city names alone, dates not tied to a person, regular numbers.

Return ONLY a JSON array of the exact substrings as they appear in the text. Return [] if nothing sensitive is found. No explanation.

Text:
%s`,
}

// NewPromptStore creates a file-based prompt store.
// If promptDir is empty, defaults to ~/.redactor/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(home, ".redactor", "prompts")
	}
	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt for the given name, preferring a user file
// over the embedded default. The file is created with the default
// content on first access so users have something to edit.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	if cached, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	def, known := defaultPrompts[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.promptDir, name+".txt")
	raw, err := os.ReadFile(path)
	if err == nil {
		prompt := strings.TrimRight(string(raw), "\n")
		s.cache[name] = prompt
		return prompt, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}

	// Seed the user file with the default so it can be edited.
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(def+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("seed prompt %s: %w", path, err)
	}
	s.cache[name] = def
	return def, nil
}

// Reload clears the cache, forcing fresh loads on next access.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}
