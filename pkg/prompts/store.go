package prompts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	"rosetta-hq/rosetta/pkg/rtl/parser"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// Template is one prompt template loaded from the store: its identity, the
// raw text, and the parsed tree. The tree is immutable and safe to render
// concurrently.
type Template struct {
	Category string
	Stage    schema.Stage
	Name     string
	Path     string
	Text     string
	Tree     *ast.Template
}

// ID returns the template's store identity, "category/stage/name".
func (t *Template) ID() string {
	return t.Category + "/" + string(t.Stage) + "/" + t.Name
}

// Store is a file-based prompt template library laid out
// root/<category>/<stage>/<name>.md. Loaded templates are cached with their
// parsed trees; Invalidate drops cached entries so the next Get re-reads
// the file.
type Store struct {
	root   string
	mu     sync.RWMutex
	cache  map[string]*Template
	logger *slog.Logger
}

// NewStore creates a template store rooted at dir.
func NewStore(root string) *Store {
	return &Store{
		root:   root,
		cache:  make(map[string]*Template),
		logger: slog.Default().With("component", "prompts.store"),
	}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Get returns the named template, loading and parsing it on first use.
// A template whose text fails to parse is an error: the store never hands
// out half-parsed templates.
func (s *Store) Get(category string, stage schema.Stage, name string) (*Template, error) {
	id := category + "/" + string(stage) + "/" + name

	s.mu.RLock()
	if t, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return t, nil
	}
	s.mu.RUnlock()

	t, err := s.load(category, stage, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[id] = t
	s.mu.Unlock()

	s.logger.Debug("template loaded", "id", id, "path", t.Path)
	return t, nil
}

// load reads and parses one template file.
func (s *Store) load(category string, stage schema.Stage, name string) (*Template, error) {
	path := filepath.Join(s.root, category, string(stage), name+".md")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s/%s/%s: %w", category, stage, name, err)
	}

	text := string(data)
	tree, diags := parser.NewParser().Parse(text)
	if tree == nil {
		return nil, fmt.Errorf("parse template %s: %w", path, diags.ToError())
	}

	return &Template{
		Category: category,
		Stage:    stage,
		Name:     name,
		Path:     path,
		Text:     text,
		Tree:     tree,
	}, nil
}

// List returns the template names available for a category and stage,
// sorted, without loading them.
func (s *Store) List(category string, stage schema.Stage) ([]string, error) {
	dir := filepath.Join(s.root, category, string(stage))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list templates in %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate drops every cached template so subsequent Gets re-read disk.
// The watcher calls this after file changes settle.
func (s *Store) Invalidate() {
	s.mu.Lock()
	n := len(s.cache)
	s.cache = make(map[string]*Template)
	s.mu.Unlock()

	if n > 0 {
		s.logger.Info("template cache invalidated", "dropped", n)
	}
}

// CachedCount returns the number of templates currently cached.
func (s *Store) CachedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
