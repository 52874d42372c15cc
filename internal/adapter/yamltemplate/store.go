// Package yamltemplate loads lesson code templates from a directory of YAML
// files. Each file holds one template or a list of them.
package yamltemplate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
)

var _ secondary.TemplateRepository = (*Store)(nil)

// Store is an in-memory template index, read once at construction.
type Store struct {
	byID  map[string]*domain.CodeTemplate
	order []string
}

// Load reads every *.yaml and *.yml file under dir. A missing directory
// yields an empty store.
func Load(dir string, logger primary.Logger) (*Store, error) {
	s := &Store{byID: map[string]*domain.CodeTemplate{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Template directory not found", "dir", dir)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		templates, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for _, t := range templates {
			if err := s.add(t); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	logger.Info("Loaded code templates", "dir", dir, "count", len(s.order))
	return s, nil
}

func readFile(path string) ([]*domain.CodeTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parse(data, path)
}

// parse accepts a single template document, a list, or several documents.
func parse(data []byte, source string) ([]*domain.CodeTemplate, error) {
	var out []*domain.CodeTemplate
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}
		if len(node.Content) == 0 {
			continue
		}
		root := node.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var list []*domain.CodeTemplate
			if err := root.Decode(&list); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", source, err)
			}
			out = append(out, list...)
		case yaml.MappingNode:
			var t domain.CodeTemplate
			if err := root.Decode(&t); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", source, err)
			}
			out = append(out, &t)
		default:
			return nil, fmt.Errorf("failed to parse %s: expected a mapping or a list", source)
		}
	}
	return out, nil
}

func (s *Store) add(t *domain.CodeTemplate) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("template without id")
	}
	if !t.Language.Valid() {
		return fmt.Errorf("template %s: unsupported language %q", t.ID, t.Language)
	}
	if _, exists := s.byID[t.ID]; exists {
		return fmt.Errorf("duplicate template id %s", t.ID)
	}
	for i := range t.TestCases {
		if t.TestCases[i].ID == "" {
			t.TestCases[i].ID = fmt.Sprintf("%s-%d", t.ID, i+1)
		}
	}
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
	return nil
}

// GetTemplate returns nil, nil when no template has the id
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.CodeTemplate, error) {
	return s.byID[id], nil
}

// ListTemplates returns the templates sorted by lesson, then id
func (s *Store) ListTemplates(ctx context.Context) ([]*domain.CodeTemplate, error) {
	out := make([]*domain.CodeTemplate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LessonID != out[j].LessonID {
			return out[i].LessonID < out[j].LessonID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
