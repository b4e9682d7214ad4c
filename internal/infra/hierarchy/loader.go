// Package hierarchy reads work item hierarchies from YAML files.
//
// Format:
//
//	epics:
//	  - title: Checkout
//	    features:
//	      - title: Payment
//	        items:
//	          - title: Card form
//	          - title: 3-D Secure
package hierarchy

import (
	"fmt"
	"os"

	"github.com/runoshun/boards-seed/internal/domain"
	"gopkg.in/yaml.v3"
)

// Ensure Loader implements domain.HierarchyLoader.
var _ domain.HierarchyLoader = (*Loader)(nil)

type document struct {
	Epics *[]epicDoc `yaml:"epics"`
}

type epicDoc struct {
	Title    string       `yaml:"title"`
	Features []featureDoc `yaml:"features"`
}

type featureDoc struct {
	Title string    `yaml:"title"`
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Title string `yaml:"title"`
}

// Loader loads hierarchies from YAML files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the hierarchy at path.
func (l *Loader) Load(path string) (*domain.Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	h, err := Parse(data)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return h, nil
}

// Parse builds a hierarchy from YAML content.
// Only the presence of "epics" and non-empty titles are checked.
func Parse(data []byte) (*domain.Hierarchy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Epics == nil {
		return nil, domain.ErrMissingEpics
	}

	h := &domain.Hierarchy{Epics: make([]*domain.Node, 0, len(*doc.Epics))}
	for i, e := range *doc.Epics {
		if e.Title == "" {
			return nil, fmt.Errorf("epics[%d]: %w", i, domain.ErrEmptyTitle)
		}
		epic := domain.NewEpic(e.Title)
		for j, f := range e.Features {
			if f.Title == "" {
				return nil, fmt.Errorf("epics[%d].features[%d]: %w", i, j, domain.ErrEmptyTitle)
			}
			feature, err := epic.AddChild(f.Title)
			if err != nil {
				return nil, err
			}
			for k, it := range f.Items {
				if it.Title == "" {
					return nil, fmt.Errorf("epics[%d].features[%d].items[%d]: %w", i, j, k, domain.ErrEmptyTitle)
				}
				if _, err := feature.AddChild(it.Title); err != nil {
					return nil, err
				}
			}
		}
		h.Epics = append(h.Epics, epic)
	}
	return h, nil
}
