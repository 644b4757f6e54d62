package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPipelineNotFound indicates no stored pipeline matches the id or name.
var ErrPipelineNotFound = errors.New("pipeline not found")

// Store persists pipeline definitions as files in a directory. JSON and YAML
// are both accepted; new definitions are written as JSON.
type Store struct {
	dir        string
	collectors []string
}

// NewStore builds a store over the given directory. collectors is the known
// collector set used to validate definitions before saving.
func NewStore(dir string, collectors []string) *Store {
	return &Store{dir: dir, collectors: collectors}
}

type storedPipeline struct {
	path     string
	pipeline Pipeline
}

// List returns all stored pipelines sorted by id.
func (s *Store) List() ([]Pipeline, error) {
	stored, err := s.load()
	if err != nil {
		return nil, err
	}
	pipelines := make([]Pipeline, 0, len(stored))
	for _, sp := range stored {
		pipelines = append(pipelines, sp.pipeline)
	}
	sort.Slice(pipelines, func(i, j int) bool { return pipelines[i].ID < pipelines[j].ID })
	return pipelines, nil
}

// Get returns the pipeline with the given id, or failing that, name.
func (s *Store) Get(idOrName string) (Pipeline, error) {
	sp, err := s.find(idOrName)
	if err != nil {
		return Pipeline{}, err
	}
	return sp.pipeline, nil
}

// Save validates the pipeline and writes it to disk. An existing definition
// with the same id is overwritten in place, keeping its format; new ones are
// created as <id>.json.
func (s *Store) Save(p Pipeline) error {
	if problems := Validate(p, s.collectors); len(problems) > 0 {
		return fmt.Errorf("pipeline %q is invalid: %s", p.ID, strings.Join(problems, "; "))
	}
	if strings.ContainsAny(p.ID, `/\`) {
		return fmt.Errorf("pipeline id %q must not contain path separators", p.ID)
	}

	path := filepath.Join(s.dir, p.ID+".json")
	if existing, err := s.find(p.ID); err == nil {
		path = existing.path
	} else if !errors.Is(err, ErrPipelineNotFound) {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(p)
	} else {
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode pipeline %q: %w", p.ID, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create pipeline directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pipeline %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes the stored pipeline with the given id or name.
func (s *Store) Delete(idOrName string) error {
	sp, err := s.find(idOrName)
	if err != nil {
		return err
	}
	if err := os.Remove(sp.path); err != nil {
		return fmt.Errorf("failed to delete pipeline %q: %w", idOrName, err)
	}
	return nil
}

func (s *Store) find(idOrName string) (storedPipeline, error) {
	stored, err := s.load()
	if err != nil {
		return storedPipeline{}, err
	}
	for _, sp := range stored {
		if sp.pipeline.ID == idOrName {
			return sp, nil
		}
	}
	for _, sp := range stored {
		if strings.EqualFold(sp.pipeline.Name, idOrName) {
			return sp, nil
		}
	}
	return storedPipeline{}, fmt.Errorf("%w: %q", ErrPipelineNotFound, idOrName)
}

func (s *Store) load() ([]storedPipeline, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pipeline directory: %w", err)
	}

	var stored []storedPipeline
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		p, err := readDefinition(path)
		if err != nil {
			return nil, err
		}
		stored = append(stored, storedPipeline{path: path, pipeline: p})
	}
	return stored, nil
}

func readDefinition(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var p Pipeline
	if isYAML(path) {
		err = yaml.Unmarshal(data, &p)
	} else {
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return Pipeline{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
