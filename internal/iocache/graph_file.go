package iocache

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LoadGraphFile reads a graph snapshot from a .yaml, .yml or .json file.
func LoadGraphFile(fs afero.Fs, path string) (schema.GraphSnapshot, error) {
	var snapshot schema.GraphSnapshot

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return snapshot, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snapshot)
	case ".json":
		err = json.Unmarshal(data, &snapshot)
	default:
		return snapshot, fmt.Errorf("unsupported graph file extension %q (use .yaml, .yml or .json)", filepath.Ext(path))
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to parse graph file %s: %w", path, err)
	}

	if err := ValidateSnapshot(snapshot); err != nil {
		return snapshot, fmt.Errorf("invalid graph file %s: %w", path, err)
	}
	return snapshot, nil
}

// ValidateSnapshot checks that entity ids are present and unique and that edges name both ends.
func ValidateSnapshot(snapshot schema.GraphSnapshot) error {
	seen := make(map[string]struct{}, len(snapshot.Entities))
	for i, e := range snapshot.Entities {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("entity %d has an empty id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	for i, e := range snapshot.Edges {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("edge %d must name a source and a target", i)
		}
	}
	return nil
}

// FileGraphProvider serves a snapshot loaded once from a file.
type FileGraphProvider struct {
	snapshot schema.GraphSnapshot
}

var _ contract.GraphProvider = &FileGraphProvider{} // Compile-time check

// NewFileGraphProvider loads path through fs.
func NewFileGraphProvider(fs afero.Fs, path string) (*FileGraphProvider, error) {
	snapshot, err := LoadGraphFile(fs, path)
	if err != nil {
		return nil, err
	}
	return &FileGraphProvider{snapshot: snapshot}, nil
}

// Snapshot implements the GraphProvider interface.
func (p *FileGraphProvider) Snapshot(ctx context.Context) (schema.GraphSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return schema.GraphSnapshot{}, err
	}
	return p.snapshot, nil
}
