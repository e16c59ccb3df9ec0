package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"worklogd/internal/atomicfile"
)

// RegistryFileName is the global registry file inside the global dir.
const RegistryFileName = "all_projects.json"

// Registry is the global map of every project seen on this machine,
// keyed by project ID. Registration is idempotent.
type Registry struct {
	path string
}

// OpenRegistry returns a registry backed by dir/all_projects.json.
func OpenRegistry(dir string) *Registry {
	return &Registry{path: filepath.Join(dir, RegistryFileName)}
}

// Register records a descriptor, replacing any prior entry with the
// same project ID. Registering an identical descriptor is a no-op on
// the stored document.
func (r *Registry) Register(d Descriptor) error {
	all, err := r.All()
	if err != nil {
		return err
	}

	if prev, ok := all[d.ProjectID]; ok && prev == d {
		return nil
	}
	all[d.ProjectID] = d

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	return atomicfile.WriteFile(r.path, data, 0600)
}

// All loads every registered project. A missing registry file yields
// an empty map.
func (r *Registry) All() (map[string]Descriptor, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]Descriptor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	all := map[string]Descriptor{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return all, nil
}

// Lookup returns the descriptor for a project ID.
func (r *Registry) Lookup(projectID string) (Descriptor, bool, error) {
	all, err := r.All()
	if err != nil {
		return Descriptor{}, false, err
	}
	d, ok := all[projectID]
	return d, ok, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}
