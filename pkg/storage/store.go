package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/log"
)

// Store holds the authoritative in-memory set of datasets and mediates the
// reads the search engine depends on. Persistence is delegated to the
// Provider; the map is guarded by a read-write lock so the serve command's
// file watcher can reload the store while searches are in flight.
type Store struct {
	mu             sync.RWMutex
	datasets       map[string]core.Content
	provider       Provider
	targetCapacity int
	logger         *log.Logger
}

func NewStore(provider Provider, targetCapacity int) *Store {
	if targetCapacity <= 0 {
		targetCapacity = 72
	}
	return &Store{
		datasets:       make(map[string]core.Content),
		provider:       provider,
		targetCapacity: targetCapacity,
		logger:         log.ForComponent("store"),
	}
}

// Load replaces the in-memory mapping with the provider's enumeration of
// persisted datasets. Bad entries were already skipped by the provider.
func (s *Store) Load() error {
	datasets, err := s.provider.Load()
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}

	s.mu.Lock()
	s.datasets = datasets
	s.mu.Unlock()

	s.logger.Debugf("loaded %d datasets", len(datasets))
	return nil
}

// Add inserts or replaces a dataset in memory, then persists it through the
// provider. Name validation is a caller-side pre-check, not enforced here.
func (s *Store) Add(name string, content core.Content) error {
	s.mu.Lock()
	s.datasets[name] = content
	s.mu.Unlock()

	if err := s.provider.Save(name, content); err != nil {
		return fmt.Errorf("persisting dataset %s: %w", name, err)
	}
	return nil
}

// Count returns the number of datasets currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

// Get returns the content of a single dataset.
func (s *Store) Get(name string) (core.Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.datasets[name]
	return content, ok
}

// All returns a snapshot copy of the dataset mapping. Content values are
// read-only, so the snapshot is safe to iterate while the store mutates.
func (s *Store) All() map[string]core.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]core.Content, len(s.datasets))
	for name, content := range s.datasets {
		snapshot[name] = content
	}
	return snapshot
}

// Names returns all dataset names in sorted order. Search iterates names
// sorted so that equal-relevance results have a deterministic order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// TargetCapacity returns the configured reporting-only capacity target.
func (s *Store) TargetCapacity() int {
	return s.targetCapacity
}

// Info summarizes every dataset: name, type and the size of its string
// representation, sorted by name.
func (s *Store) Info() core.StoreInfo {
	s.mu.RLock()
	infos := make([]core.DatasetInfo, 0, len(s.datasets))
	for name, content := range s.datasets {
		infos = append(infos, core.DatasetInfo{
			Name: name,
			Type: content.Kind(),
			Size: len(content.String()),
		})
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return core.StoreInfo{
		TotalDatasets:  len(infos),
		TargetCapacity: s.targetCapacity,
		Datasets:       infos,
	}
}
