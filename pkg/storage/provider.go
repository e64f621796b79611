package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/log"
)

// Provider is the persistence collaborator behind a Store. Load enumerates
// every persisted dataset; Save persists a single dataset in its native
// format. Providers never fail the whole load for one bad entry: corrupt
// entries are logged and skipped.
type Provider interface {
	Load() (map[string]core.Content, error)
	Save(name string, content core.Content) error
}

// DirProvider persists datasets as one file per dataset under a directory:
// <name>.sql holds raw script text verbatim, <name>.json holds the
// pretty-printed JSON document. The dataset name is the file base name
// without extension.
type DirProvider struct {
	dir    string
	logger *log.Logger
}

// NewDirProvider creates the directory if it does not exist; a missing
// directory is never an error.
func NewDirProvider(dir string) (*DirProvider, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating datasets directory %s: %w", dir, err)
	}
	return &DirProvider{
		dir:    dir,
		logger: log.ForComponent("storage"),
	}, nil
}

// Dir returns the directory this provider reads and writes.
func (p *DirProvider) Dir() string {
	return p.dir
}

func (p *DirProvider) Load() (map[string]core.Content, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("reading datasets directory %s: %w", p.dir, err)
	}

	datasets := make(map[string]core.Content)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		name := strings.TrimSuffix(entry.Name(), ext)
		path := filepath.Join(p.dir, entry.Name())

		switch ext {
		case ".sql":
			data, err := os.ReadFile(path)
			if err != nil {
				p.logger.Warnf("skipping SQL dataset %s: %v", name, err)
				continue
			}
			datasets[name] = core.SQLContent{Text: string(data)}
		case ".json":
			data, err := os.ReadFile(path)
			if err != nil {
				p.logger.Warnf("skipping JSON dataset %s: %v", name, err)
				continue
			}
			content, err := core.ParseJSONContent(data)
			if err != nil {
				p.logger.Warnf("skipping JSON dataset %s: %v", name, err)
				continue
			}
			datasets[name] = content
		}
	}

	return datasets, nil
}

func (p *DirProvider) Save(name string, content core.Content) error {
	path := filepath.Join(p.dir, name+"."+string(content.Kind()))
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		return fmt.Errorf("writing dataset %s: %w", name, err)
	}
	return nil
}
