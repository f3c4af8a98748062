// Package files locates inventory source files on disk. The dashboard is
// normally pointed at one configured file, but operators often drop a fresh
// export into the data directory instead; discovery picks the newest one.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceInfo describes one candidate inventory file.
type SourceInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds inventory source files under a base directory.
type Discovery struct {
	baseDir string
}

// NewDiscovery creates a discovery instance rooted at baseDir.
func NewDiscovery(baseDir string) *Discovery {
	return &Discovery{baseDir: baseDir}
}

// sourceExtensions are the file types the ingestion pipeline can parse.
var sourceExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// ListSources returns every parseable inventory file in the base directory,
// newest first.
func (d *Discovery) ListSources() ([]SourceInfo, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.baseDir, err)
	}

	var sources []SourceInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sources = append(sources, SourceInfo{
			Path:    filepath.Join(d.baseDir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	return sources, nil
}

// NewestSource returns the most recently modified parseable file in the
// base directory, or os.ErrNotExist when there is none.
func (d *Discovery) NewestSource() (SourceInfo, error) {
	sources, err := d.ListSources()
	if err != nil {
		return SourceInfo{}, err
	}
	if len(sources) == 0 {
		return SourceInfo{}, os.ErrNotExist
	}
	return sources[0], nil
}
