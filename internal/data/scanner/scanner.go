package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-saw-monitor/internal/config"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Folder is one dataset folder under the base directory.
type Folder struct {
	Name    string
	Path    string
	ModTime time.Time
}

// FolderScanner lists dataset folders of a base directory.
type FolderScanner struct {
	baseDir string
	limit   int
}

// NewFolderScanner creates a scanner returning at most limit folders.
// limit <= 0 means no limit.
func NewFolderScanner(baseDir string, limit int) *FolderScanner {
	return &FolderScanner{baseDir: baseDir, limit: limit}
}

// Recent returns sub-folders of the base directory, most recently modified
// first. A non-empty search keeps only names containing it, ignoring case,
// before the limit is applied.
func (s *FolderScanner) Recent(search string) ([]Folder, error) {
	start := time.Now()
	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	info, err := os.Stat(s.baseDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid base directory %q", s.baseDir)
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.baseDir, err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	var folders []Folder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(entry.Name()), needle) {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		fi, err := util.GetFileInfo(path)
		if err != nil {
			util.LogDebugf("Skip folder (error): %s - %v", path, err)
			continue
		}
		folders = append(folders, Folder{Name: entry.Name(), Path: path, ModTime: time.Unix(0, fi.ModTime)})
	}

	sort.SliceStable(folders, func(i, j int) bool {
		if !folders[i].ModTime.Equal(folders[j].ModTime) {
			return folders[i].ModTime.After(folders[j].ModTime)
		}
		return folders[i].Name < folders[j].Name
	})
	if s.limit > 0 && len(folders) > s.limit {
		folders = folders[:s.limit]
	}

	util.LogDebugf("Folder scan completed: duration %v, %d entries, %d folders", time.Since(start), len(entries), len(folders))
	return folders, nil
}

// Dataset holds the resolved paths of the three logs of a folder.
type Dataset struct {
	Dir   string
	Files map[model.SourceKind]string
}

// Path returns the log path of kind.
func (d Dataset) Path(kind model.SourceKind) string {
	return d.Files[kind]
}

// Paths returns every log path in merge order.
func (d Dataset) Paths() []string {
	paths := make([]string, 0, len(model.SourceKinds))
	for _, kind := range model.SourceKinds {
		paths = append(paths, d.Files[kind])
	}
	return paths
}

// ResolveDataset locates the logs named by sources inside dir. A missing
// folder or file is a load failure.
func ResolveDataset(dir string, sources config.Sources) (Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Dataset{}, fmt.Errorf("%w: %s is not a folder", model.ErrLoadFailed, dir)
	}

	ds := Dataset{Dir: dir, Files: make(map[model.SourceKind]string, len(model.SourceKinds))}
	for _, kind := range model.SourceKinds {
		path := filepath.Join(dir, sources.Get(kind).File)
		if _, err := os.Stat(path); err != nil {
			return Dataset{}, fmt.Errorf("%w: %s log not found: %s", model.ErrLoadFailed, kind, path)
		}
		ds.Files[kind] = path
	}
	return ds, nil
}
