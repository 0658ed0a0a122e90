package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one PDF file found by ScanDirectory.
type FileInfo struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
}

// ScanDirectory lists the valid PDF files directly inside dir, sorted by
// name. Files failing the validator's metadata checks are skipped.
func (v *Validator) ScanDirectory(dir string) ([]FileInfo, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if err := v.validateFileInfo(path, info); err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:     path,
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
