package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/page-composer/internal/asset"
)

// collectImages expands files and folders into a de-duplicated queue of
// supported images. Folders are listed non-recursively unless recursive is set.
func collectImages(paths []string, recursive bool) (*asset.Queue, error) {
	queue := asset.NewQueue()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}

		if !info.IsDir() {
			if !asset.IsSupported(p) {
				fmt.Printf("Skipping unsupported file: %s\n", p)
				continue
			}
			queue.Add(p)
			continue
		}

		if recursive {
			err := filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && asset.IsSupported(d.Name()) {
					queue.Add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("cannot walk folder %s: %w", p, err)
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read folder %s: %w", p, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && asset.IsSupported(entry.Name()) {
				queue.Add(filepath.Join(p, entry.Name()))
			}
		}
	}
	return queue, nil
}
