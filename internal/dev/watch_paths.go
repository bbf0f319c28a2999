package dev

import (
	"path/filepath"
	"strings"

	"github.com/strata-dev/strata/internal/config"
)

// CollectWatchPaths returns a normalized list of watch paths for the
// project. Remote manifests (s3://) cannot be watched and are skipped.
func CollectWatchPaths(cfg *config.Config) []string {
	var paths []string

	if p := cfg.ManifestPath(); p != "" && !strings.HasPrefix(p, "s3://") {
		paths = append(paths, p)
	}
	if p := cfg.Path(); p != "" {
		paths = append(paths, p)
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}
