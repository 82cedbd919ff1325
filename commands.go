package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roadmetrics/traffic.report/internal/detect"
	"github.com/roadmetrics/traffic.report/internal/pipeline"
)

// runProcess expands the path arguments into detection log files and
// fans them out across the worker pool.
func runProcess(ctx context.Context, runner *pipeline.Runner, args []string, workers int) error {
	if len(args) == 0 {
		return fmt.Errorf("process: no paths given")
	}

	paths, err := expandLogPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("process: no %s files found", detect.FileExtension)
	}

	log.Printf("processing %d clips with %d workers", len(paths), workers)
	pool := &pipeline.Pool{Runner: runner, Workers: workers}
	return pool.Run(ctx, paths)
}

// expandLogPaths resolves a mix of files and directories into a sorted
// list of detection log files. Directories are read one level deep.
func expandLogPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("process: %w", err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("process: read %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), detect.FileExtension) {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
