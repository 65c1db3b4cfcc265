package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/pool"
	"github.com/ptt-dev/ptt/internal/storage"
)

const (
	// EntriesExportName is the file name of the exported entry store
	EntriesExportName = "MetaDataProjectTime.txt"
	// PoolsExportName is the file name of the exported pool store
	PoolsExportName = "MetaDataDailyTimePools.txt"
)

// ErrNoRecognizedFiles is returned when an import selection holds neither
// export file.
var ErrNoRecognizedFiles = fmt.Errorf("no valid files found, expected %s or %s", EntriesExportName, PoolsExportName)

// Import replaces the stores from exported files. paths may name the files
// themselves or directories holding them; other files are ignored. Each
// recognized file with non-blank content replaces its store wholesale. An
// empty selection changes nothing.
func (t *Tracker) Import(ctx context.Context, paths []string) (ImportResult, error) {
	var result ImportResult
	if len(paths) == 0 {
		return result, nil
	}

	entriesPath, poolsPath, err := recognize(paths)
	if err != nil {
		return result, err
	}
	if entriesPath == "" && poolsPath == "" {
		return result, ErrNoRecognizedFiles
	}

	t.warnings = nil

	if entriesPath != "" {
		content, err := os.ReadFile(entriesPath)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", entriesPath, err)
		}
		if strings.TrimSpace(string(content)) != "" {
			parsed := entry.Parse(string(content))
			t.backup(ctx, storage.EntriesKey)
			t.entries.Replace(parsed.Entries)
			t.persistEntries(ctx)
			t.collect(entriesPath, parsed.Warnings)
			result.EntriesFile = entriesPath
			result.Entries = len(parsed.Entries)
		}
	}

	if poolsPath != "" {
		content, err := os.ReadFile(poolsPath)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", poolsPath, err)
		}
		if strings.TrimSpace(string(content)) != "" {
			parsed := pool.Parse(string(content))
			t.backup(ctx, storage.PoolsKey)
			t.pools.Replace(parsed.Pools)
			t.persistPools(ctx)
			t.collect(poolsPath, parsed.Warnings)
			result.PoolsFile = poolsPath
			result.Pools = len(parsed.Pools)
		}
	}

	result.Warnings = t.Warnings()
	t.logger.Info("import finished", "entries_file", result.EntriesFile, "pools_file", result.PoolsFile,
		"entries", result.Entries, "pools", result.Pools)
	return result, nil
}

// recognize picks the export files out of paths. Directories are searched
// one level deep. When a name occurs more than once the last one wins.
func recognize(paths []string) (entriesPath, poolsPath string, err error) {
	match := func(path string) {
		switch filepath.Base(path) {
		case EntriesExportName:
			entriesPath = path
		case PoolsExportName:
			poolsPath = path
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", "", err
		}
		if !info.IsDir() {
			match(p)
			continue
		}
		for _, name := range []string{EntriesExportName, PoolsExportName} {
			candidate := filepath.Join(p, name)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				match(candidate)
			}
		}
	}
	return entriesPath, poolsPath, nil
}

// Export writes both stores as text files into dir and returns their paths.
func (t *Tracker) Export(ctx context.Context, dir string) ([]string, error) {
	out, err := storage.NewFileBackend(dir)
	if err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{EntriesExportName, entry.Format(t.entries.Entries())},
		{PoolsExportName, pool.Format(t.pools.Pools())},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		key := strings.TrimSuffix(f.name, storage.FileSuffix)
		if err := out.Set(ctx, key, f.content); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, out.Path(key))
	}

	t.logger.Info("export finished", "dir", dir)
	return written, nil
}
