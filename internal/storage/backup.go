package storage

import (
	"context"
	"fmt"
)

const (
	// BackupSuffix separates a key from its backup generation
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backups to keep per key
	MaxBackupCount = 3
)

// BackupKey returns the key holding generation n of key.
// Lower numbers are more recent (e.g., .bak.1 is the most recent backup).
func BackupKey(key string, n int) string {
	return fmt.Sprintf("%s%s.%d", key, BackupSuffix, n)
}

// rotateBackups shifts existing backups to make room for a new one:
// .bak.2 -> .bak.3, .bak.1 -> .bak.2. The oldest generation is dropped.
func rotateBackups(ctx context.Context, b Backend, key string) error {
	if err := b.Delete(ctx, BackupKey(key, MaxBackupCount)); err != nil {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		value, found, err := b.Get(ctx, BackupKey(key, i))
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := b.Set(ctx, BackupKey(key, i+1), value); err != nil {
			return err
		}
		if err := b.Delete(ctx, BackupKey(key, i)); err != nil {
			return err
		}
	}

	return nil
}

// CreateBackup copies the current value of key to .bak.1 after rotating older
// backups. If key has no value, no backup is created and no error is returned.
func CreateBackup(ctx context.Context, b Backend, key string) error {
	value, found, err := b.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if err := rotateBackups(ctx, b, key); err != nil {
		return err
	}
	return b.Set(ctx, BackupKey(key, 1), value)
}

// BackupInfo contains information about a backup generation
type BackupInfo struct {
	Number int    // The backup number (1, 2, or 3)
	Key    string // The key the backup belongs to
	Size   int    // Length of the stored blob in bytes
}

// ListBackups returns available backups of key sorted by recency.
// Returns an empty slice if no backups exist.
func ListBackups(ctx context.Context, b Backend, key string) ([]BackupInfo, error) {
	backups := []BackupInfo{}

	for i := 1; i <= MaxBackupCount; i++ {
		value, found, err := b.Get(ctx, BackupKey(key, i))
		if err != nil {
			return nil, err
		}
		if found {
			backups = append(backups, BackupInfo{Number: i, Key: key, Size: len(value)})
		}
	}

	return backups, nil
}

// RestoreBackup writes generation n back to key and returns the restored blob.
// The current value is backed up first; because that rotation shifts
// generations, the requested blob is read before anything is written.
func RestoreBackup(ctx context.Context, b Backend, key string, n int) (string, error) {
	if n < 1 || n > MaxBackupCount {
		return "", fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}

	value, found, err := b.Get(ctx, BackupKey(key, n))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("backup %d of %s does not exist", n, key)
	}

	if err := CreateBackup(ctx, b, key); err != nil {
		return "", err
	}
	if err := b.Set(ctx, key, value); err != nil {
		return "", err
	}
	return value, nil
}
