package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp"
	FilePermissions = 0644
)

// FileSlot stores the value in <dir>/<key>.json.
type FileSlot struct {
	path   string
	logger *zap.Logger
}

// NewFileSlot creates the directory if needed.
func NewFileSlot(dir, key string, logger *zap.Logger) (*FileSlot, error) {
	if key == "" {
		return nil, fmt.Errorf("file slot: empty key")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file slot: create directory: %w", err)
	}
	return &FileSlot{
		path:   filepath.Join(dir, key+".json"),
		logger: logger,
	}, nil
}

// Path returns the file holding the value.
func (f *FileSlot) Path() string {
	return f.path
}

func (f *FileSlot) Get(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Set writes a synced temp file, keeps the previous value as .backup and
// renames the temp file into place. The live file is only replaced once the
// new value is on disk.
func (f *FileSlot) Set(_ context.Context, data []byte) error {
	tmpFile := f.path + TmpSuffix
	if err := writeSynced(tmpFile, data); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("write %s: %w", tmpFile, err)
	}

	if err := f.backup(); err != nil {
		f.logger.Warn("failed to create backup", zap.String("path", f.path), zap.Error(err))
	}

	if err := os.Rename(tmpFile, f.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("rename %s: %w", tmpFile, err)
	}
	return nil
}

// backup copies the live file to .backup, leaving the live file untouched.
func (f *FileSlot) backup() error {
	current, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return writeSynced(f.path+BackupSuffix, current)
}

func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePermissions)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Delete removes the value; the last backup is left in place.
func (f *FileSlot) Delete(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}
