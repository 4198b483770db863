package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"mindmark/internal/model"
)

// FileExtension is appended by FileSave when the name has none.
const FileExtension = ".mmd"

// FileSave writes the text form of m to filename, replacing it atomically.
// It returns the name actually written.
func FileSave(m *model.MindMap, filename string) (string, error) {
	if filepath.Ext(filename) == "" {
		filename += FileExtension
	}
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mindmark-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := m.WriteTo(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return filename, nil
}

// FileLoad parses the mind map stored in filename.
func FileLoad(filename string, opts ...model.Option) (*model.MindMap, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := model.FromText(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return m, nil
}
