//go:build windows

package windows

import (
	"fmt"
	"os/exec"
)

// FileManagerService implements platform.FileManagerService for Windows.
type FileManagerService struct{}

// NewFileManagerService creates a new Windows file manager service.
func NewFileManagerService() *FileManagerService {
	return &FileManagerService{}
}

// Reveal opens Explorer with the specified file selected.
func (s *FileManagerService) Reveal(path string) error {
	// explorer exits non-zero even on success, so only surface start failures
	cmd := exec.Command("explorer", "/select,"+path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to reveal in Explorer: %w", err)
	}
	return nil
}

// Open opens the file with the default application.
func (s *FileManagerService) Open(path string) error {
	cmd := exec.Command("cmd", "/C", "start", "", path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	return nil
}
