//go:build linux

package linux

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

// FileManagerService implements platform.FileManagerService for Linux.
type FileManagerService struct{}

// NewFileManagerService creates a new Linux file manager service.
func NewFileManagerService() *FileManagerService {
	return &FileManagerService{}
}

// Reveal opens the file manager on the directory containing the path.
func (s *FileManagerService) Reveal(path string) error {
	cmd := exec.Command("xdg-open", filepath.Dir(path))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to reveal file: %w (output: %s)", err, string(output))
	}
	return nil
}

// Open opens the file with the default application.
func (s *FileManagerService) Open(path string) error {
	cmd := exec.Command("xdg-open", path)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to open file: %w (output: %s)", err, string(output))
	}
	return nil
}
