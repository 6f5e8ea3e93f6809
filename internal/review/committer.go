package review

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Committer performs the filesystem rename for an approved item. Each
// commit is an independent single-entry rename; there is no batch
// transaction and no atomicity beyond what the filesystem gives.
type Committer struct {
	logger *zap.Logger
}

// NewCommitter creates a new Committer
func NewCommitter(logger *zap.Logger) *Committer {
	return &Committer{logger: logger}
}

// Commit renames oldName to newName inside folderPath. All failures are
// captured in the outcome; the call never panics or returns an error.
func (c *Committer) Commit(ctx context.Context, folderPath, oldName, newName string) RenameOutcome {
	oldPath, err := entryPath(folderPath, oldName)
	if err != nil {
		return RenameOutcome{ErrorMessage: err.Error()}
	}
	newPath, err := entryPath(folderPath, newName)
	if err != nil {
		return RenameOutcome{ErrorMessage: err.Error()}
	}

	// os.Rename silently replaces an existing target on most systems;
	// refuse instead, since the derived name may collide.
	if _, err := os.Stat(newPath); err == nil {
		c.logger.Warn("Rename target already exists",
			zap.String("folder", folderPath),
			zap.String("new_name", newName))
		return RenameOutcome{ErrorMessage: fmt.Sprintf("target already exists: %s", newName)}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		c.logger.Error("Rename failed",
			zap.String("folder", folderPath),
			zap.String("old_name", oldName),
			zap.String("new_name", newName),
			zap.Error(err))
		return RenameOutcome{ErrorMessage: err.Error()}
	}

	c.logger.Info("File renamed",
		zap.String("folder", folderPath),
		zap.String("old_name", oldName),
		zap.String("new_name", newName))
	return RenameOutcome{Success: true}
}

// entryPath joins name into folder, rejecting anything that is not a
// plain entry name so a crafted name cannot escape the folder.
func entryPath(folder, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filepath.Join(folder, name), nil
}
