package remote

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DirStore keeps the remote ledger copy in a plain directory, e.g. a mounted
// network share. It also backs the sync tests.
type DirStore struct {
	root   string
	logger *zap.Logger
}

// NewDirStore creates a directory-backed remote store rooted at root
func NewDirStore(root string, logger *zap.Logger) *DirStore {
	return &DirStore{
		root:   root,
		logger: logger,
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Fetch copies the remote file into localPath
func (s *DirStore) Fetch(remotePath, localPath string) bool {
	if err := copyFile(filepath.Join(s.root, remotePath), localPath); err != nil {
		s.logger.Warn("Failed to fetch from directory store",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}
	return true
}

// Push copies localPath into the store directory
func (s *DirStore) Push(localPath, remotePath string) bool {
	if err := copyFile(localPath, filepath.Join(s.root, remotePath)); err != nil {
		s.logger.Warn("Failed to push to directory store",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}
	return true
}
