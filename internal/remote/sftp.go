package remote

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

const defaultDialTimeout = 15 * time.Second

// SFTPConfig holds the connection settings for the remote SFTP store
type SFTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	KeyFile  string
}

// SFTPStore keeps the remote ledger copy on an SFTP server. Each operation
// dials a fresh short-lived connection; host keys are not verified.
type SFTPStore struct {
	cfg    SFTPConfig
	logger *zap.Logger
}

// NewSFTPStore creates an SFTP-backed remote store
func NewSFTPStore(cfg SFTPConfig, logger *zap.Logger) *SFTPStore {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	return &SFTPStore{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *SFTPStore) connect() (*ssh.Client, *sftp.Client, error) {
	var auth []ssh.AuthMethod
	if s.cfg.KeyFile != "" {
		key, err := os.ReadFile(s.cfg.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if s.cfg.Password != "" {
		auth = append(auth, ssh.Password(s.cfg.Password))
	}

	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         defaultDialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("failed to open sftp session: %w", err)
	}

	return sshClient, sftpClient, nil
}

// Fetch downloads the remote ledger copy to localPath
func (s *SFTPStore) Fetch(remotePath, localPath string) bool {
	sshClient, sftpClient, err := s.connect()
	if err != nil {
		s.logger.Warn("Failed to reach remote store",
			zap.String("host", s.cfg.Host),
			zap.Error(err))
		return false
	}
	defer sshClient.Close()
	defer sftpClient.Close()

	src, err := sftpClient.Open(remotePath)
	if err != nil {
		s.logger.Warn("Failed to open remote ledger",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		s.logger.Warn("Failed to create local mirror",
			zap.String("local_path", localPath),
			zap.Error(err))
		return false
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.logger.Warn("Failed to download remote ledger",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}

	s.logger.Debug("Remote ledger fetched",
		zap.String("remote_path", remotePath),
		zap.String("local_path", localPath))
	return true
}

// Push uploads the local ledger to the remote store
func (s *SFTPStore) Push(localPath, remotePath string) bool {
	sshClient, sftpClient, err := s.connect()
	if err != nil {
		s.logger.Warn("Failed to reach remote store",
			zap.String("host", s.cfg.Host),
			zap.Error(err))
		return false
	}
	defer sshClient.Close()
	defer sftpClient.Close()

	src, err := os.Open(localPath)
	if err != nil {
		s.logger.Warn("Failed to open local ledger",
			zap.String("local_path", localPath),
			zap.Error(err))
		return false
	}
	defer src.Close()

	dst, err := sftpClient.Create(remotePath)
	if err != nil {
		s.logger.Warn("Failed to create remote ledger",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.logger.Warn("Failed to upload ledger",
			zap.String("remote_path", remotePath),
			zap.Error(err))
		return false
	}

	s.logger.Debug("Ledger pushed",
		zap.String("local_path", localPath),
		zap.String("remote_path", remotePath))
	return true
}
