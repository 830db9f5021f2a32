package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/naebak/admin-service/internal/logger"
)

// BackupService copies the SQLite database file into a backup directory and
// prunes old copies. Backups are operational copies for disaster recovery;
// they are unrelated to the append-only contract of the activity log.
type BackupService struct {
	dbPath    string
	dir       string
	retention int
}

// NewBackupService returns a BackupService writing into dir and keeping at
// most retention backup files.
func NewBackupService(dbPath, dir string, retention int) *BackupService {
	return &BackupService{dbPath: dbPath, dir: dir, retention: retention}
}

// BackupInfo describes one backup file on disk.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Create copies the database file to a timestamped backup and prunes old
// files past the retention limit.
func (s *BackupService) Create() (*BackupInfo, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure backup directory: %w", err)
	}

	name := fmt.Sprintf("naebak-admin-%s.db", time.Now().UTC().Format("20060102-150405"))
	dst := filepath.Join(s.dir, name)

	if err := copyFile(s.dbPath, dst); err != nil {
		return nil, fmt.Errorf("copy database: %w", err)
	}

	if err := s.prune(); err != nil {
		logger.Log().WithError(err).Warn("failed to prune old backups")
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, err
	}
	return &BackupInfo{Filename: name, SizeBytes: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List returns available backups, newest first.
func (s *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  e.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Run executes one scheduled backup, logging the outcome. Used as the cron
// callback.
func (s *BackupService) Run() {
	info, err := s.Create()
	if err != nil {
		logger.Log().WithError(err).Error("scheduled backup failed")
		return
	}
	logger.WithFields(map[string]interface{}{
		"filename": info.Filename,
		"size":     info.SizeBytes,
	}).Info("scheduled backup completed")
}

func (s *BackupService) prune() error {
	if s.retention <= 0 {
		return nil
	}
	backups, err := s.List()
	if err != nil {
		return err
	}
	for i := s.retention; i < len(backups); i++ {
		if err := os.Remove(filepath.Join(s.dir, backups[i].Filename)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
