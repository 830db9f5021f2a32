package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/database"
	"github.com/naebak/admin-service/internal/logger"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/server"
	"github.com/naebak/admin-service/internal/services"
	"github.com/naebak/admin-service/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to stdout and a rotated file next to the database.
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "naebak-admin.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "unlock-account" {
		if len(os.Args) != 3 {
			log.Fatalf("Usage: %s unlock-account <username>", os.Args[0])
		}
		unlockAccount(cfg, os.Args[2])
		return
	}

	logger.Log().Infof("starting %s version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("setup server: %v", err)
	}

	scheduler := cron.New()
	backups := services.NewBackupService(cfg.DatabasePath, cfg.BackupDir, cfg.BackupRetention)
	if _, err := scheduler.AddFunc(cfg.BackupSchedule, backups.Run); err != nil {
		log.Fatalf("schedule backups: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// unlockAccount clears the lockout state from the command line, for when an
// operator has locked themselves out.
func unlockAccount(cfg config.Config, username string) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	var acct models.Account
	if err := db.Where("username = ?", username).First(&acct).Error; err != nil {
		log.Fatalf("account not found: %v", err)
	}

	err = db.Model(&acct).UpdateColumns(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
	}).Error
	if err != nil {
		log.Fatalf("failed to unlock account: %v", err)
	}

	log.Printf("Account %s unlocked", username)
}
