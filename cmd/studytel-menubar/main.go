//go:build darwin

package main

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

// AppKit calls must run on the main thread
static void ensureMainThread() {
    if (![NSThread isMainThread]) {
        dispatch_sync(dispatch_get_main_queue(), ^{});
    }
}
*/
import "C"

import (
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/aayushbajaj/study-telemetry/internal/config"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/menubar"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
	"github.com/aayushbajaj/study-telemetry/internal/tui"
)

func init() {
	// macOS UI must stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	C.ensureMainThread()

	// Ensure HOME is set (needed when launched via launchctl/open)
	if os.Getenv("HOME") == "" {
		if u, err := user.Current(); err == nil {
			os.Setenv("HOME", u.HomeDir)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.NewFileOnly(cfg.Log.Mode, cfg.Log.Level, filepath.Join(cfg.LogDir(), "menubar.log"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting studytel menu bar app", "db", cfg.DBPath)

	thresholds, err := cfg.Heatmap.Thresholds()
	if err != nil {
		log.Fatal("Invalid heatmap levels", "error", err)
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer store.Close()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down...")
		store.Close()
		log.Sync()
		os.Exit(0)
	}()

	tui.SetTheme(cfg.UI.Theme)
	app := menubar.New(store, thresholds, log, filepath.Join(cfg.DataDir, "heatmap.html"), tui.CurrentTheme.Levels)

	// blocks on the macOS event loop
	app.Run()
}
