package app

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweap/internal/mines"
)

const (
	gameLogMaxSizeMB  = 10
	gameLogMaxBackups = 5
	gameLogMaxAgeDays = 28
)

// setupGameLog configures the engine logger. Finished games are logged at
// Info, so the rotated file keeps a record of every game played.
func setupGameLog(filename string, development bool) error {
	level := logrus.InfoLevel
	if development {
		level = logrus.DebugLevel
	}
	mines.Log.SetLevel(level)
	mines.Log.SetFormatter(&logrus.TextFormatter{ForceColors: development})

	if filename == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   filename,
		MaxSize:    gameLogMaxSizeMB,
		MaxBackups: gameLogMaxBackups,
		MaxAge:     gameLogMaxAgeDays,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open game log %s: %w", filename, err)
	}
	mines.Log.AddHook(hook)
	return nil
}
