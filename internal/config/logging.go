package config

import "os"

// GameLogFile is where the engine log is rotated to; empty keeps it on
// stderr.
func GameLogFile() string {
	return os.Getenv("GAME_LOG_FILE")
}
