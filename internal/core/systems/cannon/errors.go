package cannon

import "errors"

// Rig errors
var (
	ErrInvalidConfig  = errors.New("invalid rig configuration")
	ErrInvalidCommand = errors.New("invalid command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrSpawnFailed    = errors.New("failed to spawn round")
)
