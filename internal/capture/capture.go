// Package capture abstracts the microphone input source feeding a
// recording session.
package capture

import (
	"context"
	"errors"
)

// ErrAlreadyRecording is returned when Start is called on a recorder
// that is already capturing.
var ErrAlreadyRecording = errors.New("recorder is already capturing")

// Recorder acquires an audio capture device and delivers encoded chunks
// in arrival order. Stop must always be reachable and idempotent:
// stopping an already-stopped recorder is a no-op, not an error.
type Recorder interface {
	// Start acquires the device and begins delivering chunks to onChunk
	// until Stop is called or ctx is cancelled. Acquisition failures
	// (permission denied, no device) are returned before any chunk is
	// delivered.
	Start(ctx context.Context, onChunk func([]byte)) error
	// Stop releases the device. Safe to call multiple times.
	Stop() error
}

// DeviceInfo describes an available capture device.
type DeviceInfo struct {
	Index int
	Name  string
	ID    string
}
