package capture

import (
	"context"
	"sync"
)

// FakeRecorder is a scripted Recorder for tests and for exercising the
// interview flow on machines without a microphone. It delivers its
// configured chunks immediately on Start.
type FakeRecorder struct {
	// Chunks are delivered in order on Start.
	Chunks [][]byte
	// StartErr, when set, simulates a device acquisition failure.
	StartErr error

	mu         sync.Mutex
	running    bool
	StartCalls int
	StopCalls  int
}

func (f *FakeRecorder) Start(_ context.Context, onChunk func([]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.StartCalls++
	if f.StartErr != nil {
		return f.StartErr
	}
	if f.running {
		return ErrAlreadyRecording
	}
	f.running = true
	for _, c := range f.Chunks {
		onChunk(c)
	}
	return nil
}

func (f *FakeRecorder) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.StopCalls++
	f.running = false
	return nil
}

// Recording reports whether the fake is between Start and Stop.
func (f *FakeRecorder) Recording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}
