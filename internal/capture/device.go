package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// DeviceRecorder captures from the default system microphone via malgo.
type DeviceRecorder struct {
	sampleRate uint32
	channels   uint32

	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	done    chan struct{}
	running bool
}

// NewDeviceRecorder creates a microphone recorder. Zero values fall back
// to 16 kHz mono, which is plenty for speech transcription.
func NewDeviceRecorder(sampleRate, channels uint32) *DeviceRecorder {
	if sampleRate == 0 {
		sampleRate = 16000
	}
	if channels == 0 {
		channels = 1
	}
	return &DeviceRecorder{sampleRate: sampleRate, channels: channels}
}

// ListDevices returns the available audio capture devices.
func ListDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, DeviceInfo{
			Index: i,
			Name:  info.Name(),
			ID:    info.ID.String(),
		})
	}
	return devices, nil
}

// Start acquires the default capture device and streams PCM chunks to
// onChunk from the device callback until Stop.
func (r *DeviceRecorder) Start(ctx context.Context, onChunk func([]byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRecording
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = r.channels
	deviceConfig.SampleRate = r.sampleRate
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			if len(input) > 0 {
				onChunk(input)
			}
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return fmt.Errorf("failed to acquire capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	r.ctx = malgoCtx
	r.device = device
	r.done = make(chan struct{})
	r.running = true

	// Release the device if the surrounding workflow is cancelled. Stop
	// closes done so the watcher exits even on a background context.
	go r.watchCancel(ctx, r.done)

	return nil
}

func (r *DeviceRecorder) watchCancel(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		_ = r.Stop()
	case <-done:
	}
}

// Stop releases the device and context. Idempotent.
func (r *DeviceRecorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}
	r.running = false

	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}
	if r.ctx != nil {
		_ = r.ctx.Uninit()
		r.ctx.Free()
		r.ctx = nil
	}
	return nil
}
