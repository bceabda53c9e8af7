package session

import (
	"errors"
	"testing"
)

func startRecording(t *testing.T, s *Session) {
	t.Helper()
	if err := s.StartRequested(); err != nil {
		t.Fatalf("StartRequested() error = %v", err)
	}
	s.DeviceAcquired()
	if s.State() != Recording {
		t.Fatalf("state = %v, want recording", s.State())
	}
}

func TestNewResumePersistedID(t *testing.T) {
	fresh := New(60, "")
	if fresh.ID() == "" {
		t.Error("New() generated no id")
	}

	resumed := New(60, "abc-123")
	if resumed.ID() != "abc-123" {
		t.Errorf("ID() = %q, want persisted id", resumed.ID())
	}
	if resumed.Filename() != "abc-123.webm" {
		t.Errorf("Filename() = %q", resumed.Filename())
	}
}

func TestSingleActiveSession(t *testing.T) {
	s := New(60, "")
	if err := s.StartRequested(); err != nil {
		t.Fatalf("first StartRequested() error = %v", err)
	}
	// A second start while acquisition is pending must be rejected.
	if err := s.StartRequested(); !errors.Is(err, ErrSessionActive) {
		t.Errorf("pending StartRequested() error = %v, want ErrSessionActive", err)
	}
	s.DeviceAcquired()
	if err := s.StartRequested(); !errors.Is(err, ErrSessionActive) {
		t.Errorf("recording StartRequested() error = %v, want ErrSessionActive", err)
	}
}

func TestDeviceDeniedStaysIdle(t *testing.T) {
	s := New(60, "")
	if err := s.StartRequested(); err != nil {
		t.Fatal(err)
	}
	s.DeviceDenied(errors.New("permission denied"))
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if s.Failure() == "" {
		t.Error("Failure() is empty after denial")
	}
	// The session can be started again after a denial.
	if err := s.StartRequested(); err != nil {
		t.Errorf("StartRequested() after denial error = %v", err)
	}
}

func TestCountdown(t *testing.T) {
	s := New(3, "")
	if s.CountdownLabel() != "0:03" {
		t.Errorf("CountdownLabel() = %q, want 0:03", s.CountdownLabel())
	}

	// Ticks before recording must not move the clock.
	if s.Tick() {
		t.Error("Tick() while idle reported expiry")
	}
	if s.SecondsRemaining() != 3 {
		t.Errorf("SecondsRemaining() = %d after idle tick, want 3", s.SecondsRemaining())
	}

	startRecording(t, s)

	prev := s.SecondsRemaining()
	for i := 0; i < 2; i++ {
		if s.Tick() {
			t.Fatalf("Tick() %d reported early expiry", i)
		}
		if got := s.SecondsRemaining(); got != prev-1 {
			t.Fatalf("SecondsRemaining() = %d, want %d", got, prev-1)
		}
		prev--
	}
	if !s.Tick() {
		t.Error("final Tick() did not report expiry")
	}
	if s.CountdownLabel() != "0:00" {
		t.Errorf("CountdownLabel() at expiry = %q", s.CountdownLabel())
	}
	// Further ticks stay at zero rather than going negative.
	s.Tick()
	if s.SecondsRemaining() != 0 {
		t.Errorf("SecondsRemaining() after expiry = %d", s.SecondsRemaining())
	}
}

func TestCountdownLabelFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3600, "60:00"},
		{600, "10:00"},
		{65, "1:05"},
		{9, "0:09"},
	}
	for _, tt := range tests {
		s := New(tt.seconds, "")
		if got := s.CountdownLabel(); got != tt.want {
			t.Errorf("CountdownLabel(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStopAssemblesArtifact(t *testing.T) {
	s := New(60, "")
	startRecording(t, s)

	s.AddChunk([]byte("abc"))
	s.AddChunk([]byte("def"))

	if !s.StopRequested() {
		t.Fatal("StopRequested() = false while recording")
	}
	if s.State() != Uploading {
		t.Errorf("state = %v, want uploading", s.State())
	}
	if string(s.Artifact()) != "abcdef" {
		t.Errorf("Artifact() = %q, want chunks in arrival order", s.Artifact())
	}

	// Stop is idempotent: a second stop is a no-op, not a second upload.
	if s.StopRequested() {
		t.Error("second StopRequested() = true, want no-op")
	}
}

func TestStopWithNoAudioFails(t *testing.T) {
	s := New(60, "")
	startRecording(t, s)

	// Nothing was buffered: an empty artifact must never be uploaded.
	if s.StopRequested() {
		t.Fatal("StopRequested() = true with no buffered audio")
	}
	if s.State() != Failed {
		t.Errorf("state = %v, want failed", s.State())
	}
	if s.Failure() != "recording captured no audio" {
		t.Errorf("Failure() = %q", s.Failure())
	}
	if len(s.Artifact()) != 0 {
		t.Errorf("Artifact() = %q, want none", s.Artifact())
	}
	// There is nothing to retry either.
	if s.RetryUpload() {
		t.Error("RetryUpload() = true with no artifact")
	}
}

func TestZeroLengthChunksAreNoAudio(t *testing.T) {
	s := New(60, "")
	startRecording(t, s)
	s.AddChunk(nil)
	s.AddChunk([]byte{})

	if s.StopRequested() {
		t.Error("StopRequested() = true with only empty chunks")
	}
	if s.State() != Failed {
		t.Errorf("state = %v, want failed", s.State())
	}
}

func TestChunksOutsideRecordingDropped(t *testing.T) {
	s := New(60, "")
	s.AddChunk([]byte("early"))
	startRecording(t, s)
	s.AddChunk([]byte("ok"))
	s.StopRequested()
	s.AddChunk([]byte("late"))

	if string(s.Artifact()) != "ok" {
		t.Errorf("Artifact() = %q, want only in-recording chunks", s.Artifact())
	}
}

func TestUploadFailureRetainsArtifact(t *testing.T) {
	s := New(60, "")
	startRecording(t, s)
	s.AddChunk([]byte("audio"))
	s.StopRequested()

	s.UploadFailed(errors.New("connection refused"))
	if s.State() != Failed {
		t.Fatalf("state = %v, want failed", s.State())
	}
	if len(s.Artifact()) == 0 {
		t.Fatal("artifact dropped on upload failure")
	}

	if !s.RetryUpload() {
		t.Fatal("RetryUpload() = false with artifact present")
	}
	if s.State() != Uploading {
		t.Errorf("state after retry = %v, want uploading", s.State())
	}
}

func TestUploadToTranscription(t *testing.T) {
	auto := New(60, "")
	startRecording(t, auto)
	auto.AddChunk([]byte("a"))
	auto.StopRequested()
	auto.UploadSucceeded(true)
	if auto.State() != Transcribing {
		t.Errorf("auto state = %v, want transcribing", auto.State())
	}

	manual := New(60, "")
	startRecording(t, manual)
	manual.AddChunk([]byte("a"))
	manual.StopRequested()
	manual.UploadSucceeded(false)
	if manual.State() != Uploaded {
		t.Fatalf("manual state = %v, want uploaded", manual.State())
	}
	if !manual.TranscribeRequested() {
		t.Fatal("TranscribeRequested() = false from uploaded")
	}
	if manual.State() != Transcribing {
		t.Errorf("manual state = %v, want transcribing", manual.State())
	}
}

func TestEmptyTranscriptIsFailure(t *testing.T) {
	s := New(60, "")
	startRecording(t, s)
	s.AddChunk([]byte("a"))
	s.StopRequested()
	s.UploadSucceeded(true)

	s.TranscriptReceived("")
	if s.State() != Failed {
		t.Fatalf("state = %v, want failed on empty transcript", s.State())
	}
	if s.Failure() != "transcription returned no text" {
		t.Errorf("Failure() = %q", s.Failure())
	}
}

func reviewableSession(t *testing.T) *Session {
	t.Helper()
	s := New(60, "")
	startRecording(t, s)
	s.AddChunk([]byte("a"))
	s.StopRequested()
	s.UploadSucceeded(true)
	s.TranscriptReceived("I approached the problem by...")
	if s.State() != Reviewable {
		t.Fatalf("state = %v, want reviewable", s.State())
	}
	return s
}

func TestSubmitValidation(t *testing.T) {
	idle := New(60, "")
	if err := idle.SubmitRequested("a@b.com"); !errors.Is(err, ErrNotReviewable) {
		t.Errorf("idle SubmitRequested() error = %v, want ErrNotReviewable", err)
	}

	s := reviewableSession(t)
	if err := s.SubmitRequested(""); !errors.Is(err, ErrMissingEmail) {
		t.Errorf("SubmitRequested(no email) error = %v, want ErrMissingEmail", err)
	}

	if err := s.SubmitRequested("a@b.com"); err != nil {
		t.Fatalf("SubmitRequested() error = %v", err)
	}
	// Only one submission may be outstanding.
	if err := s.SubmitRequested("a@b.com"); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second SubmitRequested() error = %v, want ErrSubmitInFlight", err)
	}
}

func TestSubmitOutcomes(t *testing.T) {
	s := reviewableSession(t)
	if err := s.SubmitRequested("a@b.com"); err != nil {
		t.Fatal(err)
	}
	s.SubmitFailed(errors.New("server unreachable"))
	if s.State() != Reviewable {
		t.Errorf("state after failed submit = %v, want reviewable", s.State())
	}
	if s.SubmitInFlight() {
		t.Error("SubmitInFlight() still true after failure")
	}

	// The user can retry without re-recording.
	if err := s.SubmitRequested("a@b.com"); err != nil {
		t.Fatalf("retry SubmitRequested() error = %v", err)
	}
	s.SubmitSucceeded()
	if s.State() != Submitted {
		t.Errorf("state = %v, want submitted", s.State())
	}
	if len(s.Artifact()) != 0 {
		t.Error("artifact retained after successful submission")
	}
}
