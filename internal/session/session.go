// Package session implements the candidate-side recording session as an
// explicit state machine. Methods are the discrete events of the
// lifecycle; all I/O (device, network, clock) happens outside and feeds
// results back in, so the whole lifecycle is testable without a real
// capture device or server.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// State is the lifecycle position of a recording session.
type State int

const (
	// Idle means no capture has started.
	Idle State = iota
	// Recording means the device is acquired and chunks are buffering.
	Recording
	// Uploading means the recording stopped and the artifact is in flight.
	Uploading
	// Uploaded means the artifact is stored server-side and a manual
	// transcribe trigger is being waited on.
	Uploaded
	// Transcribing means a transcription request is in flight.
	Transcribing
	// Reviewable means the transcript is available for review and
	// reflection entry.
	Reviewable
	// Submitted is terminal: transcript plus reflection are stored.
	Submitted
	// Failed is absorbing for upload and transcription failures; the
	// artifact is retained so the user can retry.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Uploading:
		return "uploading"
	case Uploaded:
		return "uploaded"
	case Transcribing:
		return "transcribing"
	case Reviewable:
		return "reviewable"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultBudgetSeconds is the recording time budget: one hour.
const DefaultBudgetSeconds = 3600

var (
	// ErrSessionActive is returned when a start is requested while a
	// session is already recording or a device acquisition is pending.
	ErrSessionActive = errors.New("a recording session is already active")
	// ErrMissingEmail rejects submission without an email, locally,
	// before any request is issued.
	ErrMissingEmail = errors.New("email is required before submitting")
	// ErrMissingTranscript rejects submission without transcript text.
	ErrMissingTranscript = errors.New("transcript is empty; nothing to submit")
	// ErrNotReviewable rejects submission outside the reviewable state.
	ErrNotReviewable = errors.New("no reviewed transcript to submit")
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Session is one candidate recording attempt from start to submission.
type Session struct {
	id               string
	state            State
	budget           int
	secondsRemaining int

	acquiring bool
	chunks    [][]byte
	artifact  []byte

	transcript string
	failure    string

	submitInFlight bool
}

// New creates an idle session. A persisted id from a previous run may be
// passed to resume its identity; otherwise a fresh one is generated.
func New(budgetSeconds int, persistedID string) *Session {
	if budgetSeconds <= 0 {
		budgetSeconds = DefaultBudgetSeconds
	}
	id := persistedID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:               id,
		state:            Idle,
		budget:           budgetSeconds,
		secondsRemaining: budgetSeconds,
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) State() State          { return s.state }
func (s *Session) SecondsRemaining() int { return s.secondsRemaining }
func (s *Session) Transcript() string    { return s.transcript }
func (s *Session) Failure() string       { return s.failure }
func (s *Session) SubmitInFlight() bool  { return s.submitInFlight }
func (s *Session) AcquiringDevice() bool { return s.acquiring }

// Filename is the upload name derived from the session id.
func (s *Session) Filename() string {
	return s.id + ".webm"
}

// Artifact returns the concatenated recording, available from the stop
// event onward. It is retained across upload failures for retry.
func (s *Session) Artifact() []byte {
	return s.artifact
}

// StartRequested begins device acquisition. Only one acquisition may be
// outstanding, and only one session may be active at a time.
func (s *Session) StartRequested() error {
	if s.acquiring || s.state != Idle {
		return ErrSessionActive
	}
	s.acquiring = true
	return nil
}

// DeviceAcquired moves into recording: the countdown starts from the
// full budget and chunks buffer in arrival order.
func (s *Session) DeviceAcquired() {
	if !s.acquiring {
		return
	}
	s.acquiring = false
	s.state = Recording
	s.secondsRemaining = s.budget
	s.chunks = nil
	s.failure = ""
}

// DeviceDenied keeps the session idle; no state is created for a
// capture that never acquired a device.
func (s *Session) DeviceDenied(err error) {
	s.acquiring = false
	s.state = Idle
	s.failure = fmt.Sprintf("capture device unavailable: %v", err)
}

// Tick decrements the countdown by one second. It only moves while
// recording and reports whether the budget just expired; expiry must be
// answered with StopRequested, not merely a frozen display.
func (s *Session) Tick() (expired bool) {
	if s.state != Recording {
		return false
	}
	if s.secondsRemaining > 0 {
		s.secondsRemaining--
	}
	return s.secondsRemaining == 0
}

// CountdownLabel formats the remaining time as minutes:seconds.
func (s *Session) CountdownLabel() string {
	return fmt.Sprintf("%d:%02d", s.secondsRemaining/60, s.secondsRemaining%60)
}

// AddChunk buffers one captured audio chunk. Chunks arriving outside the
// recording state (a stale device callback) are dropped.
func (s *Session) AddChunk(chunk []byte) {
	if s.state != Recording || len(chunk) == 0 {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
}

// StopRequested ends capture and assembles the artifact. Stopping when
// not recording is a no-op, not an error. A capture that buffered no
// audio fails here; an empty artifact must never be uploaded. The
// return value reports whether an upload should now be issued.
func (s *Session) StopRequested() bool {
	if s.state != Recording {
		return false
	}
	var size int
	for _, c := range s.chunks {
		size += len(c)
	}
	if size == 0 {
		s.chunks = nil
		s.state = Failed
		s.failure = "recording captured no audio"
		return false
	}
	s.artifact = make([]byte, 0, size)
	for _, c := range s.chunks {
		s.artifact = append(s.artifact, c...)
	}
	s.chunks = nil
	s.state = Uploading
	return true
}

// UploadSucceeded records a stored artifact. With autoTranscribe the
// session goes straight to transcribing; otherwise it waits in Uploaded
// for a manual transcribe trigger.
func (s *Session) UploadSucceeded(autoTranscribe bool) {
	if s.state != Uploading {
		return
	}
	if autoTranscribe {
		s.state = Transcribing
	} else {
		s.state = Uploaded
	}
}

// UploadFailed absorbs into Failed, keeping the artifact for retry.
func (s *Session) UploadFailed(err error) {
	s.state = Failed
	s.failure = fmt.Sprintf("upload failed: %v", err)
}

// RetryUpload re-enters Uploading from a failed upload, provided the
// artifact survived.
func (s *Session) RetryUpload() bool {
	if s.state != Failed || len(s.artifact) == 0 {
		return false
	}
	s.state = Uploading
	s.failure = ""
	return true
}

// TranscribeRequested moves a manually-triggered session from Uploaded
// into Transcribing.
func (s *Session) TranscribeRequested() bool {
	if s.state != Uploaded {
		return false
	}
	s.state = Transcribing
	return true
}

// TranscriptReceived exposes the transcript for review. An empty
// transcript is a failure with a message distinct from transport errors.
func (s *Session) TranscriptReceived(text string) {
	if s.state != Transcribing {
		return
	}
	if text == "" {
		s.state = Failed
		s.failure = "transcription returned no text"
		return
	}
	s.transcript = text
	s.state = Reviewable
}

// TranscribeFailed absorbs into Failed with a transcription-specific
// message.
func (s *Session) TranscribeFailed(err error) {
	s.state = Failed
	s.failure = fmt.Sprintf("transcription failed: %v", err)
}

// SubmitRequested validates a submission locally. On nil return the
// caller must issue exactly one submit request and report the result via
// SubmitSucceeded or SubmitFailed; until then further submits are
// rejected.
func (s *Session) SubmitRequested(email string) error {
	if s.state != Reviewable {
		return ErrNotReviewable
	}
	if s.submitInFlight {
		return ErrSubmitInFlight
	}
	if email == "" {
		return ErrMissingEmail
	}
	if s.transcript == "" {
		return ErrMissingTranscript
	}
	s.submitInFlight = true
	return nil
}

// SubmitSucceeded is terminal. The caller is responsible for clearing
// the persisted session id so a stale tab cannot resubmit.
func (s *Session) SubmitSucceeded() {
	s.submitInFlight = false
	s.state = Submitted
	s.artifact = nil
}

// SubmitFailed keeps the session reviewable so the user can retry
// without re-recording.
func (s *Session) SubmitFailed(err error) {
	s.submitInFlight = false
	s.failure = fmt.Sprintf("submission failed: %v", err)
}
