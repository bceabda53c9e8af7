package interview

// Messages feeding the interview model. Each corresponds to one
// suspension point of the capture session lifecycle.

// deviceAcquiredMsg reports a successful capture device acquisition.
type deviceAcquiredMsg struct{}

// deviceErrMsg reports a failed acquisition; no session state exists.
type deviceErrMsg struct{ err error }

// chunkMsg delivers one buffered audio chunk from the recorder.
type chunkMsg struct{ data []byte }

// tickMsg drives the one-second countdown.
type tickMsg struct{}

// uploadDoneMsg reports the upload outcome.
type uploadDoneMsg struct{ err error }

// transcriptDoneMsg reports the transcription outcome.
type transcriptDoneMsg struct {
	text string
	err  error
}

// submitDoneMsg reports the submission outcome.
type submitDoneMsg struct{ err error }

// duplicateWarnMsg reports whether this machine already submitted for
// the configured email.
type duplicateWarnMsg struct{ dup bool }
