package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a SkillScope server. All endpoints follow the same
// shape: JSON in and out, with a success flag discriminating domain
// failures from real results. Errors are either *TransportError or
// *DomainError so callers can keep the two failure classes apart.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UploadAudio posts a recorded audio artifact as multipart form data.
func (c *Client) UploadAudio(ctx context.Context, filename string, audio []byte) error {
	const op = "upload-audio"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if _, err := part.Write(audio); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if err := mw.WriteField("filename", filename); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload-audio", &buf)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.do(op, req, &out); err != nil {
		return err
	}
	if !out.Success {
		return &DomainError{Op: op, Message: nonEmpty(out.Error, "upload rejected")}
	}
	return nil
}

// Transcribe requests the transcript for an uploaded audio file.
func (c *Client) Transcribe(ctx context.Context, filename string) (string, error) {
	const op = "transcribe"

	var out struct {
		Success    bool   `json:"success"`
		Transcript string `json:"transcript"`
		Error      string `json:"error"`
	}
	payload := map[string]string{"filename": filename}
	if err := c.postJSON(ctx, op, "/transcribe", payload, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", &DomainError{Op: op, Message: nonEmpty(out.Error, "transcription failed")}
	}
	return out.Transcript, nil
}

// SubmitTranscript posts a reviewed transcript plus reflection.
func (c *Client) SubmitTranscript(ctx context.Context, sub Submission) error {
	const op = "submit-transcript"

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postJSON(ctx, op, "/submit-transcript", sub, &out); err != nil {
		return err
	}
	if !out.Success {
		return &DomainError{Op: op, Message: nonEmpty(out.Error, "submission rejected")}
	}
	return nil
}

// ListTranscripts fetches all server-held transcript records.
func (c *Client) ListTranscripts(ctx context.Context) ([]TranscriptRecord, error) {
	const op = "transcripts"

	var records []TranscriptRecord
	if err := c.getJSON(ctx, op, "/transcripts", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EvaluateTranscripts submits one rubric and a set of transcripts for
// batch scoring. The returned entries cover every submitted transcript,
// each either scored or carrying a per-entry error.
func (c *Client) EvaluateTranscripts(ctx context.Context, rubricCSV string, records []TranscriptRecord) ([]EvaluationEntry, error) {
	const op = "evaluate-transcripts"

	payload := struct {
		RubricCSV   string             `json:"rubric_csv"`
		Transcripts []TranscriptRecord `json:"transcripts"`
	}{
		RubricCSV:   rubricCSV,
		Transcripts: records,
	}

	var out struct {
		Success     bool              `json:"success"`
		Evaluations []EvaluationEntry `json:"evaluations"`
		Error       string            `json:"error"`
	}
	if err := c.postJSON(ctx, op, "/evaluate-transcripts", payload, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &DomainError{Op: op, Message: nonEmpty(out.Error, "evaluation rejected")}
	}
	return out.Evaluations, nil
}

// ListEvaluationFiles lists the stored evaluation result files.
func (c *Client) ListEvaluationFiles(ctx context.Context) ([]string, error) {
	const op = "list-evaluation-files"

	var files []string
	if err := c.getJSON(ctx, op, "/list-evaluation-files", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// GetEvaluationFile fetches the raw line-delimited JSON contents of one
// stored evaluation file.
func (c *Client) GetEvaluationFile(ctx context.Context, filename string) ([]byte, error) {
	const op = "get-evaluation-file"

	u := fmt.Sprintf("%s/get-evaluation-file?filename=%s", c.BaseURL, url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &TransportError{Op: op, Err: fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return data, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

// do executes a request and decodes the JSON response. A non-2xx status
// or a non-conforming body is a transport failure, matching how the
// browser clients treated anything res.json() choked on.
func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &TransportError{Op: op, Err: fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
