package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultModel = "whisper-1"

// Result holds a successful transcription response
type Result struct {
	Text string `json:"text"`
}

// Client converts recorded audio files to text
type Client interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// Options configures the HTTP transcription client
type Options struct {
	Endpoint string
	APIKey   string
	Model    string        // defaults to whisper-1
	Language string        // optional hint, empty means auto-detect
	Timeout  time.Duration // per-request timeout, 0 means no client timeout
}

// httpClient implements Client against an OpenAI-compatible
// speech-to-text endpoint
type httpClient struct {
	opts Options
	http *http.Client
}

// NewHTTPClient creates a new Client talking to a cloud speech-to-text API
func NewHTTPClient(opts Options) Client {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	return &httpClient{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

// apiErrorBody matches the error envelope of the transcription API
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Transcribe uploads the audio file as multipart form data and returns the text
func (c *httpClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnknown,
			Message: "failed to open audio file",
			Cause:   err,
		}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build multipart request", Cause: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to read audio file", Cause: err}
	}
	if err := writer.WriteField("model", c.opts.Model); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build multipart request", Cause: err}
	}
	if c.opts.Language != "" {
		if err := writer.WriteField("language", c.opts.Language); err != nil {
			return nil, &Error{Kind: KindUnknown, Message: "failed to build multipart request", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build multipart request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, &body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		kind := MapTransportError(err)
		return nil, &Error{
			Kind:    kind,
			Message: "transcription request failed",
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &Error{
			Kind:       KindUnknown,
			StatusCode: resp.StatusCode,
			Message:    "failed to parse transcription response",
			Cause:      err,
		}
	}

	return &result, nil
}

// errorFromResponse classifies a non-200 response into the error taxonomy
func (c *httpClient) errorFromResponse(resp *http.Response) *Error {
	terr := &Error{
		Kind:       MapStatusCode(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	// Error responses carry {"error": {"message", "type"}} when the API
	// produced them itself; proxies may return anything, so parse leniently.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return terr
	}
	var apiErr apiErrorBody
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		terr.Message = apiErr.Error.Message
		terr.APIType = apiErr.Error.Type
	}
	return terr
}
