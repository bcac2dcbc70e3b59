package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/httpx"
)

type SpeechToTextRequest struct {
	// AudioBytes is an MP3 recording. The backend accepts nothing else.
	AudioBytes []byte

	// Filename defaults to "recording.mp3" and must keep the .mp3
	// extension; the backend rejects other names.
	Filename string

	Headers    map[string]string
	MaxRetries *int
}

type SpeechToTextResponse struct {
	Text        string
	RawResponse []byte
}

// NoTranscriptError is returned when the backend produced no text for the
// uploaded audio.
type NoTranscriptError struct {
	RawResponse []byte
}

func (e *NoTranscriptError) Error() string { return "speech: no transcript generated" }

func IsNoTranscript(err error) bool {
	_, ok := err.(*NoTranscriptError)
	return ok
}

// SpeechToText transcribes an MP3 recording via the default client.
func SpeechToText(ctx context.Context, req SpeechToTextRequest) (*SpeechToTextResponse, error) {
	return defaultClient.Load().SpeechToText(ctx, req)
}

func (c *Client) SpeechToText(ctx context.Context, req SpeechToTextRequest) (*SpeechToTextResponse, error) {
	if len(req.AudioBytes) == 0 {
		return nil, &Error{Op: "speech", Code: "invalid_request", Message: "audio bytes are required"}
	}
	filename := req.Filename
	if filename == "" {
		filename = "recording.mp3"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".mp3") {
		return nil, &Error{Op: "speech", Code: "invalid_request", Message: fmt.Sprintf("filename %q must end in .mp3", filename)}
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Op: "speech", Code: "request_error", Message: err.Error(), Cause: err}
	}
	if _, err := io.Copy(part, bytes.NewReader(req.AudioBytes)); err != nil {
		return nil, &Error{Op: "speech", Code: "request_error", Message: err.Error(), Cause: err}
	}
	_ = w.Close()

	u, err := c.endpoint("/get-speech")
	if err != nil {
		return nil, &Error{Op: "speech", Code: "url_error", Message: err.Error(), Cause: err}
	}

	h := c.headers()
	for k, v := range req.Headers {
		h.Set(k, v)
	}
	h.Set("Content-Type", w.FormDataContentType())
	h.Set("Accept", "application/json")

	resp, err := httpx.Do(ctx, c.cfg.HTTPClient, http.MethodPost, u, body.Bytes(), h, c.retryPolicy(req.MaxRetries))
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &Error{Op: "speech", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &Error{Op: "speech", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:        "speech",
			Code:      "http_error",
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(raw)),
			Retryable: httpx.RetryableStatus(resp.StatusCode),
		}
	}

	var out struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &Error{Op: "speech", Code: "decode_error", Message: err.Error(), Cause: err}
	}
	if out.Error != "" {
		return nil, &Error{Op: "speech", Code: "invalid_request", Message: out.Error}
	}
	if out.Text == "" {
		return nil, &NoTranscriptError{RawResponse: raw}
	}

	return &SpeechToTextResponse{Text: out.Text, RawResponse: raw}, nil
}
