package research

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/httpx"
	"github.com/Vanshikanainn/Company-Research-Agent/internal/sse"
)

type AskRequest struct {
	Question string

	// History is the prior exchanges sent as conversation context.
	History []Exchange

	Headers    map[string]string
	MaxRetries *int

	// OnDiscard is called when a non-trivially-sized frame is dropped as
	// malformed. Dropped frames never fail the turn.
	OnDiscard func(DiscardEvent)
}

type askPayload struct {
	Question      string     `json:"question"`
	PreviousConvo [][]string `json:"previous_convo"`
}

// Ask starts a streaming research turn on the default client.
func Ask(ctx context.Context, req AskRequest) (*AnswerStream, error) {
	return defaultClient.Load().Ask(ctx, req)
}

// Ask posts the question and returns the live answer stream. The caller must
// Close the stream; closing before completion cancels the turn.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*AnswerStream, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, &Error{Op: "ask", Code: "invalid_request", Message: "question is required"}
	}

	prev := make([][]string, 0, len(req.History))
	for _, e := range req.History {
		prev = append(prev, []string{e.Question, e.Answer})
	}
	body, err := json.Marshal(askPayload{Question: req.Question, PreviousConvo: prev})
	if err != nil {
		return nil, &Error{Op: "ask", Code: "marshal_error", Message: err.Error(), Cause: err}
	}

	u, err := c.endpoint("/ask")
	if err != nil {
		return nil, &Error{Op: "ask", Code: "url_error", Message: err.Error(), Cause: err}
	}

	h := c.headers()
	for k, v := range req.Headers {
		h.Set(k, v)
	}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "text/event-stream")

	resp, err := httpx.Do(ctx, c.cfg.HTTPClient, http.MethodPost, u, body, h, c.retryPolicy(req.MaxRetries))
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &Error{Op: "ask", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, &Error{
			Op:        "ask",
			Code:      "http_error",
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(b)),
			Retryable: httpx.RetryableStatus(resp.StatusCode),
		}
	}

	return &AnswerStream{
		resp:       resp,
		frames:     sse.NewReader(resp.Body),
		transcript: NewTranscript(),
		onDiscard:  req.OnDiscard,
	}, nil
}

// AnswerStream is one in-flight assistant turn. Next advances to the next
// accepted delta; Blocks returns the transcript snapshot after it. The
// stream is single-threaded: all frame processing happens inside Next, in
// arrival order.
type AnswerStream struct {
	resp   *http.Response
	frames *sse.Reader

	transcript *Transcript
	onDiscard  func(DiscardEvent)

	closed bool
	err    error
}

// Next processes frames until the transcript visibly changes. It returns
// false once the turn reaches its terminal state: the completion sentinel, a
// bare end of stream, or a transport failure (check Err). Frames queued
// after the sentinel are never processed.
func (s *AnswerStream) Next() bool {
	if s.err != nil || s.transcript.Done() {
		return false
	}

	for s.frames.Next() {
		d, done, ok := decodeFrame(s.frames.Frame(), s.onDiscard)
		if done {
			s.transcript.Finalize()
			return false
		}
		if !ok {
			continue
		}
		if s.transcript.Apply(d) {
			return true
		}
	}

	if err := s.frames.Err(); err != nil {
		code, retryable := classifyNetworkErr(err)
		s.err = &Error{Op: "ask", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
		s.transcript.Fail(s.err)
		return false
	}

	// Stream ended without a sentinel; treat it as completion.
	s.transcript.Finalize()
	return false
}

// Blocks returns the current transcript snapshot.
func (s *AnswerStream) Blocks() []Block {
	return s.transcript.Blocks()
}

// Transcript returns the turn's transcript. It keeps accumulating until the
// turn is terminal and is frozen afterwards.
func (s *AnswerStream) Transcript() *Transcript {
	return s.transcript
}

// Err returns the transport failure that terminated the turn, if any.
// Partial blocks assembled before the failure stay visible.
func (s *AnswerStream) Err() error {
	return s.err
}

// Close releases the underlying connection. Closing an unfinished turn
// cancels it: no further frames are read and the turn never reports
// completion.
func (s *AnswerStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.transcript.Done() {
		s.transcript.Fail(&Error{Op: "ask", Code: "canceled", Message: "turn canceled"})
	}
	return s.resp.Body.Close()
}
