package research

import (
	"encoding/json"
	"strings"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/sse"
)

// doneSentinel is the literal payload that signals turn completion.
const doneSentinel = "[DONE]"

// discardObserveMin is the payload size below which dropped frames are not
// worth surfacing to the discard hook. Tiny fragments are routine keep-alive
// noise; anything larger probably carried real data.
const discardObserveMin = 16

type wireChunk struct {
	ID      string       `json:"id"`
	Choices []wireChoice `json:"choices"`
}

type wireChoice struct {
	Delta *wireDelta `json:"delta"`
}

type wireDelta struct {
	Reasoning     string          `json:"reasoning"`
	Content       string          `json:"content"`
	ExecutedTools []wireToolEvent `json:"executed_tools"`
}

type wireToolEvent struct {
	Index         int             `json:"index"`
	Type          string          `json:"type"`
	Arguments     string          `json:"arguments"`
	Output        string          `json:"output"`
	SearchResults json.RawMessage `json:"search_results"`
}

// decodeFrame classifies one protocol frame. It returns the decoded delta
// (ok=true), the completion signal (done=true), or neither, meaning the
// frame is irrelevant or unusable and processing continues. Nothing at this
// granularity is ever an error.
func decodeFrame(f sse.Frame, onDiscard func(DiscardEvent)) (d Delta, done, ok bool) {
	if f.Field != "data" {
		return Delta{}, false, false
	}
	payload := strings.TrimSpace(f.Value)
	if payload == doneSentinel {
		return Delta{}, true, false
	}

	var chunk wireChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		discard(onDiscard, "invalid_json", payload)
		return Delta{}, false, false
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
		discard(onDiscard, "unexpected_shape", payload)
		return Delta{}, false, false
	}

	wd := chunk.Choices[0].Delta
	d = Delta{
		ID:        chunk.ID,
		Reasoning: wd.Reasoning,
		Content:   wd.Content,
	}
	for _, te := range wd.ExecutedTools {
		d.ExecutedTools = append(d.ExecutedTools, ToolEvent{
			Index:         te.Index,
			Kind:          te.Type,
			Arguments:     te.Arguments,
			Output:        te.Output,
			SearchResults: te.SearchResults,
		})
	}
	return d, false, true
}

func discard(onDiscard func(DiscardEvent), reason, payload string) {
	if onDiscard == nil || len(payload) < discardObserveMin {
		return
	}
	onDiscard(DiscardEvent{Reason: reason, Payload: payload})
}
