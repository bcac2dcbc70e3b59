package research

import "encoding/json"

// ToolEvent describes one tool invocation surfaced by the backend stream.
// Index is the backend's stable position identifier for the call; synthetic
// output events extracted from reasoning text carry OutputEventIndex instead.
type ToolEvent struct {
	Index         int
	Kind          string
	Arguments     string
	Output        string
	SearchResults json.RawMessage
}

// OutputEventIndex marks a ToolEvent synthesized from an <output> span inside
// reasoning text, as opposed to a real tool call reported by the backend.
const OutputEventIndex = -1

// ToolKindOutput is the Kind of synthesized output events.
const ToolKindOutput = "output"

// Block is one atomic unit of the reconstructed transcript. It is a closed
// set: ReasoningBlock, ToolBlock, or ContentBlock.
type Block interface {
	isBlock()
}

// ReasoningBlock holds the model's internal narration.
type ReasoningBlock struct{ Text string }

func (ReasoningBlock) isBlock() {}

// ToolBlock holds one tool invocation or a synthesized output event.
type ToolBlock struct{ Event ToolEvent }

func (ToolBlock) isBlock() {}

// ContentBlock holds the user-facing answer text.
type ContentBlock struct{ Text string }

func (ContentBlock) isBlock() {}

// Delta is the decoded, relevant payload of one stream frame. A Delta may
// carry any subset of the three channels; all channels absent is a legal
// no-op.
type Delta struct {
	// ID is the frame identifier used for duplicate suppression. Deltas
	// without an ID are never deduplicated.
	ID string

	Reasoning     string
	ExecutedTools []ToolEvent
	Content       string
}

// Empty reports whether the delta carries nothing on any channel.
func (d Delta) Empty() bool {
	return d.Reasoning == "" && len(d.ExecutedTools) == 0 && d.Content == ""
}

// DiscardEvent describes a frame that was dropped instead of processed.
// Dropped frames are never errors; this hook exists so callers can observe
// malformed input.
type DiscardEvent struct {
	// Reason is one of "invalid_json" or "unexpected_shape".
	Reason string

	// Payload is the raw frame payload that was discarded.
	Payload string
}
