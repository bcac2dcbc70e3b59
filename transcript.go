package research

import (
	"strings"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/textnorm"
)

// Transcript is the ordered, de-duplicated block list for one assistant
// turn. It owns all per-turn mutable state: the evolving block list, the set
// of processed delta ids, and the set of surfaced tool indexes. A Transcript
// is not safe for concurrent use; one instance belongs to one turn.
type Transcript struct {
	blocks      []Block
	seenIDs     map[string]struct{}
	seenToolIdx map[int]struct{}

	done bool
	err  error
}

func NewTranscript() *Transcript {
	return &Transcript{
		seenIDs:     map[string]struct{}{},
		seenToolIdx: map[int]struct{}{},
	}
}

// Apply folds one decoded delta into the transcript and reports whether
// anything visible changed. Deltas carrying an already-processed id, and all
// deltas after finalization, are ignored.
func (t *Transcript) Apply(d Delta) bool {
	if t.done {
		return false
	}
	if d.ID != "" {
		if _, dup := t.seenIDs[d.ID]; dup {
			return false
		}
		t.seenIDs[d.ID] = struct{}{}
	}

	changed := false

	if d.Reasoning != "" {
		outputs, frag := textnorm.Normalize(d.Reasoning)
		if frag != "" {
			t.appendReasoning(frag)
			changed = true
		}
		for _, out := range outputs {
			if t.hasOutput(out) {
				continue
			}
			t.blocks = append(t.blocks, ToolBlock{Event: ToolEvent{
				Index:  OutputEventIndex,
				Kind:   ToolKindOutput,
				Output: out,
			}})
			changed = true
		}
	}

	for _, ev := range d.ExecutedTools {
		if _, dup := t.seenToolIdx[ev.Index]; dup {
			continue
		}
		t.seenToolIdx[ev.Index] = struct{}{}
		t.blocks = append(t.blocks, ToolBlock{Event: ev})
		changed = true
	}

	if d.Content != "" {
		// Content arrives in natural token order; no boundary repair.
		if n := len(t.blocks); n > 0 {
			if last, ok := t.blocks[n-1].(ContentBlock); ok {
				t.blocks[n-1] = ContentBlock{Text: last.Text + d.Content}
				return true
			}
		}
		t.blocks = append(t.blocks, ContentBlock{Text: d.Content})
		changed = true
	}

	return changed
}

func (t *Transcript) appendReasoning(frag string) {
	if n := len(t.blocks); n > 0 {
		if last, ok := t.blocks[n-1].(ReasoningBlock); ok {
			t.blocks[n-1] = ReasoningBlock{Text: textnorm.Join(last.Text, frag)}
			return
		}
	}
	t.blocks = append(t.blocks, ReasoningBlock{Text: frag})
}

func (t *Transcript) hasOutput(out string) bool {
	for _, b := range t.blocks {
		if tb, ok := b.(ToolBlock); ok && tb.Event.Kind == ToolKindOutput && tb.Event.Output == out {
			return true
		}
	}
	return false
}

// Finalize freezes the transcript. It is idempotent; later deltas and later
// terminal signals have no effect.
func (t *Transcript) Finalize() {
	t.done = true
}

// Fail freezes the transcript with a terminal error. Assembled blocks stay
// visible. A transcript already finalized keeps its earlier outcome.
func (t *Transcript) Fail(err error) {
	if t.done {
		return
	}
	t.done = true
	t.err = err
}

// Done reports whether the turn has reached its terminal state.
func (t *Transcript) Done() bool { return t.done }

// Err returns the terminal error for a failed turn, or nil.
func (t *Transcript) Err() error { return t.err }

// Blocks returns a snapshot of the block list in insertion order.
func (t *Transcript) Blocks() []Block {
	return append([]Block(nil), t.blocks...)
}

// Empty reports whether no blocks were ever produced. The presentation layer
// drops empty failed turns from history instead of keeping a placeholder.
func (t *Transcript) Empty() bool { return len(t.blocks) == 0 }

// PlainText projects the transcript to the concatenation of its content
// blocks, double-newline joined. Reasoning and tool blocks are ignored; this
// is the text handed to read-aloud and visualization collaborators.
func (t *Transcript) PlainText() string {
	var parts []string
	for _, b := range t.blocks {
		if cb, ok := b.(ContentBlock); ok {
			parts = append(parts, cb.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
