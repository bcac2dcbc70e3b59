package research

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestApplyCoalescesContent(t *testing.T) {
	tr := NewTranscript()

	if !tr.Apply(Delta{ID: "1", Content: "Hello"}) {
		t.Fatalf("first delta should change the transcript")
	}
	if !tr.Apply(Delta{ID: "2", Content: " world"}) {
		t.Fatalf("second delta should change the transcript")
	}

	blocks := tr.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("blocks=%+v", blocks)
	}
	// Content is concatenated exactly; no space repair on this channel.
	if got := blocks[0].(ContentBlock).Text; got != "Hello world" {
		t.Fatalf("text=%q", got)
	}
}

func TestApplyCoalescesReasoning(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{Reasoning: "To"})
	tr.Apply(Delta{Reasoning: "gather"})

	blocks := tr.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("blocks=%+v", blocks)
	}
	if got := blocks[0].(ReasoningBlock).Text; got != "To gather" {
		t.Fatalf("text=%q", got)
	}
}

func TestApplyRepairsGluedWords(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{Reasoning: "Searching."})
	tr.Apply(Delta{Reasoning: "willI find reviews"})

	got := tr.Blocks()[0].(ReasoningBlock).Text
	if !strings.Contains(got, "will I") {
		t.Fatalf("text=%q", got)
	}
}

func TestApplyDedupByID(t *testing.T) {
	tr := NewTranscript()

	d := Delta{ID: "dup", Content: "once"}
	if !tr.Apply(d) {
		t.Fatalf("first apply should change the transcript")
	}
	before := tr.Blocks()
	if tr.Apply(d) {
		t.Fatalf("duplicate id must be ignored")
	}
	if !reflect.DeepEqual(before, tr.Blocks()) {
		t.Fatalf("transcript changed on duplicate: %+v", tr.Blocks())
	}
}

func TestApplyNoIDNeverDeduplicated(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{Content: "a"})
	tr.Apply(Delta{Content: "a"})

	if got := tr.Blocks()[0].(ContentBlock).Text; got != "aa" {
		t.Fatalf("text=%q", got)
	}
}

func TestApplyToolIndexUnique(t *testing.T) {
	tr := NewTranscript()

	ev := ToolEvent{Index: 3, Kind: "web_search", Output: "hit"}
	tr.Apply(Delta{ID: "1", ExecutedTools: []ToolEvent{ev}})
	if tr.Apply(Delta{ID: "2", ExecutedTools: []ToolEvent{ev}}) {
		t.Fatalf("repeated tool index must not change the transcript")
	}

	count := 0
	for _, b := range tr.Blocks() {
		if _, ok := b.(ToolBlock); ok {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("tool blocks=%d", count)
	}
}

func TestApplyExtractsOutputSpans(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{Reasoning: "Some text <output>Result A</output> more text"})

	blocks := tr.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("blocks=%+v", blocks)
	}
	if got := blocks[0].(ReasoningBlock).Text; got != "Some text  more text" {
		t.Fatalf("reasoning=%q", got)
	}
	tb := blocks[1].(ToolBlock)
	if tb.Event.Index != OutputEventIndex || tb.Event.Kind != ToolKindOutput || tb.Event.Output != "Result A" {
		t.Fatalf("event=%+v", tb.Event)
	}

	// The identical span later must not produce a second output block.
	tr.Apply(Delta{Reasoning: "<output>Result A</output>"})
	if got := len(tr.Blocks()); got != 2 {
		t.Fatalf("blocks after repeat=%d", got)
	}
}

func TestApplyOrderPreserved(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{Reasoning: "thinking"})
	tr.Apply(Delta{ExecutedTools: []ToolEvent{{Index: 0, Kind: "web_search"}}})
	tr.Apply(Delta{Content: "answer"})

	blocks := tr.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("blocks=%+v", blocks)
	}
	if _, ok := blocks[0].(ReasoningBlock); !ok {
		t.Fatalf("block 0 is %T", blocks[0])
	}
	if _, ok := blocks[1].(ToolBlock); !ok {
		t.Fatalf("block 1 is %T", blocks[1])
	}
	if _, ok := blocks[2].(ContentBlock); !ok {
		t.Fatalf("block 2 is %T", blocks[2])
	}
}

func TestApplyEmptyDeltaIsNoOp(t *testing.T) {
	tr := NewTranscript()

	if tr.Apply(Delta{ID: "only-id"}) {
		t.Fatalf("empty delta must not report a change")
	}
	// The id was still recorded as processed.
	if tr.Apply(Delta{ID: "only-id", Content: "late"}) {
		t.Fatalf("id reuse must be ignored")
	}
	if len(tr.Blocks()) != 0 {
		t.Fatalf("blocks=%+v", tr.Blocks())
	}
}

func TestApplyMixedChannelsSingleDelta(t *testing.T) {
	tr := NewTranscript()

	tr.Apply(Delta{
		Reasoning:     "checking sources",
		ExecutedTools: []ToolEvent{{Index: 1, Kind: "visit_website"}},
		Content:       "partial answer",
	})

	if got := len(tr.Blocks()); got != 3 {
		t.Fatalf("blocks=%d", got)
	}
}

func TestFinalizeIsTerminal(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(Delta{Content: "kept"})
	tr.Finalize()

	if tr.Apply(Delta{Content: "dropped"}) {
		t.Fatalf("apply after finalize must be a no-op")
	}
	if !tr.Done() || tr.Err() != nil {
		t.Fatalf("done=%v err=%v", tr.Done(), tr.Err())
	}

	// A later failure cannot override the completed outcome.
	tr.Fail(errors.New("late"))
	if tr.Err() != nil {
		t.Fatalf("err=%v", tr.Err())
	}
}

func TestFailKeepsPartialBlocks(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(Delta{Content: "partial"})

	failure := errors.New("connection reset")
	tr.Fail(failure)

	if !tr.Done() || tr.Err() != failure {
		t.Fatalf("done=%v err=%v", tr.Done(), tr.Err())
	}
	if got := tr.Blocks()[0].(ContentBlock).Text; got != "partial" {
		t.Fatalf("text=%q", got)
	}
}

func TestPlainTextProjectsContentOnly(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(Delta{Reasoning: "ignored narration"})
	tr.Apply(Delta{Content: "First part."})
	tr.Apply(Delta{ExecutedTools: []ToolEvent{{Index: 0, Kind: "web_search", Output: "ignored"}}})
	tr.Apply(Delta{Content: "Second part."})

	if got := tr.PlainText(); got != "First part.\n\nSecond part." {
		t.Fatalf("plaintext=%q", got)
	}
}
