package research

// Exchange is one completed question/answer pair.
type Exchange struct {
	Question string
	Answer   string
}

// Conversation accumulates the exchange history that Ask sends as context
// for follow-up questions.
type Conversation struct {
	exchanges []Exchange
}

// Record appends a finished turn to the history and reports whether it was
// kept. A failed turn that never produced a block is dropped rather than
// recorded as an empty placeholder; a failed turn with partial output keeps
// whatever answer text it assembled.
func (c *Conversation) Record(question string, t *Transcript) bool {
	if t == nil {
		return false
	}
	if t.Err() != nil && t.Empty() {
		return false
	}
	c.exchanges = append(c.exchanges, Exchange{Question: question, Answer: t.PlainText()})
	return true
}

// Exchanges returns a snapshot of the recorded history, in the order the
// turns finished. Pass it as AskRequest.History for follow-up questions.
func (c *Conversation) Exchanges() []Exchange {
	return append([]Exchange(nil), c.exchanges...)
}
