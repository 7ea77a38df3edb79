package dispatch

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Conversation is an ordered sequence of prior turns, oldest first. The
// dispatch core only reads it; ownership and persistence stay with the
// surrounding application.
type Conversation []Turn

// Window returns the most recent n turns (all turns when n <= 0 or the
// conversation is shorter).
func (c Conversation) Window(n int) Conversation {
	if n <= 0 || len(c) <= n {
		return c
	}
	return c[len(c)-n:]
}

// ContextProvider supplies recent conversation turns from the surrounding
// memory subsystem.
type ContextProvider interface {
	Recent(limit int) (Conversation, error)
}
