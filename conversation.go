package docchat

// Turn is one completed question and answer exchange.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Reply is the handler's answer to one question.
type Reply struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Sources is the deduplicated, sorted set of source URLs of the chunks
	// the answer was grounded on.
	Sources []string `json:"sources"`
}

// Session holds the state of one interactive conversation. It lives only
// in memory and must be accessed from a single goroutine.
type Session struct {
	// Questions holds every asked question in order.
	Questions []string

	// Answers holds every formatted reply (answer plus citations) in order.
	Answers []string

	history []Turn
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Record appends a completed turn to all three session sequences.
func (s *Session) Record(reply *Reply) {
	s.Questions = append(s.Questions, reply.Question)
	s.Answers = append(s.Answers, FormatReply(reply))
	s.history = append(s.history, Turn{Question: reply.Question, Answer: reply.Answer})
}

// History returns a copy of the raw turns, oldest first.
func (s *Session) History() []Turn {
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return history
}

// Len returns the number of completed turns.
func (s *Session) Len() int {
	return len(s.history)
}
