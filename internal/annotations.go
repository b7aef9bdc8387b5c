package internal

import "encoding/json"

// AnnotationStore keeps per-message like/dislike marks, keyed by session id
// and message index. Marks are independent of message content; the message's
// position in the append-only log is its stable identifier.
type AnnotationStore struct {
	store    Store
	feedback map[string]map[int]FeedbackValue
}

// NewAnnotationStore loads the feedback map from the store. Corrupt payloads
// are treated as absent.
func NewAnnotationStore(store Store) *AnnotationStore {
	a := &AnnotationStore{
		store:    store,
		feedback: make(map[string]map[int]FeedbackValue),
	}

	if raw, ok := store.Get(feedbackKey); ok {
		var feedback map[string]map[int]FeedbackValue
		if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
			LogWarn("corrupt feedback map, starting empty", "error", &ParseError{Key: feedbackKey, Err: err})
		} else {
			a.feedback = feedback
		}
	}

	return a
}

// Like toggles a message's mark. Setting the current value again returns the
// mark to none; setting the opposite value overwrites it directly.
func (a *AnnotationStore) Like(sessionID string, messageIndex int, liked bool) FeedbackValue {
	if messageIndex < 0 {
		return FeedbackNone
	}

	next := FeedbackLike
	if !liked {
		next = FeedbackDislike
	}

	session := a.feedback[sessionID]
	if session == nil {
		session = make(map[int]FeedbackValue)
		a.feedback[sessionID] = session
	}

	if session[messageIndex] == next {
		delete(session, messageIndex)
		if len(session) == 0 {
			delete(a.feedback, sessionID)
		}
		next = FeedbackNone
	} else {
		session[messageIndex] = next
	}

	a.persist()
	return next
}

// Get returns the mark on a message, or none.
func (a *AnnotationStore) Get(sessionID string, messageIndex int) FeedbackValue {
	if value, ok := a.feedback[sessionID][messageIndex]; ok {
		return value
	}
	return FeedbackNone
}

// SessionFeedback returns a copy of all marks for one session.
func (a *AnnotationStore) SessionFeedback(sessionID string) map[int]FeedbackValue {
	out := make(map[int]FeedbackValue, len(a.feedback[sessionID]))
	for idx, value := range a.feedback[sessionID] {
		out[idx] = value
	}
	return out
}

// ClearAll drops every mark. Used when the whole chat history is cleared so
// feedback never outlives the conversations it refers to.
func (a *AnnotationStore) ClearAll() {
	if len(a.feedback) == 0 {
		return
	}
	a.feedback = make(map[string]map[int]FeedbackValue)
	a.persist()
}

// ClearSession drops all marks for one session.
func (a *AnnotationStore) ClearSession(sessionID string) {
	if _, ok := a.feedback[sessionID]; !ok {
		return
	}
	delete(a.feedback, sessionID)
	a.persist()
}

func (a *AnnotationStore) persist() {
	data, err := json.Marshal(a.feedback)
	if err != nil {
		LogWarn("failed to encode feedback map", "error", err)
		return
	}
	if err := a.store.Set(feedbackKey, string(data)); err != nil {
		LogWarn("failed to persist feedback map", "error", err)
	}
}
