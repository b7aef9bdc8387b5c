package internal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/egazette/gazette-chat/testutil"
)

// fakeClient scripts the AI-chat collaborator. onSend runs before the
// scripted result is returned, which lets tests interleave controller calls
// "while the response is in flight".
type fakeClient struct {
	resp   *ChatResponse
	err    error
	calls  int
	onSend func(message string, history []ChatTurn)
}

func (f *fakeClient) Send(ctx context.Context, message string, history []ChatTurn) (*ChatResponse, error) {
	f.calls++
	if f.onSend != nil {
		f.onSend(message, history)
	}
	return f.resp, f.err
}

func newTestController(t *testing.T, client ChatClient) (*ChatController, *SessionRepository) {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewSessionRepository(NewSQLiteStore(db))
	return NewChatController(repo, client), repo
}

func TestChatController_SubmitSuccess(t *testing.T) {
	client := &fakeClient{resp: &ChatResponse{
		Success:  true,
		Response: "Found 3 entries",
		SearchResults: []GazetteRecord{
			{Type: "change_of_name", Name: "Kofi Mensah", GazetteNo: "42"},
		},
	}}
	controller, repo := newTestController(t, client)

	if err := controller.Submit(context.Background(), "Search for change of name entries"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if controller.State() != StateIdle {
		t.Errorf("state = %v, want idle after settle", controller.State())
	}
	messages := controller.Messages()
	if len(messages) != 2 {
		t.Fatalf("message log has %d entries, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleAssistant {
		t.Errorf("unexpected roles: %v, %v", messages[0].Role, messages[1].Role)
	}
	if len(controller.SearchResults()) != 1 {
		t.Error("search snapshot should hold the returned records")
	}

	entry, ok := repo.Get(controller.SessionID())
	if !ok {
		t.Fatal("catalog row missing after submit")
	}
	if entry.MessageCount != 2 {
		t.Errorf("catalog messageCount = %d, want 2", entry.MessageCount)
	}
	if entry.Title != "Search for change of name entries" {
		t.Errorf("catalog title = %q", entry.Title)
	}

	conv, ok := repo.LoadConversation(controller.SessionID())
	if !ok {
		t.Fatal("conversation body missing after submit")
	}
	if len(conv.Messages) != entry.MessageCount {
		t.Errorf("persisted log length %d != catalog messageCount %d", len(conv.Messages), entry.MessageCount)
	}
}

func TestChatController_SubmitEmpty(t *testing.T) {
	client := &fakeClient{resp: &ChatResponse{Success: true}}
	controller, _ := newTestController(t, client)

	err := controller.Submit(context.Background(), "   ")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if len(controller.Messages()) != 0 {
		t.Error("rejected submit must not change state")
	}
	if client.calls != 0 {
		t.Error("rejected submit must not reach the collaborator")
	}
}

func TestChatController_SubmitFailureKeepsUserMessage(t *testing.T) {
	client := &fakeClient{err: errors.New("backend down")}
	controller, repo := newTestController(t, client)

	err := controller.Submit(context.Background(), "find appointments")
	var collab *CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("Submit() error = %v, want CollaboratorError", err)
	}

	if controller.State() != StateIdle {
		t.Errorf("state = %v, want idle so the user may resubmit", controller.State())
	}
	messages := controller.Messages()
	if len(messages) != 1 || messages[0].Role != RoleUser {
		t.Fatalf("user message should be retained, got %v", messages)
	}

	entry, _ := repo.Get(controller.SessionID())
	if entry.MessageCount != 1 {
		t.Errorf("catalog messageCount = %d, want 1", entry.MessageCount)
	}
}

func TestChatController_SubmitUnsuccessfulResponse(t *testing.T) {
	client := &fakeClient{resp: &ChatResponse{Success: false, Error: "quota exceeded"}}
	controller, _ := newTestController(t, client)

	err := controller.Submit(context.Background(), "find entries")
	var collab *CollaboratorError
	if !errors.As(err, &collab) {
		t.Fatalf("Submit() error = %v, want CollaboratorError", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the endpoint's reason, got %v", err)
	}
	if len(controller.Messages()) != 1 {
		t.Error("no assistant message on failure, user message retained")
	}
}

func TestChatController_ReentrantSubmitIgnored(t *testing.T) {
	var controller *ChatController
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	client.onSend = func(message string, history []ChatTurn) {
		if client.calls > 1 {
			return
		}
		// A duplicate submit while the response is outstanding is a no-op.
		if err := controller.Submit(context.Background(), "duplicate"); err != nil {
			t.Errorf("re-entrant Submit() error = %v, want silent no-op", err)
		}
	}
	controller, _ = newTestController(t, client)

	if err := controller.Submit(context.Background(), "original"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if client.calls != 1 {
		t.Errorf("collaborator called %d times, want 1", client.calls)
	}
	if len(controller.Messages()) != 2 {
		t.Errorf("message log has %d entries, want 2 (no duplicate)", len(controller.Messages()))
	}
}

func TestChatController_StaleResponseDiscarded(t *testing.T) {
	var controller *ChatController
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "late answer"}}
	client.onSend = func(message string, history []ChatTurn) {
		// The user abandons the conversation while the call is outstanding.
		controller.NewConversation()
	}
	controller, repo := newTestController(t, client)

	if err := controller.Submit(context.Background(), "original question"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(controller.Messages()) != 0 {
		t.Errorf("late response must not reach the new session, got %d messages", len(controller.Messages()))
	}
	if controller.State() != StateIdle {
		t.Errorf("state = %v, want idle", controller.State())
	}

	// The abandoned session keeps only the optimistic user message.
	entries := repo.ListAll()
	if len(entries) != 1 {
		t.Fatalf("catalog has %d entries, want 1 (abandoned session)", len(entries))
	}
	if entries[0].MessageCount != 1 {
		t.Errorf("abandoned session messageCount = %d, want 1", entries[0].MessageCount)
	}
}

func TestChatController_TitleDerivedOnce(t *testing.T) {
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	controller, _ := newTestController(t, client)

	question := "Find change of name entries for Kofi Mensah in Accra gazette 2021"
	if err := controller.Submit(context.Background(), question); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := TruncateTitle(question)
	if len([]rune(want)) != 50 {
		t.Fatalf("test premise broken: truncated title has %d runes", len([]rune(want)))
	}
	if controller.Title() != want {
		t.Errorf("title = %q, want %q", controller.Title(), want)
	}

	if err := controller.Submit(context.Background(), "a completely different question"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if controller.Title() != want {
		t.Errorf("title changed on second submit: %q", controller.Title())
	}
}

func TestChatController_HistorySentIsPriorOnly(t *testing.T) {
	var gotHistory []ChatTurn
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	client.onSend = func(message string, history []ChatTurn) {
		gotHistory = append([]ChatTurn(nil), history...)
	}
	controller, _ := newTestController(t, client)

	ctx := context.Background()
	if err := controller.Submit(ctx, "first"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(gotHistory) != 0 {
		t.Errorf("first call history length = %d, want 0", len(gotHistory))
	}

	if err := controller.Submit(ctx, "second"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(gotHistory) != 2 {
		t.Errorf("second call history length = %d, want 2 (prior exchange only)", len(gotHistory))
	}
}

func TestChatController_NewConversationKeepsOldData(t *testing.T) {
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	controller, repo := newTestController(t, client)

	if err := controller.Submit(context.Background(), "first question"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	oldID := controller.SessionID()

	controller.NewConversation()

	if controller.SessionID() == oldID {
		t.Error("NewConversation() must allocate a fresh id")
	}
	if controller.Title() != DefaultTitle {
		t.Errorf("title = %q, want default", controller.Title())
	}
	if len(controller.Messages()) != 0 {
		t.Error("message log should reset")
	}
	if _, ok := repo.LoadConversation(oldID); !ok {
		t.Error("previous session's persisted data must be untouched")
	}
}

func TestChatController_ComposeBlocksLoad(t *testing.T) {
	db := testutil.CreateTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewSessionRepository(NewSQLiteStore(db))
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	controller := NewChatController(repo, client)

	controller.Compose()
	if controller.State() != StateComposing {
		t.Fatalf("state = %v, want composing", controller.State())
	}

	before := controller.SessionID()
	if err := controller.LoadSession("sess-1"); err == nil {
		t.Error("LoadSession() should be rejected while composing")
	}
	if controller.SessionID() != before {
		t.Error("rejected load must keep the current session")
	}

	// Submit is still valid from Composing and settles back to idle.
	if err := controller.Submit(context.Background(), "find entries"); err != nil {
		t.Fatalf("Submit() from composing error = %v", err)
	}
	if controller.State() != StateIdle {
		t.Errorf("state = %v, want idle after settle", controller.State())
	}
	if err := controller.LoadSession("sess-1"); err != nil {
		t.Errorf("LoadSession() after settle error = %v", err)
	}
}

func TestChatController_ComposeOnlyFromIdle(t *testing.T) {
	var controller *ChatController
	client := &fakeClient{resp: &ChatResponse{Success: true, Response: "ok"}}
	client.onSend = func(message string, history []ChatTurn) {
		controller.Compose()
		if controller.State() != StateAwaitingResponse {
			t.Errorf("Compose() while awaiting changed state to %v", controller.State())
		}
	}
	controller, _ = newTestController(t, client)

	if err := controller.Submit(context.Background(), "question"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestChatController_LoadSession(t *testing.T) {
	db := testutil.CreateTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewSessionRepository(NewSQLiteStore(db))
	controller := NewChatController(repo, &fakeClient{})

	if err := controller.LoadSession("sess-1"); err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if controller.SessionID() != "sess-1" {
		t.Errorf("session id = %q, want sess-1", controller.SessionID())
	}
	if len(controller.Messages()) != 2 {
		t.Errorf("loaded %d messages, want 2", len(controller.Messages()))
	}
	if controller.Title() != "Change of name entries" {
		t.Errorf("title = %q", controller.Title())
	}
	if len(controller.SearchResults()) != 1 {
		t.Error("search snapshot should be restored")
	}
}

func TestChatController_LoadSessionAbsentIsSilent(t *testing.T) {
	client := &fakeClient{}
	controller, _ := newTestController(t, client)
	before := controller.SessionID()

	if err := controller.LoadSession("no-such-session"); err != nil {
		t.Fatalf("LoadSession() of absent session error = %v, want silent keep", err)
	}
	if controller.SessionID() != before {
		t.Error("absent load must keep the current session")
	}
}
