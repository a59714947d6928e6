package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// fakeClient implements client.Client. Each call is served by the matching
// func field; nil fields panic so tests spell out what they expect.
type fakeClient struct {
	SendFn        func(ctx context.Context, in models.SendRequestInput) (*models.SendRequestResult, error)
	ReceivedFn    func(ctx context.Context) (*models.ReceivedRequests, error)
	RespondFn     func(ctx context.Context, id string, action models.RespondAction) (string, error)
	ConnectionsFn func(ctx context.Context) ([]models.Profile, error)
	RemoveFn      func(ctx context.Context, userID string) (string, error)
	SearchFn      func(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
	CreateConvFn  func(ctx context.Context, target string) (*models.Conversation, error)
	MessagesFn    func(ctx context.Context, convID string, skip, limit int) ([]models.Message, error)
	SendMsgFn     func(ctx context.Context, in models.SendMessageInput) (*models.Message, error)
	GetProfileFn  func(ctx context.Context) (*models.Profile, error)
	CreateProfFn  func(ctx context.Context, p models.Profile) (*models.Profile, error)
	UpdateProfFn  func(ctx context.Context, p models.Profile) (*models.Profile, error)

	mu    sync.Mutex
	calls []string

	connectionsCalls atomic.Int32
	sendCalls        atomic.Int32
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SendConnectionRequest(ctx context.Context, in models.SendRequestInput) (*models.SendRequestResult, error) {
	f.record("SendConnectionRequest")
	f.sendCalls.Add(1)
	return f.SendFn(ctx, in)
}

func (f *fakeClient) ReceivedRequests(ctx context.Context) (*models.ReceivedRequests, error) {
	f.record("ReceivedRequests")
	return f.ReceivedFn(ctx)
}

func (f *fakeClient) RespondToRequest(ctx context.Context, id string, action models.RespondAction) (string, error) {
	f.record("RespondToRequest")
	return f.RespondFn(ctx, id, action)
}

func (f *fakeClient) Connections(ctx context.Context) ([]models.Profile, error) {
	f.record("Connections")
	f.connectionsCalls.Add(1)
	return f.ConnectionsFn(ctx)
}

func (f *fakeClient) RemoveConnection(ctx context.Context, userID string) (string, error) {
	f.record("RemoveConnection")
	return f.RemoveFn(ctx, userID)
}

func (f *fakeClient) TeamSearch(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	f.record("TeamSearch")
	return f.SearchFn(ctx, req)
}

func (f *fakeClient) CreateConversation(ctx context.Context, target string) (*models.Conversation, error) {
	f.record("CreateConversation")
	return f.CreateConvFn(ctx, target)
}

func (f *fakeClient) Messages(ctx context.Context, convID string, skip, limit int) ([]models.Message, error) {
	f.record("Messages")
	return f.MessagesFn(ctx, convID, skip, limit)
}

func (f *fakeClient) SendMessage(ctx context.Context, in models.SendMessageInput) (*models.Message, error) {
	f.record("SendMessage")
	return f.SendMsgFn(ctx, in)
}

func (f *fakeClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	f.record("GetProfile")
	return f.GetProfileFn(ctx)
}

func (f *fakeClient) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	f.record("CreateProfile")
	return f.CreateProfFn(ctx, p)
}

func (f *fakeClient) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	f.record("UpdateProfile")
	return f.UpdateProfFn(ctx, p)
}

func apiErr(status int, detail string) error {
	return &client.APIError{Method: "POST", Path: "/test", StatusCode: status, Detail: detail}
}

func completeProfile() *models.Profile {
	return &models.Profile{
		ID: "me", Name: "Ada", Email: "ada@example.org", Role: "CTO",
		Skills: []string{"Go"}, Interests: []string{"fintech"},
		Experience: "10 years", Availability: "full-time", Location: "Riga",
	}
}

func connectionsOf(ids ...string) func(context.Context) ([]models.Profile, error) {
	return func(context.Context) ([]models.Profile, error) {
		out := make([]models.Profile, 0, len(ids))
		for _, id := range ids {
			out = append(out, models.Profile{ID: id, Name: "user " + id})
		}
		return out, nil
	}
}
