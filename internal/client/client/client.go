package client

import (
	"context"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// Client is the contract with the backend HTTP API.
type Client interface {
	Close() error

	SendConnectionRequest(ctx context.Context, in models.SendRequestInput) (*models.SendRequestResult, error)
	ReceivedRequests(ctx context.Context) (*models.ReceivedRequests, error)
	RespondToRequest(ctx context.Context, requestID string, action models.RespondAction) (string, error)
	Connections(ctx context.Context) ([]models.Profile, error)
	RemoveConnection(ctx context.Context, userID string) (string, error)

	TeamSearch(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)

	CreateConversation(ctx context.Context, targetUserID string) (*models.Conversation, error)
	Messages(ctx context.Context, conversationID string, skip, limit int) ([]models.Message, error)
	SendMessage(ctx context.Context, in models.SendMessageInput) (*models.Message, error)

	GetProfile(ctx context.Context) (*models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
}
