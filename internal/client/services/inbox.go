package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
)

// InboxService lists pending requests addressed to the viewer and answers
// them. Answered requests are removed locally without refetching.
type InboxService struct {
	client client.Client
	conns  *ConnectionService
	log    logging.Logger

	mu       sync.Mutex
	requests []models.ConnectionRequest
	pending  int
	inFlight map[string]struct{}
}

func NewInboxService(c client.Client, conns *ConnectionService, log logging.Logger) *InboxService {
	if log == nil {
		log = logging.Nop()
	}
	return &InboxService{client: c, conns: conns, log: log, inFlight: make(map[string]struct{})}
}

// Load fetches the received requests, keeping pending ones in server order.
func (s *InboxService) Load(ctx context.Context) ([]models.ConnectionRequest, error) {
	res, err := s.client.ReceivedRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}

	pending := make([]models.ConnectionRequest, 0, len(res.Requests))
	for _, r := range res.Requests {
		if r.Status == "" || r.Status == models.RequestPending {
			pending = append(pending, r)
		}
	}
	count := len(pending)
	if res.Total != nil {
		count = max(*res.Total, 0)
	}

	senders := make([]models.Profile, 0, len(pending))
	for _, r := range pending {
		senders = append(senders, models.Profile{ID: r.SenderID, ConnectionStatus: models.StatusRequestReceived})
	}
	s.conns.Track(senders...)

	s.mu.Lock()
	s.requests = pending
	s.pending = count
	s.mu.Unlock()

	return s.Requests(), nil
}

func (s *InboxService) Requests() []models.ConnectionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ConnectionRequest(nil), s.requests...)
}

func (s *InboxService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Busy reports whether requestID is being answered.
func (s *InboxService) Busy(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[requestID]
	return ok
}

// Accept accepts requestID, marks the sender connected and schedules the
// settling refresh of the connections list.
func (s *InboxService) Accept(ctx context.Context, requestID string) error {
	req, err := s.respond(ctx, requestID, models.ActionAccept)
	if err != nil {
		return err
	}
	if _, err := s.conns.Apply(ctx, req.SenderID, EventRespondAccepted); err != nil {
		s.log.Warn(ctx, "accepted request for untracked sender", "user_id", req.SenderID, "error", err)
	}
	s.conns.Settle(req.SenderID)
	return nil
}

// Reject rejects requestID. No connection is created.
func (s *InboxService) Reject(ctx context.Context, requestID string) error {
	req, err := s.respond(ctx, requestID, models.ActionReject)
	if err != nil {
		return err
	}
	s.conns.Forget(req.SenderID)
	return nil
}

func (s *InboxService) respond(ctx context.Context, requestID string, action models.RespondAction) (models.ConnectionRequest, error) {
	s.mu.Lock()
	idx := s.indexLocked(requestID)
	if idx < 0 {
		s.mu.Unlock()
		return models.ConnectionRequest{}, ErrRequestNotFound
	}
	if _, busy := s.inFlight[requestID]; busy {
		s.mu.Unlock()
		return models.ConnectionRequest{}, ErrInFlight
	}
	req := s.requests[idx]
	s.inFlight[requestID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, requestID)
		s.mu.Unlock()
	}()

	if _, err := s.client.RespondToRequest(ctx, requestID, action); err != nil {
		s.log.Warn(ctx, "respond to request failed", "request_id", requestID, "action", action, "error", err)
		return models.ConnectionRequest{}, fmt.Errorf("%s request: %w", action, err)
	}

	s.mu.Lock()
	if i := s.indexLocked(requestID); i >= 0 {
		s.requests = append(s.requests[:i], s.requests[i+1:]...)
	}
	s.pending = max(s.pending-1, 0)
	s.mu.Unlock()

	s.log.Info(ctx, "request answered", "request_id", requestID, "action", action)
	return req, nil
}

func (s *InboxService) indexLocked(requestID string) int {
	for i, r := range s.requests {
		if r.ID == requestID {
			return i
		}
	}
	return -1
}
