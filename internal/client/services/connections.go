package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

// Event drives a connection status transition.
type Event string

const (
	// EventSent: the backend created a pending request.
	EventSent Event = "sent"
	// EventAccepted: the backend connected the pair in answer to our request.
	EventAccepted Event = "accepted"
	// EventAlreadySent: the backend refused a duplicate request.
	EventAlreadySent Event = "already_sent"
	// EventAlreadyConnected: the backend refused a request between connected users.
	EventAlreadyConnected Event = "already_connected"
	// EventRespondAccepted: the viewer accepted the user's request.
	EventRespondAccepted Event = "respond_accepted"
	// EventPeerConnected: a connections refresh listed the user.
	EventPeerConnected Event = "peer_connected"
)

var transitions = map[models.ConnectionStatus]map[Event]models.ConnectionStatus{
	models.StatusNotConnected: {
		EventSent:             models.StatusRequestSent,
		EventAccepted:         models.StatusConnected,
		EventAlreadySent:      models.StatusRequestSent,
		EventAlreadyConnected: models.StatusConnected,
	},
	models.StatusRequestSent: {
		EventAlreadySent:      models.StatusRequestSent,
		EventAlreadyConnected: models.StatusConnected,
		EventPeerConnected:    models.StatusConnected,
	},
	models.StatusRequestReceived: {
		EventRespondAccepted: models.StatusConnected,
		EventPeerConnected:   models.StatusConnected,
	},
	models.StatusConnected: {
		EventAlreadyConnected: models.StatusConnected,
		EventPeerConnected:    models.StatusConnected,
	},
}

// Next returns the status reached from s on e.
func Next(s models.ConnectionStatus, e Event) (models.ConnectionStatus, error) {
	if to, ok := transitions[s][e]; ok {
		return to, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, s, e)
}

// ConnectionState is the viewer's relationship with one user.
type ConnectionState struct {
	UserID string
	Status models.ConnectionStatus
	// Pending is set while a connect request for the user is outstanding.
	Pending bool
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer func(prompt string) bool

const (
	DefaultSettleDelay    = time.Second
	DefaultSettleAttempts = 3
)

var errNotYetListed = errors.New("user not yet in connections")

// ConnectionService is the connection state machine. It tracks a status per
// user, applies server outcomes through the transition table, and owns the
// connected-users list.
type ConnectionService struct {
	client  client.Client
	notices *NoticeBoard
	log     logging.Logger

	settleDelay    time.Duration
	settleAttempts int
	settleBackoff  time.Duration

	mu          sync.Mutex
	states      map[string]ConnectionState
	inFlight    map[string]struct{}
	connections []models.Profile
	loaded      bool

	refresh singleflight.Group

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type ConnectionOption func(*ConnectionService)

func WithNotices(b *NoticeBoard) ConnectionOption {
	return func(s *ConnectionService) { s.notices = b }
}

func WithConnectionLogger(l logging.Logger) ConnectionOption {
	return func(s *ConnectionService) { s.log = l }
}

// WithSettle tunes the refresh that follows an acceptance: wait delay, then
// try up to attempts refreshes with exponential backoff starting at backoff.
func WithSettle(delay time.Duration, attempts int, backoff time.Duration) ConnectionOption {
	return func(s *ConnectionService) {
		s.settleDelay = delay
		s.settleAttempts = attempts
		s.settleBackoff = backoff
	}
}

func NewConnectionService(c client.Client, opts ...ConnectionOption) *ConnectionService {
	s := &ConnectionService{
		client:         c,
		log:            logging.Nop(),
		settleDelay:    DefaultSettleDelay,
		settleAttempts: DefaultSettleAttempts,
		settleBackoff:  250 * time.Millisecond,
		states:         make(map[string]ConnectionState),
		inFlight:       make(map[string]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.notices == nil {
		s.notices = NewNoticeBoard(DefaultNoticeTTL)
	}
	if s.settleAttempts < 1 {
		s.settleAttempts = 1
	}
	if s.settleBackoff <= 0 {
		s.settleBackoff = 250 * time.Millisecond
	}
	s.bg, s.cancel = context.WithCancel(context.Background())
	return s
}

func (s *ConnectionService) Notices() *NoticeBoard { return s.notices }

// State returns the tracked state of userID. Untracked users are reported
// as not connected.
func (s *ConnectionService) State(userID string) ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(userID)
}

func (s *ConnectionService) stateLocked(userID string) ConnectionState {
	st, ok := s.states[userID]
	if !ok {
		return ConnectionState{UserID: userID, Status: models.StatusNotConnected}
	}
	return st
}

func (s *ConnectionService) Status(userID string) models.ConnectionStatus {
	return s.State(userID).Status
}

// Track seeds state from server snapshots. Profiles without a valid status
// are ignored; users with an action in flight keep their local state.
func (s *ConnectionService) Track(profiles ...models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		if p.ID == "" || !p.ConnectionStatus.Valid() {
			continue
		}
		if _, busy := s.inFlight[p.ID]; busy {
			continue
		}
		s.states[p.ID] = ConnectionState{UserID: p.ID, Status: p.ConnectionStatus}
	}
}

// Forget drops the tracked state of userID.
func (s *ConnectionService) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Apply feeds e for userID through the transition table.
func (s *ConnectionService) Apply(ctx context.Context, userID string, e Event) (models.ConnectionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, userID, e)
}

func (s *ConnectionService) applyLocked(ctx context.Context, userID string, e Event) (models.ConnectionStatus, error) {
	cur := s.stateLocked(userID)
	next, err := Next(cur.Status, e)
	if err != nil {
		s.log.Warn(ctx, "rejected connection transition", "user_id", userID, "status", cur.Status, "event", e)
		return cur.Status, err
	}
	cur.Status = next
	s.states[userID] = cur
	s.log.Debug(ctx, "connection transition", "user_id", userID, "event", e, "status", next)
	return next, nil
}

func (s *ConnectionService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *ConnectionService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Busy reports whether an action on userID is outstanding.
func (s *ConnectionService) Busy(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[userID]
	return busy
}

// Connect sends a connection request to userID and returns the resulting
// status. Recognised conflicts correct the state and raise a notice instead
// of failing. Any other failure leaves the prior status untouched.
func (s *ConnectionService) Connect(ctx context.Context, userID, message string) (models.ConnectionStatus, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if !s.acquire(userID) {
		return s.Status(userID), ErrInFlight
	}
	defer s.release(userID)

	s.mu.Lock()
	cur := s.stateLocked(userID)
	switch cur.Status {
	case models.StatusNotConnected:
	case models.StatusRequestReceived:
		s.mu.Unlock()
		return cur.Status, ErrRespondInInbox
	default:
		s.mu.Unlock()
		return cur.Status, fmt.Errorf("%w: connect from %s", ErrIllegalTransition, cur.Status)
	}
	cur.Pending = true
	s.states[userID] = cur
	s.mu.Unlock()

	res, err := s.client.SendConnectionRequest(ctx, models.SendRequestInput{ReceiverID: userID, Message: message})

	s.mu.Lock()
	st := s.stateLocked(userID)
	st.Pending = false
	s.states[userID] = st

	if err != nil {
		switch client.ConflictOf(err) {
		case client.ConflictAlreadySent:
			status, _ := s.applyLocked(ctx, userID, EventAlreadySent)
			s.mu.Unlock()
			s.log.Info(ctx, "duplicate connection request absorbed", "user_id", userID)
			s.notices.Push(NoticeAlreadySent, userID, "Connection request already sent.")
			return status, nil
		case client.ConflictAlreadyConnected:
			status, _ := s.applyLocked(ctx, userID, EventAlreadyConnected)
			s.mu.Unlock()
			s.log.Info(ctx, "already connected, correcting state", "user_id", userID)
			s.notices.Push(NoticeAlreadyConnected, userID, "You are already connected with this user.")
			s.refreshAfter(ctx)
			return status, nil
		}
		s.mu.Unlock()
		s.log.Warn(ctx, "connection request failed", "user_id", userID, "error", err)
		return st.Status, fmt.Errorf("send connection request: %w", err)
	}

	switch res.Status {
	case models.SendAccepted:
		status, terr := s.applyLocked(ctx, userID, EventAccepted)
		s.mu.Unlock()
		if terr != nil {
			return status, terr
		}
		s.notices.Push(NoticeConnected, userID, "You are now connected.")
		s.refreshAfter(ctx)
		return status, nil
	default:
		status, terr := s.applyLocked(ctx, userID, EventSent)
		s.mu.Unlock()
		if terr != nil {
			return status, terr
		}
		s.notices.Push(NoticeRequestSent, userID, "Connection request sent.")
		return status, nil
	}
}

// refreshAfter eagerly pulls the connections list after a status change.
// A failure is logged; the status change itself already happened.
func (s *ConnectionService) refreshAfter(ctx context.Context) {
	if _, err := s.RefreshConnections(ctx); err != nil {
		s.log.Warn(ctx, "connections refresh failed", "error", err)
	}
}

// Connections returns the last fetched connections list.
func (s *ConnectionService) Connections() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Profile(nil), s.connections...)
}

// Loaded reports whether the connections list has been fetched at least once.
func (s *ConnectionService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// RefreshConnections fetches GET /api/connections. Concurrent callers share
// a single request. The shared request is not tied to any one caller's
// cancellation and is bounded by the transport timeout; each caller stops
// waiting when its own ctx is done.
func (s *ConnectionService) RefreshConnections(ctx context.Context) ([]models.Profile, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan("connections", func() (any, error) {
		return s.client.Connections(shared)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("load connections: %w", ctx.Err())
	}
	if res.Err != nil {
		return nil, fmt.Errorf("load connections: %w", res.Err)
	}
	list := res.Val.([]models.Profile)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections = append([]models.Profile(nil), list...)
	s.loaded = true
	for _, p := range list {
		if _, busy := s.inFlight[p.ID]; busy {
			continue
		}
		if _, err := s.applyLocked(ctx, p.ID, EventPeerConnected); err != nil {
			// The list is authoritative.
			s.states[p.ID] = ConnectionState{UserID: p.ID, Status: models.StatusConnected}
		}
	}
	return append([]models.Profile(nil), list...), nil
}

// Disconnect removes the connection with userID once confirm agrees.
func (s *ConnectionService) Disconnect(ctx context.Context, userID string, confirm Confirmer) error {
	name := userID
	for _, p := range s.Connections() {
		if p.ID == userID && p.Name != "" {
			name = p.Name
		}
	}
	if confirm == nil || !confirm(fmt.Sprintf("Remove %s from your connections?", name)) {
		return ErrDeclined
	}
	if !s.acquire(userID) {
		return ErrInFlight
	}
	defer s.release(userID)

	if _, err := s.client.RemoveConnection(ctx, userID); err != nil {
		s.log.Warn(ctx, "disconnect failed", "user_id", userID, "error", err)
		return fmt.Errorf("remove connection: %w", err)
	}

	s.mu.Lock()
	kept := s.connections[:0]
	for _, p := range s.connections {
		if p.ID != userID {
			kept = append(kept, p)
		}
	}
	s.connections = kept
	delete(s.states, userID)
	s.mu.Unlock()

	s.log.Info(ctx, "connection removed", "user_id", userID)
	return nil
}

// Settle refreshes the connections list in the background until userID
// shows up in it, giving the backend time to propagate an acceptance.
func (s *ConnectionService) Settle(userID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.settle(s.bg, userID); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn(s.bg, "connections did not settle", "user_id", userID, "error", err)
		}
	}()
}

func (s *ConnectionService) settle(ctx context.Context, userID string) error {
	if s.settleDelay > 0 {
		t := time.NewTimer(s.settleDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	b := retry.WithMaxRetries(uint64(s.settleAttempts-1), retry.NewExponential(s.settleBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		list, err := s.RefreshConnections(ctx)
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return err
			}
			return retry.RetryableError(err)
		}
		for _, p := range list {
			if p.ID == userID {
				return nil
			}
		}
		return retry.RetryableError(errNotYetListed)
	})
}

// Wait blocks until all scheduled settling refreshes have finished.
func (s *ConnectionService) Wait() { s.wg.Wait() }

// Close cancels pending settling refreshes and waits for them.
func (s *ConnectionService) Close() {
	s.cancel()
	s.wg.Wait()
}
