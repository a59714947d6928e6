package devbackend

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/google/uuid"
)

// Error is a failure with the HTTP status and detail the backend answers.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func fail(status int, detail string) error { return &Error{Status: status, Detail: detail} }

var ErrEmailTaken = errors.New("email already registered")

type user struct {
	id      string
	email   string
	name    string
	salt    []byte
	key     []byte
	profile *models.Profile
}

type request struct {
	models.ConnectionRequest
}

type conversation struct {
	id           string
	participants [2]string
	messages     []models.Message
}

// Store keeps all backend state in memory. It is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users       map[string]*user
	byEmail     map[string]string
	requests    []*request
	connected   map[string]bool
	convs       map[string]*conversation
	convsByPair map[string]string
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:         now,
		users:       make(map[string]*user),
		byEmail:     make(map[string]string),
		connected:   make(map[string]bool),
		convs:       make(map[string]*conversation),
		convsByPair: make(map[string]string),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// AddUser registers an account. A non-nil profile is stored as the user's
// profile; otherwise the user has none until they create it.
func (s *Store) AddUser(email, name, password string, profile *models.Profile) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return "", ErrEmailTaken
	}

	salt, err := newSalt()
	if err != nil {
		return "", err
	}
	u := &user{
		id:    uuid.NewString(),
		email: email,
		name:  name,
		salt:  salt,
		key:   deriveKey([]byte(password), salt),
	}
	if profile != nil {
		p := *profile
		p.ID, p.Email = u.id, email
		p.ConnectionStatus = ""
		u.profile = &p
		if p.Name != "" {
			u.name = p.Name
		}
	}
	s.users[u.id] = u
	s.byEmail[email] = u.id
	return u.id, nil
}

// Authenticate returns the id of the user owning email and password.
func (s *Store) Authenticate(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		// Same work for unknown users.
		_ = verifyKey([]byte(password), make([]byte, saltLen), nil)
		return "", fail(http.StatusUnauthorized, "Invalid email or password")
	}
	u := s.users[id]
	if !verifyKey([]byte(password), u.salt, u.key) {
		return "", fail(http.StatusUnauthorized, "Invalid email or password")
	}
	return id, nil
}

func (s *Store) HasUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *Store) publicLocked(viewer, id string) models.Profile {
	u := s.users[id]
	var p models.Profile
	if u.profile != nil {
		p = *u.profile
		p.Skills = append([]string(nil), p.Skills...)
		p.Interests = append([]string(nil), p.Interests...)
	} else {
		p = models.Profile{ID: u.id, Name: u.name, Email: u.email}
	}
	if viewer != "" && viewer != id {
		p.ConnectionStatus = s.statusLocked(viewer, id)
	}
	return p
}

func (s *Store) statusLocked(viewer, other string) models.ConnectionStatus {
	if s.connected[pairKey(viewer, other)] {
		return models.StatusConnected
	}
	for _, r := range s.requests {
		if r.Status != models.RequestPending {
			continue
		}
		switch {
		case r.SenderID == viewer && r.ReceiverID == other:
			return models.StatusRequestSent
		case r.SenderID == other && r.ReceiverID == viewer:
			return models.StatusRequestReceived
		}
	}
	return models.StatusNotConnected
}

// Profile returns the user's own profile.
func (s *Store) Profile(userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.profile == nil {
		return nil, fail(http.StatusNotFound, "Profile not found")
	}
	p := s.publicLocked("", userID)
	return &p, nil
}

// SaveProfile creates (create=true) or updates the user's profile.
func (s *Store) SaveProfile(userID string, in models.Profile, create bool) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fail(http.StatusNotFound, "User not found")
	}
	switch {
	case create && u.profile != nil:
		return nil, fail(http.StatusBadRequest, "Profile already exists")
	case !create && u.profile == nil:
		return nil, fail(http.StatusNotFound, "Profile not found")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fail(http.StatusBadRequest, "Name is required")
	}

	in.ID = u.id
	in.ConnectionStatus = ""
	if in.Email == "" {
		in.Email = u.email
	}
	u.profile = &in
	u.name = in.Name
	p := s.publicLocked("", userID)
	return &p, nil
}

// SendRequest creates a request from sender to receiver. A pending request
// in the other direction is accepted instead.
func (s *Store) SendRequest(sender, receiver, message string) (*models.SendRequestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if receiver == "" {
		return nil, fail(http.StatusBadRequest, "receiver_id is required")
	}
	if sender == receiver {
		return nil, fail(http.StatusBadRequest, "Cannot send a connection request to yourself")
	}
	if _, ok := s.users[receiver]; !ok {
		return nil, fail(http.StatusNotFound, "User not found")
	}
	if s.connected[pairKey(sender, receiver)] {
		return nil, fail(http.StatusBadRequest, "Already connected with this user")
	}

	for _, r := range s.requests {
		if r.Status != models.RequestPending {
			continue
		}
		if r.SenderID == sender && r.ReceiverID == receiver {
			return nil, fail(http.StatusBadRequest, "Connection request already sent")
		}
		if r.SenderID == receiver && r.ReceiverID == sender {
			r.Status = models.RequestAccepted
			s.connected[pairKey(sender, receiver)] = true
			return &models.SendRequestResult{RequestID: r.ID, Status: models.SendAccepted}, nil
		}
	}

	r := &request{models.ConnectionRequest{
		ID:         uuid.NewString(),
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.RequestPending,
		Message:    message,
		CreatedAt:  models.Timestamp{Time: s.now().UTC()},
	}}
	s.requests = append(s.requests, r)
	return &models.SendRequestResult{RequestID: r.ID, Status: models.SendSent}, nil
}

// Received lists pending requests addressed to userID, oldest first.
func (s *Store) Received(userID string) *models.ReceivedRequests {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := &models.ReceivedRequests{Requests: []models.ConnectionRequest{}}
	for _, r := range s.requests {
		if r.ReceiverID != userID || r.Status != models.RequestPending {
			continue
		}
		cr := r.ConnectionRequest
		sp := s.publicLocked(userID, r.SenderID)
		cr.SenderProfile = &sp
		out.Requests = append(out.Requests, cr)
	}
	total := len(out.Requests)
	out.Total = &total
	return out
}

// Respond answers a pending request addressed to userID.
func (s *Store) Respond(userID, requestID string, action models.RespondAction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r *request
	for _, cand := range s.requests {
		if cand.ID == requestID && cand.ReceiverID == userID {
			r = cand
			break
		}
	}
	if r == nil {
		return "", fail(http.StatusNotFound, "Connection request not found")
	}
	if r.Status != models.RequestPending {
		return "", fail(http.StatusBadRequest, "Connection request already answered")
	}

	switch action {
	case models.ActionAccept:
		r.Status = models.RequestAccepted
		s.connected[pairKey(r.SenderID, r.ReceiverID)] = true
		return "Connection request accepted", nil
	case models.ActionReject:
		r.Status = models.RequestRejected
		return "Connection request rejected", nil
	default:
		return "", fail(http.StatusBadRequest, "action must be accept or reject")
	}
}

// Connections lists the users connected with userID, by name.
func (s *Store) Connections(userID string) []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Profile{}
	for id := range s.users {
		if id != userID && s.connected[pairKey(userID, id)] {
			out = append(out, s.publicLocked(userID, id))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Disconnect removes the connection between userID and other.
func (s *Store) Disconnect(userID, other string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(userID, other)
	if !s.connected[key] {
		return fail(http.StatusNotFound, "Connection not found")
	}
	delete(s.connected, key)
	return nil
}

// OpenConversation returns the conversation between userID and target,
// creating it on first use. Only connected users may talk.
func (s *Store) OpenConversation(userID, target string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[target]; !ok {
		return nil, fail(http.StatusNotFound, "User not found")
	}
	key := pairKey(userID, target)
	if !s.connected[key] {
		return nil, fail(http.StatusForbidden, "You can only message users you are connected with")
	}

	id, ok := s.convsByPair[key]
	if !ok {
		id = uuid.NewString()
		s.convs[id] = &conversation{id: id, participants: [2]string{userID, target}}
		s.convsByPair[key] = id
	}
	return s.conversationLocked(s.convs[id]), nil
}

func (s *Store) conversationLocked(c *conversation) *models.Conversation {
	out := &models.Conversation{
		ID:               c.id,
		ParticipantIDs:   []string{c.participants[0], c.participants[1]},
		ParticipantNames: map[string]string{},
	}
	for _, id := range c.participants {
		out.ParticipantNames[id] = s.users[id].name
	}
	return out
}

func (s *Store) memberConvLocked(userID, convID string) (*conversation, error) {
	c, ok := s.convs[convID]
	if !ok {
		return nil, fail(http.StatusNotFound, "Conversation not found")
	}
	if c.participants[0] != userID && c.participants[1] != userID {
		return nil, fail(http.StatusForbidden, "Not a participant of this conversation")
	}
	return c, nil
}

// Messages returns a page of the conversation in arrival order. Messages
// from the other participant are marked read once returned.
func (s *Store) Messages(userID, convID string, skip, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.memberConvLocked(userID, convID)
	if err != nil {
		return nil, err
	}
	skip = max(skip, 0)
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip >= len(c.messages) {
		return []models.Message{}, nil
	}
	end := min(skip+limit, len(c.messages))

	page := append([]models.Message(nil), c.messages[skip:end]...)
	for i := skip; i < end; i++ {
		if c.messages[i].SenderID != userID {
			c.messages[i].Read = true
		}
	}
	return page, nil
}

// PostMessage appends a message from userID.
func (s *Store) PostMessage(userID string, in models.SendMessageInput) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.memberConvLocked(userID, in.ConversationID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fail(http.StatusBadRequest, "Message content is required")
	}
	if in.MessageType == "" {
		in.MessageType = models.MessageTypeText
	}
	m := models.Message{
		ID:             uuid.NewString(),
		ConversationID: c.id,
		SenderID:       userID,
		Content:        content,
		MessageType:    in.MessageType,
		Timestamp:      models.Timestamp{Time: s.now().UTC()},
	}
	c.messages = append(c.messages, m)
	return &m, nil
}
