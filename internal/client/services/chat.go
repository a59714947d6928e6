package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
)

const DefaultPageSize = 50

// Identity tells the viewer's own user id. *session.Session implements it.
type Identity interface {
	UserID() string
}

// ChatService opens chat sessions.
type ChatService struct {
	client   client.Client
	me       Identity
	pageSize int
	log      logging.Logger
}

func NewChatService(c client.Client, me Identity, pageSize int, log logging.Logger) *ChatService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logging.Nop()
	}
	return &ChatService{client: c, me: me, pageSize: pageSize, log: log}
}

// Open returns a chat with targetUserID. Without a conversation id one is
// created first; the backend refuses that for users who are not connected,
// which is reported as ErrNotConnected. History is loaded before returning.
func (s *ChatService) Open(ctx context.Context, targetUserID, conversationID string) (*ChatSession, error) {
	var conv *models.Conversation
	if conversationID == "" {
		if targetUserID == "" {
			return nil, errors.New("target user id is required")
		}
		var err error
		conv, err = s.client.CreateConversation(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, client.ErrForbidden) {
				return nil, ErrNotConnected
			}
			return nil, fmt.Errorf("open conversation: %w", err)
		}
		conversationID = conv.ID
	} else {
		conv = &models.Conversation{ID: conversationID}
	}

	cs := &ChatSession{
		svc:          s,
		conversation: *conv,
		targetUserID: targetUserID,
		seen:         make(map[string]struct{}),
	}
	if err := cs.Reload(ctx); err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "chat opened", "conversation_id", conversationID, "messages", len(cs.messages))
	return cs, nil
}

// ChatSession is one open conversation. Messages are kept in server
// insertion order. A message this session sent is shown at the end until a
// page from the server places it.
type ChatSession struct {
	svc          *ChatService
	conversation models.Conversation
	targetUserID string

	mu sync.Mutex
	// messages came from history pages; its length is the paging cursor.
	messages []models.Message
	seen     map[string]struct{}
	// sent holds own messages not yet returned by a page.
	sent    []models.Message
	draft   string
	sending bool
	banner  string
}

func (c *ChatSession) ID() string                        { return c.conversation.ID }
func (c *ChatSession) TargetUserID() string              { return c.targetUserID }
func (c *ChatSession) Conversation() models.Conversation { return c.conversation }

func (c *ChatSession) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messagesLocked()
}

func (c *ChatSession) messagesLocked() []models.Message {
	out := make([]models.Message, 0, len(c.messages)+len(c.sent))
	out = append(out, c.messages...)
	return append(out, c.sent...)
}

// Reload fetches the first page of history and appends unseen messages.
func (c *ChatSession) Reload(ctx context.Context) error {
	msgs, err := c.svc.client.Messages(ctx, c.conversation.ID, 0, c.svc.pageSize)
	if err != nil {
		c.setBanner(Describe(err))
		return fmt.Errorf("load messages: %w", err)
	}
	c.appendUnseen(msgs)
	return nil
}

// Poll fetches messages past the last one received from the server and
// returns those that were not shown before. Own messages from Send do not
// move the cursor, so messages posted by the peer in between are not
// skipped.
func (c *ChatSession) Poll(ctx context.Context) ([]models.Message, error) {
	c.mu.Lock()
	skip := len(c.messages)
	c.mu.Unlock()

	msgs, err := c.svc.client.Messages(ctx, c.conversation.ID, skip, c.svc.pageSize)
	if err != nil {
		c.setBanner(Describe(err))
		return nil, fmt.Errorf("poll messages: %w", err)
	}
	return c.appendUnseen(msgs), nil
}

func (c *ChatSession) appendUnseen(msgs []models.Message) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var fresh []models.Message
	for _, m := range msgs {
		if _, ok := c.seen[m.ID]; ok && m.ID != "" {
			continue
		}
		c.seen[m.ID] = struct{}{}
		c.messages = append(c.messages, m)
		if !c.takeSentLocked(m.ID) {
			fresh = append(fresh, m)
		}
	}
	return fresh
}

// takeSentLocked drops id from the locally sent tail.
func (c *ChatSession) takeSentLocked(id string) bool {
	if id == "" {
		return false
	}
	for i, m := range c.sent {
		if m.ID == id {
			c.sent = append(c.sent[:i], c.sent[i+1:]...)
			return true
		}
	}
	return false
}

func (c *ChatSession) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

func (c *ChatSession) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Sending reports whether a send is outstanding.
func (c *ChatSession) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Banner is the text of the last failure, cleared by the next success.
func (c *ChatSession) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

func (c *ChatSession) setBanner(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = s
}

// Send posts the draft. The draft is cleared only when the backend accepts
// the message; the returned message is appended as is.
func (c *ChatSession) Send(ctx context.Context) (*models.Message, error) {
	c.mu.Lock()
	content := strings.TrimSpace(c.draft)
	if content == "" {
		c.mu.Unlock()
		return nil, ErrEmptyMessage
	}
	if c.sending {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	c.sending = true
	c.mu.Unlock()

	msg, err := c.svc.client.SendMessage(ctx, models.SendMessageInput{
		ConversationID: c.conversation.ID,
		Content:        content,
		MessageType:    models.MessageTypeText,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sending = false
	if err != nil {
		c.banner = Describe(err)
		c.svc.log.Warn(ctx, "send message failed", "conversation_id", c.conversation.ID, "error", err)
		return nil, fmt.Errorf("send message: %w", err)
	}
	if _, paged := c.seen[msg.ID]; !paged || msg.ID == "" {
		c.sent = append(c.sent, *msg)
	}
	c.draft = ""
	c.banner = ""
	out := *msg
	return &out, nil
}

// IsMine reports whether m was sent by the viewer.
func (c *ChatSession) IsMine(m models.Message) bool {
	me := c.svc.me.UserID()
	return me != "" && m.SenderID == me
}

// Unread counts incoming messages not yet marked read by the server.
func (c *ChatSession) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messagesLocked() {
		if !m.Read && !c.IsMine(m) {
			n++
		}
	}
	return n
}
