package models

// MessageType classifies message content. Only text is produced by the client.
type MessageType string

const MessageTypeText MessageType = "text"

// Conversation is a 1:1 conversation between two connected users.
type Conversation struct {
	ID               string            `json:"id"`
	ParticipantIDs   []string          `json:"participant_ids"`
	ParticipantNames map[string]string `json:"participant_names,omitempty"`
}

// Message is immutable once created. Ordering is the server's.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	SenderID       string      `json:"sender_id"`
	Content        string      `json:"content"`
	MessageType    MessageType `json:"message_type"`
	Timestamp      Timestamp   `json:"timestamp"`
	Read           bool        `json:"read"`
}

// CreateConversationInput is the body of POST /api/conversations.
type CreateConversationInput struct {
	TargetUserID string `json:"target_user_id"`
}

// SendMessageInput is the body of POST /api/messages.
type SendMessageInput struct {
	ConversationID string      `json:"conversation_id"`
	Content        string      `json:"content"`
	MessageType    MessageType `json:"message_type"`
}

// MessagesPage is the response of GET /api/messages/{conversation_id}.
type MessagesPage struct {
	Messages []Message `json:"messages"`
}
