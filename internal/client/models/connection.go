package models

// ConnectionStatus is the relationship between the viewer and another user.
type ConnectionStatus string

const (
	StatusNotConnected    ConnectionStatus = "not_connected"
	StatusRequestSent     ConnectionStatus = "request_sent"
	StatusRequestReceived ConnectionStatus = "request_received"
	StatusConnected       ConnectionStatus = "connected"
)

// Valid reports whether s is one of the four known statuses.
func (s ConnectionStatus) Valid() bool {
	switch s {
	case StatusNotConnected, StatusRequestSent, StatusRequestReceived, StatusConnected:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a connection request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// ConnectionRequest is a request from SenderID to ReceiverID.
type ConnectionRequest struct {
	ID            string        `json:"id"`
	SenderID      string        `json:"sender_id"`
	ReceiverID    string        `json:"receiver_id"`
	Status        RequestStatus `json:"status"`
	Message       string        `json:"message"`
	CreatedAt     Timestamp     `json:"created_at"`
	SenderProfile *Profile      `json:"sender_profile,omitempty"`
}

// SenderName returns the best display name for the sender.
func (r ConnectionRequest) SenderName() string {
	if r.SenderProfile != nil && r.SenderProfile.Name != "" {
		return r.SenderProfile.Name
	}
	return r.SenderID
}

// SendRequestStatus is the outcome the backend reports for a new request.
type SendRequestStatus string

const (
	// SendSent means a pending request was created.
	SendSent SendRequestStatus = "sent"
	// SendAccepted means the target had already requested the viewer and
	// the backend connected the pair straight away.
	SendAccepted SendRequestStatus = "accepted"
)

// SendRequestInput is the body of POST /api/connection-requests.
type SendRequestInput struct {
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

// SendRequestResult is the response of POST /api/connection-requests.
type SendRequestResult struct {
	RequestID string            `json:"request_id"`
	Status    SendRequestStatus `json:"status"`
}

// ReceivedRequests is the response of GET /api/connection-requests/received.
type ReceivedRequests struct {
	Requests []ConnectionRequest `json:"requests"`
	Total    *int                `json:"total,omitempty"`
}

// RespondAction is the decision on a received request.
type RespondAction string

const (
	ActionAccept RespondAction = "accept"
	ActionReject RespondAction = "reject"
)

// RespondInput is the body of POST /api/connection-requests/{id}/respond.
type RespondInput struct {
	Action RespondAction `json:"action"`
}

// MessageResponse is the generic {"message": "..."} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ConnectionsList is the response of GET /api/connections.
type ConnectionsList struct {
	Connections []Profile `json:"connections"`
}
