package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
)

var (
	// ErrInFlight is returned when the same action on the same entity is
	// already outstanding.
	ErrInFlight = errors.New("action already in progress")
	// ErrIllegalTransition is returned for an event the current connection
	// status has no edge for.
	ErrIllegalTransition = errors.New("illegal connection state transition")
	// ErrRespondInInbox is returned by Connect when the target has already
	// sent the viewer a request; it must be answered from the inbox.
	ErrRespondInInbox = errors.New("this user already sent you a request, respond to it from your inbox")
	// ErrDeclined is returned when the user did not confirm a destructive action.
	ErrDeclined = errors.New("action not confirmed")
	// ErrNoSkills blocks a team search without required skills.
	ErrNoSkills = errors.New("add at least one required skill to search")
	// ErrRequestNotFound is returned for a request id that is not in the inbox.
	ErrRequestNotFound = errors.New("connection request not found in inbox")
	// ErrNoProfile means the current user has not created a profile yet.
	ErrNoProfile = errors.New("profile not created yet")
	// ErrNotConnected is the "connect first" answer to opening a chat.
	ErrNotConnected = errors.New("You need to connect with this user before you can chat. Send a connection request first.")
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")
	ErrNoChat       = errors.New("no conversation is open")
)

// IncompleteProfileError lists the profile fields that block team search.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return "Please complete your profile before searching. Missing: " + strings.Join(e.Missing, ", ")
}

// Fallback texts for failures without a usable server detail.
const (
	MsgSearchFailed   = "Search failed. Please try again."
	MsgNetworkFailure = "Cannot reach the server. Check your connection and try again."
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgForbidden      = "You are not allowed to do that."
	MsgGeneric        = "Something went wrong. Please try again."
)

// Describe turns err into the text shown in an error banner.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var incomplete *IncompleteProfileError
	if errors.As(err, &incomplete) {
		return incomplete.Error()
	}
	for _, known := range []error{
		ErrInFlight, ErrIllegalTransition, ErrRespondInInbox, ErrDeclined, ErrNoSkills,
		ErrRequestNotFound, ErrNoProfile, ErrNotConnected, ErrEmptyMessage, ErrSendInFlight, ErrNoChat,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	switch client.Classify(err) {
	case client.KindNetworkFailure:
		return MsgNetworkFailure
	case client.KindAuthExpired:
		return MsgSessionExpired
	case client.KindAuthorization:
		if d := client.DetailOf(err); d != "" {
			return d
		}
		return MsgForbidden
	default:
		if d := client.DetailOf(err); d != "" {
			return d
		}
		return MsgGeneric
	}
}
