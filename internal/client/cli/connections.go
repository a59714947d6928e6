package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// Connect sends a connection request to the user with the given id.
func (a *App) Connect(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("connect <user-id> [message]")
	}
	message := ""
	if len(args) > 1 {
		message = joinArgs(args[1:])
	}
	status, err := a.conns.Connect(ctx, args[0], message)
	a.printNotices()
	if err != nil {
		return err
	}
	printf("Status: %s", status)
	return nil
}

// Status prints the tracked connection status for a user.
func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("status <user-id>")
	}
	st := a.conns.State(args[0])
	line := fmt.Sprintf("%s: %s", args[0], st.Status)
	if st.Pending {
		line += " (pending)"
	}
	printlnFn(line)
	return nil
}

// Inbox lists pending received requests.
func (a *App) Inbox(ctx context.Context) error {
	reqs, err := a.inbox.Load(ctx)
	if err != nil {
		return err
	}
	printf("%d pending request(s).", a.inbox.PendingCount())
	for _, r := range reqs {
		printRequest(r)
	}
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("accept <request-id>")
	}
	if err := a.inbox.Accept(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Request accepted. You are now connected.")
	return nil
}

func (a *App) Reject(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("reject <request-id>")
	}
	if err := a.inbox.Reject(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Request rejected.")
	return nil
}

// Connections refreshes and lists the user's connections.
func (a *App) Connections(ctx context.Context) error {
	list, err := a.conns.RefreshConnections(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No connections yet.")
		return nil
	}
	for _, p := range list {
		printf("%s  (%s)  id: %s", p.Name, orDash(p.Role), p.ID)
	}
	return nil
}

// Disconnect removes a connection after a y/N confirmation.
func (a *App) Disconnect(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("disconnect <user-id>")
	}
	if err := a.conns.Disconnect(ctx, args[0], a.confirm); err != nil {
		return err
	}
	printlnFn("Connection removed.")
	return nil
}

func (a *App) printNotices() {
	for _, n := range a.conns.Notices().Drain() {
		printlnFn("* " + n.Text)
	}
}

func printRequest(r models.ConnectionRequest) {
	line := fmt.Sprintf("%s  from %s", r.ID, r.SenderName())
	if r.SenderProfile != nil && r.SenderProfile.Role != "" {
		line += " (" + r.SenderProfile.Role + ")"
	}
	printlnFn(line)
	if r.Message != "" {
		printf("    %q", r.Message)
	}
}
