package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

func printf(format string, args ...any) {
	printlnFn(fmt.Sprintf(format, args...))
}

// execIface defines the command surface the REPL drives.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	SignIn(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Search(ctx context.Context) error
	Connect(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Inbox(ctx context.Context) error
	Accept(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Connections(ctx context.Context) error
	Disconnect(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	Poll(ctx context.Context) error
	History(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, signin, exit"
	helpSignedIn  = "Available commands: whoami, profile, editprofile, search, connect <id>, status <id>, " +
		"inbox, accept <request-id>, reject <request-id>, connections, disconnect <id>, " +
		"chat <user-id> [conversation-id], send [text], poll, history, logout, exit"
)

// runREPL reads commands from scanner until EOF or "exit"/"quit".
//
// The prompt shows statusFn(). Commands that need a session are refused
// while signed out. A failed command prints a user-facing message and the
// loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lp %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if _, needsSession := sessionCommands[cmd]; needsSession && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
		case "login":
			err = a.Login(ctx)
		case "signin":
			err = a.SignIn(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "editprofile":
			err = a.EditProfile(ctx)
		case "search":
			err = a.Search(ctx)
		case "connect":
			err = a.Connect(ctx, args)
		case "status":
			err = a.Status(ctx, args)
		case "inbox":
			err = a.Inbox(ctx)
		case "accept":
			err = a.Accept(ctx, args)
		case "reject":
			err = a.Reject(ctx, args)
		case "connections":
			err = a.Connections(ctx)
		case "disconnect":
			err = a.Disconnect(ctx, args)
		case "chat":
			err = a.Chat(ctx, args)
		case "send":
			err = a.Send(ctx, args)
		case "poll":
			err = a.Poll(ctx)
		case "history":
			err = a.History(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			reportError(err)
		}
	}
}

// reportError prints the user-facing text for a failed command. An expired
// session is announced by the next prompt instead.
func reportError(err error) {
	var usage errUsage
	switch {
	case errors.As(err, &usage):
		printlnFn(usage.Error())
	case client.Classify(err) == client.KindAuthExpired:
	default:
		printlnFn(services.Describe(err))
	}
}

// sessionCommands are refused while signed out.
var sessionCommands = map[string]struct{}{
	"whoami": {}, "profile": {}, "editprofile": {}, "search": {}, "connect": {}, "status": {},
	"inbox": {}, "accept": {}, "reject": {}, "connections": {}, "disconnect": {},
	"chat": {}, "send": {}, "poll": {}, "history": {}, "logout": {},
}

// errUsage is returned for malformed command arguments.
type errUsage string

func (e errUsage) Error() string { return "Usage: " + string(e) }
