package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
	fail  map[string]error
}

func newFakeExec(loggedIn bool) *fakeExec {
	return &fakeExec{loggedIn: loggedIn, args: map[string][]string{}, fail: map[string]error{}}
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if args != nil {
		f.args[name] = args
	}
	return f.fail[name]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.loggedIn = true
	return f.record("signin", nil)
}
func (f *fakeExec) WhoAmI(ctx context.Context) error      { return f.record("whoami", nil) }
func (f *fakeExec) Profile(ctx context.Context) error     { return f.record("profile", nil) }
func (f *fakeExec) EditProfile(ctx context.Context) error { return f.record("editprofile", nil) }
func (f *fakeExec) Search(ctx context.Context) error      { return f.record("search", nil) }
func (f *fakeExec) Connect(ctx context.Context, args []string) error {
	return f.record("connect", args)
}
func (f *fakeExec) Status(ctx context.Context, args []string) error {
	return f.record("status", args)
}
func (f *fakeExec) Inbox(ctx context.Context) error { return f.record("inbox", nil) }
func (f *fakeExec) Accept(ctx context.Context, args []string) error {
	return f.record("accept", args)
}
func (f *fakeExec) Reject(ctx context.Context, args []string) error {
	return f.record("reject", args)
}
func (f *fakeExec) Connections(ctx context.Context) error { return f.record("connections", nil) }
func (f *fakeExec) Disconnect(ctx context.Context, args []string) error {
	return f.record("disconnect", args)
}
func (f *fakeExec) Chat(ctx context.Context, args []string) error { return f.record("chat", args) }
func (f *fakeExec) Send(ctx context.Context, args []string) error { return f.record("send", args) }
func (f *fakeExec) Poll(ctx context.Context) error                { return f.record("poll", nil) }
func (f *fakeExec) History(ctx context.Context) error             { return f.record("history", nil) }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

// captureOutput swaps printlnFn for a recorder for the rest of the test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func scannerOf(lines ...string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	captureOutput(t)
	exec := newFakeExec(false)

	runREPL(context.Background(), exec, func() string { return "status" }, scannerOf(
		"help",
		"login",
		"whoami",
		"search",
		"CONNECT u1 hello there",
		"status u1",
		"inbox",
		"accept r1",
		"reject r2",
		"connections",
		"disconnect u1",
		"chat u1 c1",
		"send hi",
		"poll",
		"history",
		"profile",
		"editprofile",
		"logout",
		"exit",
		"inbox",
	))

	want := []string{
		"login", "whoami", "search", "connect", "status", "inbox", "accept", "reject",
		"connections", "disconnect", "chat", "send", "poll", "history", "profile", "editprofile", "logout",
	}
	assert.Equal(t, want, exec.calls)
	assert.Equal(t, []string{"u1", "hello", "there"}, exec.args["connect"])
	assert.Equal(t, []string{"u1", "c1"}, exec.args["chat"])
	assert.Equal(t, []string{"hi"}, exec.args["send"])
}

func TestRunREPL_RefusesSessionCommandsWhenSignedOut(t *testing.T) {
	out := captureOutput(t)
	exec := newFakeExec(false)

	runREPL(context.Background(), exec, func() string { return "signed out" }, scannerOf("inbox", "connect u1", "frobnicate", "quit"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Please log in first.")
	assert.Contains(t, *out, "Unknown command: frobnicate")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	out := captureOutput(t)
	exec := newFakeExec(true)
	exec.fail["connect"] = errUsage("connect <user-id> [message]")
	exec.fail["inbox"] = &client.APIError{StatusCode: 400, Detail: "Connection request already sent"}
	exec.fail["search"] = &services.IncompleteProfileError{Missing: []string{"Skills"}}
	exec.fail["poll"] = &client.APIError{StatusCode: 401}
	exec.fail["history"] = services.ErrNoChat

	runREPL(context.Background(), exec, func() string { return "" }, scannerOf("connect", "inbox", "search", "poll", "history"))

	assert.Contains(t, *out, "Usage: connect <user-id> [message]")
	assert.Contains(t, *out, "Connection request already sent")
	assert.Contains(t, *out, "Please complete your profile before searching. Missing: Skills")
	assert.Contains(t, *out, services.ErrNoChat.Error())
	assert.NotContains(t, *out, services.MsgSessionExpired)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)
	runREPL(context.Background(), newFakeExec(false), func() string { return "" }, scannerOf("help"))
	require.Contains(t, *out, helpSignedOut)

	*out = nil
	runREPL(context.Background(), newFakeExec(true), func() string { return "" }, scannerOf("help"))
	require.Contains(t, *out, helpSignedIn)
}

func TestErrUsage(t *testing.T) {
	var err error = errUsage("x <y>")
	var u errUsage
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &u))
	assert.Equal(t, "Usage: x <y>", u.Error())
}
