package cli

import (
	"bufio"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/client/config"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
	"github.com/dmitrijs2005/launchpad/internal/devbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	srv   *devbackend.Server
	users map[string]devbackend.SeedUser
	cfg   *config.Config
}

func startBackend(t *testing.T) *backend {
	t.Helper()
	st := devbackend.NewStore(nil)
	seeded, err := devbackend.Seed(st)
	require.NoError(t, err)
	srv := devbackend.New(st, devbackend.Config{Secret: []byte("cli-test"), TokenTTL: time.Hour})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.ServerURL = "http://" + ln.Addr().String()
	cfg.SettleDelay = 10 * time.Millisecond
	cfg.DBPath = filepath.Join(t.TempDir(), "launchpad.db")

	users := map[string]devbackend.SeedUser{}
	for _, u := range seeded {
		users[strings.Fields(u.Name)[0]] = u
	}
	return &backend{srv: srv, users: users, cfg: &cfg}
}

func (b *backend) token(t *testing.T, name string) string {
	t.Helper()
	tok, err := b.srv.IssueToken(b.users[name].ID)
	require.NoError(t, err)
	return tok
}

func (b *backend) app(t *testing.T) *App {
	t.Helper()
	return b.appAt(t, b.cfg.DBPath)
}

// appAt starts an App keeping its session in its own database file.
func (b *backend) appAt(t *testing.T, dbPath string) *App {
	t.Helper()
	cfg := *b.cfg
	cfg.DBPath = dbPath
	a, err := NewApp(context.Background(), &cfg, nil)
	require.NoError(t, err)
	a.out = io.Discard
	return a
}

// scriptAnswers feeds answers to every text prompt in order.
func scriptAnswers(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	t.Cleanup(func() { getSimpleText = orig })
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
}

func stubToken(t *testing.T, token string) {
	t.Helper()
	orig := getToken
	t.Cleanup(func() { getToken = orig })
	getToken = func(io.Writer) (string, error) { return token, nil }
}

func TestApp_LoginInboxAcceptAndChat(t *testing.T) {
	b := startBackend(t)
	out := captureOutput(t)
	ctx := context.Background()
	a := b.app(t)

	stubToken(t, b.token(t, "Ada"))
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, *out, "Signed in as Ada Builder. 1 pending request(s), 1 connection(s).")
	assert.Contains(t, a.status(), "inbox:1")

	require.NoError(t, a.Inbox(ctx))
	assert.Contains(t, strings.Join(*out, "\n"), "from Ben Pixel (Designer)")

	reqID := a.inbox.Requests()[0].ID
	require.NoError(t, a.Accept(ctx, []string{reqID}))
	a.conns.Wait()
	ben := b.users["Ben"].ID
	require.NoError(t, a.Status(ctx, []string{ben}))
	assert.Contains(t, *out, ben+": connected")
	assert.NotContains(t, a.status(), "inbox:")

	require.NoError(t, a.Chat(ctx, []string{ben}))
	require.NoError(t, a.Send(ctx, []string{"hello", "Ben"}))
	assert.True(t, strings.HasSuffix((*out)[len(*out)-1], "you: hello Ben"))
	require.NoError(t, a.Poll(ctx))
	assert.Equal(t, "No new messages.", (*out)[len(*out)-1])

	require.NoError(t, a.Close())

	// The session survives a restart.
	again := b.app(t)
	t.Cleanup(func() { _ = again.Close() })
	require.True(t, again.isLoggedIn())
	assert.Equal(t, b.users["Ada"].ID, again.sess.UserID())

	require.NoError(t, again.Logout(ctx))
	assert.False(t, again.isLoggedIn())

	third := b.app(t)
	t.Cleanup(func() { _ = third.Close() })
	assert.False(t, third.isLoggedIn())
}

func TestApp_SignInEditProfileAndSearch(t *testing.T) {
	b := startBackend(t)
	out := captureOutput(t)
	ctx := context.Background()
	a := b.app(t)
	t.Cleanup(func() { _ = a.Close() })

	origPw := getPassword
	t.Cleanup(func() { getPassword = origPw })
	getPassword = func(io.Writer) ([]byte, error) { return []byte("wrong"), nil }

	scriptAnswers(t, b.users["Dev"].Email)
	require.NoError(t, a.SignIn(ctx))
	assert.Contains(t, *out, "Invalid email or password.")
	assert.False(t, a.isLoggedIn())

	getPassword = func(io.Writer) ([]byte, error) { return []byte(devbackend.SeedPassword), nil }
	scriptAnswers(t, b.users["Dev"].Email)
	require.NoError(t, a.SignIn(ctx))
	require.True(t, a.isLoggedIn())

	// Name, Email, Role, Experience, Availability, Location, Bio, Skills, Interests.
	scriptAnswers(t, "", "", "Growth Lead", "", "", "", "Loves funnels", "Growth, SEO, Go", "")
	require.NoError(t, a.EditProfile(ctx))
	assert.Contains(t, *out, "Profile saved.")
	p, err := a.profiles.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Growth Lead", p.Role)
	assert.Equal(t, []string{"Growth", "SEO", "Go"}, p.Skills)
	assert.Equal(t, []string{"Education"}, p.Interests)

	scriptAnswers(t, "", "", "", "", "", "")
	err = a.Search(ctx)
	require.ErrorIs(t, err, services.ErrNoSkills)

	scriptAnswers(t, "go, GO", "fintech", "", "", "", "Berlin")
	require.NoError(t, a.Search(ctx))
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "2 match(es):")
	assert.Contains(t, joined, "Ada Builder  [not_connected]")
	assert.Contains(t, joined, "Cleo Data  [not_connected]")
}

func TestApp_ConnectAndDisconnect(t *testing.T) {
	b := startBackend(t)
	out := captureOutput(t)
	ctx := context.Background()
	a := b.app(t)
	t.Cleanup(func() { _ = a.Close() })

	stubToken(t, b.token(t, "Dev"))
	require.NoError(t, a.Login(ctx))

	ada := b.users["Ada"].ID
	require.ErrorAs(t, a.Connect(ctx, nil), new(errUsage))
	require.NoError(t, a.Connect(ctx, []string{ada, "hi", "Ada"}))
	assert.Contains(t, *out, "* Connection request sent.")
	assert.Contains(t, *out, "Status: request_sent")
	require.ErrorIs(t, a.Connect(ctx, []string{ada}), services.ErrIllegalTransition)

	// Ada accepts from her side.
	adaApp := b.appAt(t, filepath.Join(t.TempDir(), "ada.db"))
	t.Cleanup(func() { _ = adaApp.Close() })
	stubToken(t, b.token(t, "Ada"))
	require.NoError(t, adaApp.Login(ctx))
	var fromDev string
	for _, r := range adaApp.inbox.Requests() {
		if r.SenderID == b.users["Dev"].ID {
			fromDev = r.ID
		}
	}
	require.NotEmpty(t, fromDev)
	require.NoError(t, adaApp.Accept(ctx, []string{fromDev}))

	require.NoError(t, a.Connections(ctx))
	assert.Contains(t, strings.Join(*out, "\n"), "Ada Builder  (Founder)")

	scriptAnswers(t, "n")
	require.ErrorIs(t, a.Disconnect(ctx, []string{ada}), services.ErrDeclined)
	scriptAnswers(t, "y")
	require.NoError(t, a.Disconnect(ctx, []string{ada}))
	assert.Contains(t, *out, "Connection removed.")

	require.ErrorIs(t, a.Chat(ctx, []string{ada}), services.ErrNotConnected)
	require.ErrorIs(t, a.Send(ctx, []string{"x"}), services.ErrNoChat)
}

func TestApp_RejectedTokenEndsSession(t *testing.T) {
	b := startBackend(t)
	out := captureOutput(t)
	ctx := context.Background()
	a := b.app(t)
	t.Cleanup(func() { _ = a.Close() })

	forged, err := devbackend.GenerateToken(b.users["Ada"].ID, []byte("not-the-secret"), time.Hour, time.Now())
	require.NoError(t, err)
	stubToken(t, forged)
	require.NoError(t, a.Login(ctx))

	assert.Equal(t, "signed out", a.status())
	count := 0
	for _, l := range *out {
		if l == services.MsgSessionExpired {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.False(t, a.isLoggedIn())
}

func TestApp_LoginRejectsGarbageToken(t *testing.T) {
	b := startBackend(t)
	out := captureOutput(t)
	a := b.app(t)
	t.Cleanup(func() { _ = a.Close() })

	stubToken(t, "not-a-token")
	require.NoError(t, a.Login(context.Background()))
	assert.Contains(t, *out, "That does not look like a valid access token.")
	assert.False(t, a.isLoggedIn())
}
