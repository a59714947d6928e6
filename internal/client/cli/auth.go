package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/session"
)

// Login signs in with an access token pasted by the user.
func (a *App) Login(ctx context.Context) error {
	token, err := getToken(a.out)
	if err != nil {
		return err
	}
	return a.startSession(ctx, token)
}

// SignIn exchanges email and password for a token and signs in with it.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			printlnFn("Invalid email or password.")
			return nil
		}
		return err
	}
	return a.startSession(ctx, res.AccessToken)
}

func (a *App) startSession(ctx context.Context, token string) error {
	if err := a.sess.SignIn(ctx, token); err != nil {
		if errors.Is(err, session.ErrNoToken) || errors.Is(err, session.ErrMalformedToken) || errors.Is(err, session.ErrNoSubject) {
			printlnFn("That does not look like a valid access token.")
			return nil
		}
		return err
	}
	a.expired.Store(false)
	a.wire()
	a.showDashboard(ctx)
	return nil
}

// WhoAmI prints the signed-in user and a dashboard summary.
func (a *App) WhoAmI(ctx context.Context) error {
	printf("User id: %s", a.sess.UserID())
	a.showDashboard(ctx)
	return nil
}

// Logout clears the stored session and everything cached for the user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sess.SignOut(ctx); err != nil {
		return err
	}
	a.wire()
	printlnFn("Logged out.")
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
