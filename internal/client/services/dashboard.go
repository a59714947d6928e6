package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// Dashboard is the landing view after sign-in.
type Dashboard struct {
	Profile      *models.Profile
	Missing      []string
	PendingCount int
	Connections  []models.Profile
}

// LoadDashboard fetches the profile, the inbox and the connections list
// concurrently. A missing profile is not an error.
func LoadDashboard(ctx context.Context, profiles *ProfileService, inbox *InboxService, conns *ConnectionService) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := profiles.Refresh(ctx)
		if err != nil && !errors.Is(err, ErrNoProfile) {
			return err
		}
		d.Profile = p
		d.Missing = models.MissingFields(p)
		return nil
	})
	g.Go(func() error {
		if _, err := inbox.Load(ctx); err != nil {
			return err
		}
		d.PendingCount = inbox.PendingCount()
		return nil
	})
	g.Go(func() error {
		list, err := conns.RefreshConnections(ctx)
		if err != nil {
			return err
		}
		d.Connections = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
