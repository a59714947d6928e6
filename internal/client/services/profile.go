package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// ProfileService caches the current user's own profile.
type ProfileService struct {
	client client.Client

	mu     sync.Mutex
	cached *models.Profile
}

func NewProfileService(c client.Client) *ProfileService {
	return &ProfileService{client: c}
}

// Get returns the cached profile, fetching it on first use.
// ErrNoProfile is returned when the user has none yet.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	if s.cached != nil {
		p := cloneProfile(*s.cached)
		s.mu.Unlock()
		return &p, nil
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh always fetches GET /profile.
func (s *ProfileService) Refresh(ctx context.Context) (*models.Profile, error) {
	p, err := s.client.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			s.Invalidate()
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	s.store(p)
	out := cloneProfile(*p)
	return &out, nil
}

// Save creates or updates the profile. List fields are trimmed and emptied
// of blanks before sending.
func (s *ProfileService) Save(ctx context.Context, p models.Profile) (*models.Profile, error) {
	p.Skills = cleanList(p.Skills)
	p.Interests = cleanList(p.Interests)

	_, err := s.Get(ctx)
	var saved *models.Profile
	switch {
	case err == nil:
		saved, err = s.client.UpdateProfile(ctx, p)
	case errors.Is(err, ErrNoProfile):
		saved, err = s.client.CreateProfile(ctx, p)
	default:
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	s.store(saved)
	out := cloneProfile(*saved)
	return &out, nil
}

// Missing lists the labels of incomplete fields of p.
func (s *ProfileService) Missing(p *models.Profile) []string {
	return models.MissingFields(p)
}

func (s *ProfileService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

func (s *ProfileService) store(p *models.Profile) {
	c := cloneProfile(*p)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = &c
}

func cloneProfile(p models.Profile) models.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Interests = append([]string(nil), p.Interests...)
	return p
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
