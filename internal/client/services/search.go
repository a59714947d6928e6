package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
)

// Requirements collects team search criteria. Skills and interests are
// trimmed and de-duplicated case-insensitively, keeping the first spelling
// and insertion order.
type Requirements struct {
	skills       []string
	interests    []string
	role         string
	experience   string
	availability string
	location     string
}

func (r *Requirements) AddSkill(s string) bool       { return addUnique(&r.skills, s) }
func (r *Requirements) RemoveSkill(s string) bool    { return removeFold(&r.skills, s) }
func (r *Requirements) AddInterest(s string) bool    { return addUnique(&r.interests, s) }
func (r *Requirements) RemoveInterest(s string) bool { return removeFold(&r.interests, s) }

func (r *Requirements) SetRole(v string)         { r.role = strings.TrimSpace(v) }
func (r *Requirements) SetExperience(v string)   { r.experience = strings.TrimSpace(v) }
func (r *Requirements) SetAvailability(v string) { r.availability = strings.TrimSpace(v) }
func (r *Requirements) SetLocation(v string)     { r.location = strings.TrimSpace(v) }

func (r *Requirements) Skills() []string    { return append([]string(nil), r.skills...) }
func (r *Requirements) Interests() []string { return append([]string(nil), r.interests...) }

// Request builds the POST /api/team-search body.
func (r *Requirements) Request() models.SearchRequest {
	return models.SearchRequest{
		RequiredSkills: r.Skills(),
		Interests:      r.Interests(),
		Role:           r.role,
		Experience:     r.experience,
		Availability:   r.availability,
		Location:       r.location,
	}
}

func addUnique(list *[]string, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, have := range *list {
		if strings.EqualFold(have, v) {
			return false
		}
	}
	*list = append(*list, v)
	return true
}

func removeFold(list *[]string, v string) bool {
	v = strings.TrimSpace(v)
	for i, have := range *list {
		if strings.EqualFold(have, v) {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// SearchPresenter runs team searches and holds the last result set.
type SearchPresenter struct {
	client   client.Client
	profiles *ProfileService
	conns    *ConnectionService
	log      logging.Logger

	mu      sync.Mutex
	results []models.MatchedProfile
	total   int
	errMsg  string
}

func NewSearchPresenter(c client.Client, profiles *ProfileService, conns *ConnectionService, log logging.Logger) *SearchPresenter {
	if log == nil {
		log = logging.Nop()
	}
	return &SearchPresenter{client: c, profiles: profiles, conns: conns, log: log}
}

// Search validates req against the viewer's profile and runs it. Results
// keep the server's order.
func (p *SearchPresenter) Search(ctx context.Context, req models.SearchRequest) ([]models.MatchedProfile, error) {
	req.RequiredSkills = dedupFold(req.RequiredSkills)
	req.Interests = dedupFold(req.Interests)
	if len(req.RequiredSkills) == 0 {
		p.fail(ErrNoSkills.Error())
		return nil, ErrNoSkills
	}

	own, err := p.profiles.Get(ctx)
	switch {
	case errors.Is(err, ErrNoProfile):
		own = nil
	case err != nil:
		p.fail(Describe(err))
		return nil, err
	}
	if missing := models.MissingFields(own); len(missing) > 0 {
		ierr := &IncompleteProfileError{Missing: missing}
		p.fail(ierr.Error())
		return nil, ierr
	}

	res, err := p.client.TeamSearch(ctx, req)
	if err != nil {
		msg := client.DetailOf(err)
		if msg == "" {
			msg = MsgSearchFailed
		}
		p.fail(msg)
		p.log.Warn(ctx, "team search failed", "error", err)
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(res.Profiles))
	for _, m := range res.Profiles {
		profiles = append(profiles, m.Profile)
	}
	p.conns.Track(profiles...)

	p.mu.Lock()
	p.results = append([]models.MatchedProfile(nil), res.Profiles...)
	p.total = res.Total
	p.errMsg = ""
	p.mu.Unlock()

	p.log.Debug(ctx, "team search done", "results", len(res.Profiles), "total", res.Total)
	return p.Results(), nil
}

// Results returns the last results with statuses overlaid from the
// connection state machine.
func (p *SearchPresenter) Results() []models.MatchedProfile {
	p.mu.Lock()
	out := append([]models.MatchedProfile(nil), p.results...)
	p.mu.Unlock()
	for i := range out {
		out[i].ConnectionStatus = p.conns.Status(out[i].ID)
	}
	return out
}

func (p *SearchPresenter) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Error is the message of the last failed search, or "".
func (p *SearchPresenter) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *SearchPresenter) fail(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = nil
	p.total = 0
	p.errMsg = msg
}

func dedupFold(items []string) []string {
	var out []string
	for _, s := range items {
		addUnique(&out, s)
	}
	return out
}
