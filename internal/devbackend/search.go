package devbackend

import (
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// Search ranks other users' profiles against req. The score is the share of
// requested skills and interests a profile has, in percent. Profiles without
// any match are left out. Role, experience, availability and location only
// break ties.
func (s *Store) Search(userID string, req models.SearchRequest) (*models.SearchResult, error) {
	skills := normalize(req.RequiredSkills)
	interests := normalize(req.Interests)
	if len(skills) == 0 {
		return nil, fail(http.StatusBadRequest, "At least one required skill is needed")
	}
	wanted := len(skills) + len(interests)

	s.mu.Lock()
	defer s.mu.Unlock()

	type hit struct {
		m     models.MatchedProfile
		bonus int
	}
	var hits []hit
	for id, u := range s.users {
		if id == userID || u.profile == nil {
			continue
		}
		p := s.publicLocked(userID, id)
		ms := intersect(p.Skills, skills)
		mi := intersect(p.Interests, interests)
		if len(ms)+len(mi) == 0 {
			continue
		}
		score := int(math.Round(100 * float64(len(ms)+len(mi)) / float64(wanted)))
		hits = append(hits, hit{
			m: models.MatchedProfile{
				Profile:          p,
				MatchScore:       score,
				MatchedSkills:    ms,
				MatchedInterests: mi,
			},
			bonus: attributeBonus(p, req),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.m.MatchScore != b.m.MatchScore {
			return a.m.MatchScore > b.m.MatchScore
		}
		if a.bonus != b.bonus {
			return a.bonus > b.bonus
		}
		return a.m.ID < b.m.ID
	})

	out := &models.SearchResult{Profiles: make([]models.MatchedProfile, 0, len(hits)), Total: len(hits)}
	for _, h := range hits {
		out.Profiles = append(out.Profiles, h.m)
	}
	return out, nil
}

func normalize(items []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range items {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// intersect returns the entries of have found in want (lowercase), in the
// profile's own spelling.
func intersect(have, want []string) []string {
	out := []string{}
	for _, h := range have {
		lh := strings.ToLower(strings.TrimSpace(h))
		for _, w := range want {
			if lh == w {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func attributeBonus(p models.Profile, req models.SearchRequest) int {
	n := 0
	for _, pair := range [][2]string{
		{p.Role, req.Role},
		{p.Experience, req.Experience},
		{p.Availability, req.Availability},
		{p.Location, req.Location},
	} {
		if pair[1] != "" && strings.EqualFold(strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])) {
			n++
		}
	}
	return n
}
