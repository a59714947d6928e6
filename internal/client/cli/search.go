package cli

import (
	"context"

	"github.com/dmitrijs2005/launchpad/internal/client/services"
)

// Search asks for team requirements and lists the matching profiles with
// their connection status.
func (a *App) Search(ctx context.Context) error {
	var req services.Requirements

	skills, err := getSimpleText(a.reader, "Required skills (comma separated)", a.out)
	if err != nil {
		return err
	}
	for _, s := range splitList(skills) {
		req.AddSkill(s)
	}
	interests, err := getSimpleText(a.reader, "Interests (comma separated, optional)", a.out)
	if err != nil {
		return err
	}
	for _, s := range splitList(interests) {
		req.AddInterest(s)
	}

	for _, f := range []struct {
		label string
		set   func(string)
	}{
		{"Role (optional)", req.SetRole},
		{"Experience (optional)", req.SetExperience},
		{"Availability (optional)", req.SetAvailability},
		{"Location (optional)", req.SetLocation},
	} {
		v, err := getSimpleText(a.reader, f.label, a.out)
		if err != nil {
			return err
		}
		f.set(v)
	}

	results, err := a.search.Search(ctx, req.Request())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		printlnFn("No matching profiles.")
		return nil
	}
	printf("%d match(es):", a.search.Total())
	for _, m := range results {
		printf("%3d%%  %s  [%s]  id: %s", m.MatchScore, m.Name, m.ConnectionStatus, m.ID)
		printf("      skills: %s  interests: %s", joinOrDash(m.MatchedSkills), joinOrDash(m.MatchedInterests))
	}
	return nil
}
