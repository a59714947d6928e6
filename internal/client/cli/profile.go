package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
)

// Profile prints the user's own profile.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profiles.Refresh(ctx)
	if errors.Is(err, services.ErrNoProfile) {
		printlnFn("You have no profile yet. Use 'editprofile' to create one.")
		return nil
	}
	if err != nil {
		return err
	}
	printProfile(*p)
	if missing := a.profiles.Missing(p); len(missing) > 0 {
		printf("Missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EditProfile walks through every profile field. Empty answers keep the
// current value; list fields take comma separated items.
func (a *App) EditProfile(ctx context.Context) error {
	cur, err := a.profiles.Get(ctx)
	switch {
	case errors.Is(err, services.ErrNoProfile):
		cur = &models.Profile{}
	case err != nil:
		return err
	}
	p := *cur

	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &p.Name},
		{"Email", &p.Email},
		{"Role", &p.Role},
		{"Experience", &p.Experience},
		{"Availability", &p.Availability},
		{"Location", &p.Location},
		{"Bio", &p.Bio},
	}
	for _, f := range fields {
		v, err := a.ask(f.label, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	skills, err := a.ask("Skills (comma separated)", strings.Join(p.Skills, ", "))
	if err != nil {
		return err
	}
	p.Skills = splitList(skills)
	interests, err := a.ask("Interests (comma separated)", strings.Join(p.Interests, ", "))
	if err != nil {
		return err
	}
	p.Interests = splitList(interests)

	saved, err := a.profiles.Save(ctx, p)
	if err != nil {
		return err
	}
	printlnFn("Profile saved.")
	if missing := a.profiles.Missing(saved); len(missing) > 0 {
		printf("Still missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func printProfile(p models.Profile) {
	printf("%s <%s>  id: %s", p.Name, p.Email, p.ID)
	printf("  Role: %s  Experience: %s  Availability: %s  Location: %s",
		orDash(p.Role), orDash(p.Experience), orDash(p.Availability), orDash(p.Location))
	printf("  Skills: %s", joinOrDash(p.Skills))
	printf("  Interests: %s", joinOrDash(p.Interests))
	if p.Bio != "" {
		printf("  Bio: %s", p.Bio)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
