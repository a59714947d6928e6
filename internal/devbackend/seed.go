package devbackend

import (
	"fmt"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "launchpad"

// SeedUser is an account created by Seed.
type SeedUser struct {
	ID    string
	Email string
	Name  string
}

var seedProfiles = []models.Profile{
	{
		Name: "Ada Builder", Email: "ada@example.com", Role: "Founder",
		Skills: []string{"Go", "Distributed Systems", "Product"}, Interests: []string{"Fintech", "Climate"},
		Experience: "Senior", Availability: "Full-time", Location: "Berlin",
	},
	{
		Name: "Ben Pixel", Email: "ben@example.com", Role: "Designer",
		Skills: []string{"Figma", "UX Research"}, Interests: []string{"Climate", "Education"},
		Experience: "Mid", Availability: "Part-time", Location: "Remote",
	},
	{
		Name: "Cleo Data", Email: "cleo@example.com", Role: "Engineer",
		Skills: []string{"Python", "Machine Learning", "Go"}, Interests: []string{"Fintech", "Health"},
		Experience: "Senior", Availability: "Full-time", Location: "Berlin",
	},
	{
		Name: "Dev Growth", Email: "dev@example.com", Role: "Marketer",
		Skills: []string{"Growth", "SEO"}, Interests: []string{"Education"},
		Experience: "Junior", Availability: "Weekends", Location: "Lisbon",
	},
}

// Seed adds the demo accounts. Ben has a pending request to Ada and Ada is
// connected with Cleo, so every inbox and chat flow has something to show.
func Seed(s *Store) ([]SeedUser, error) {
	out := make([]SeedUser, 0, len(seedProfiles))
	for i := range seedProfiles {
		p := seedProfiles[i]
		id, err := s.AddUser(p.Email, p.Name, SeedPassword, &p)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", p.Email, err)
		}
		out = append(out, SeedUser{ID: id, Email: p.Email, Name: p.Name})
	}

	ada, ben, cleo := out[0].ID, out[1].ID, out[2].ID
	if _, err := s.SendRequest(ben, ada, "Would love to help with design."); err != nil {
		return nil, fmt.Errorf("seed request: %w", err)
	}
	if _, err := s.SendRequest(ada, cleo, "Let's build something."); err != nil {
		return nil, fmt.Errorf("seed request: %w", err)
	}
	if _, err := s.SendRequest(cleo, ada, ""); err != nil {
		return nil, fmt.Errorf("seed connection: %w", err)
	}
	return out, nil
}
