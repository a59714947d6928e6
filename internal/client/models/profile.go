package models

import "strings"

// Profile is a user's public profile. ConnectionStatus is relative to the
// viewing user and is only filled in on responses that carry it.
type Profile struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Role             string           `json:"current_role"`
	Skills           []string         `json:"skills"`
	Interests        []string         `json:"interests"`
	Experience       string           `json:"experience"`
	Availability     string           `json:"availability"`
	Location         string           `json:"location"`
	Bio              string           `json:"bio,omitempty"`
	ConnectionStatus ConnectionStatus `json:"connection_status,omitempty"`
}

// Profile field labels as shown to the user.
const (
	FieldName         = "Name"
	FieldEmail        = "Email"
	FieldRole         = "Role"
	FieldSkills       = "Skills"
	FieldInterests    = "Interests"
	FieldExperience   = "Experience"
	FieldAvailability = "Availability"
	FieldLocation     = "Location"
)

// MissingFields lists the labels of the fields that keep p from being
// complete, in display order. A nil profile is missing everything.
func MissingFields(p *Profile) []string {
	if p == nil {
		p = &Profile{}
	}
	var missing []string
	check := func(label string, ok bool) {
		if !ok {
			missing = append(missing, label)
		}
	}
	check(FieldName, filled(p.Name))
	check(FieldEmail, filled(p.Email))
	check(FieldRole, filled(p.Role))
	check(FieldSkills, hasAny(p.Skills))
	check(FieldInterests, hasAny(p.Interests))
	check(FieldExperience, filled(p.Experience))
	check(FieldAvailability, filled(p.Availability))
	check(FieldLocation, filled(p.Location))
	return missing
}

// IsComplete reports whether p satisfies the team-search precondition.
func (p *Profile) IsComplete() bool {
	return len(MissingFields(p)) == 0
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }

func hasAny(items []string) bool {
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
