package models

// SearchRequest is the body of POST /api/team-search.
type SearchRequest struct {
	RequiredSkills []string `json:"required_skills"`
	Interests      []string `json:"interests"`
	Role           string   `json:"current_role,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Availability   string   `json:"availability,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// MatchedProfile is a search hit. MatchScore is in [0, 100].
type MatchedProfile struct {
	Profile
	MatchScore       int      `json:"match_score"`
	MatchedSkills    []string `json:"matched_skills"`
	MatchedInterests []string `json:"matched_interests"`
}

// SearchResult is the response of POST /api/team-search, ranked by the server.
type SearchResult struct {
	Profiles []MatchedProfile `json:"profiles"`
	Total    int              `json:"total"`
}
