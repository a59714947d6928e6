package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeProfile() *Profile {
	return &Profile{
		ID:           "u1",
		Name:         "Ada",
		Email:        "ada@example.org",
		Role:         "Engineer",
		Skills:       []string{"Python"},
		Interests:    []string{"Fintech"},
		Experience:   "senior",
		Availability: "full-time",
		Location:     "Riga",
	}
}

func TestMissingFields_Complete(t *testing.T) {
	p := completeProfile()
	assert.Empty(t, MissingFields(p))
	assert.True(t, p.IsComplete())
}

func TestMissingFields_ReportsInDisplayOrder(t *testing.T) {
	p := completeProfile()
	p.Skills = nil
	p.Location = "   "
	p.Email = ""

	assert.Equal(t, []string{FieldEmail, FieldSkills, FieldLocation}, MissingFields(p))
	assert.False(t, p.IsComplete())
}

func TestMissingFields_BlankSkillEntriesDoNotCount(t *testing.T) {
	p := completeProfile()
	p.Skills = []string{" ", ""}
	assert.Equal(t, []string{FieldSkills}, MissingFields(p))
}

func TestMissingFields_NilProfile(t *testing.T) {
	assert.Len(t, MissingFields(nil), 8)
}

func TestConnectionStatus_Valid(t *testing.T) {
	assert.True(t, StatusConnected.Valid())
	assert.True(t, StatusNotConnected.Valid())
	assert.False(t, ConnectionStatus("friends").Valid())
}

func TestConnectionRequest_SenderName(t *testing.T) {
	r := ConnectionRequest{SenderID: "u2"}
	assert.Equal(t, "u2", r.SenderName())
	r.SenderProfile = &Profile{Name: "Grace"}
	assert.Equal(t, "Grace", r.SenderName())
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2025-03-01T10:20:30Z"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{`"2025-03-01T10:20:30.5+02:00"`, time.Date(2025, 3, 1, 8, 20, 30, 500_000_000, time.UTC)},
		{`"2025-03-01T10:20:30.123456"`, time.Date(2025, 3, 1, 10, 20, 30, 123_456_000, time.UTC)},
		{`"2025-03-01 10:20:30"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.True(t, tt.want.Equal(ts.Time), "%s: got %v", tt.in, ts.Time)
	}
}

func TestTimestamp_NullAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestMessage_DecodesBackendShape(t *testing.T) {
	raw := `{"id":"m1","conversation_id":"c1","sender_id":"u1","content":"hi",
		"message_type":"text","timestamp":"2025-01-02T03:04:05","read":true}`

	var m Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, "c1", m.ConversationID)
	assert.Equal(t, MessageTypeText, m.MessageType)
	assert.True(t, m.Read)
	assert.Equal(t, 2025, m.Timestamp.Year())
}

func TestMatchedProfile_EmbedsProfileFields(t *testing.T) {
	raw := `{"id":"u2","name":"Lin","skills":["Go"],"connection_status":"request_sent",
		"match_score":80,"matched_skills":["Go"],"matched_interests":[]}`

	var mp MatchedProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &mp))
	assert.Equal(t, "u2", mp.ID)
	assert.Equal(t, StatusRequestSent, mp.ConnectionStatus)
	assert.Equal(t, 80, mp.MatchScore)
}
