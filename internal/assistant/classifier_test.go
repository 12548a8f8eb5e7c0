package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMatchesEachCategory(t *testing.T) {
	cases := []struct {
		input    string
		category Category
	}{
		{"I cannot login to my account", CategoryLogin},
		{"how do I sign in?", CategoryLogin},
		{"where is my application?", CategoryApplication},
		{"when is the video interview", CategoryInterview},
		{"I want to upload my resume", CategoryCV},
		{"I did not get an email", CategoryNotification},
		{"update my details please", CategoryProfile},
		{"please escalate this", CategoryEscalate},
		{"I have a problem", CategoryEscalate},
		{"show me jobs in london", CategoryJob},
		{"what's on my schedule", CategorySchedule},
		{"tell me about the coding challenge", CategorySkills},
		{"how do employers post listings", CategoryEmployer},
	}
	for _, tc := range cases {
		got := Classify(tc.input)
		assert.Equal(t, tc.category, got.Category, "input %q", tc.input)
		assert.NotEmpty(t, got.Text)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Matches both "application" (priority 2) and "help" (priority 7);
	// the higher-priority application rule must win.
	got := Classify("I need help with my application")
	assert.Equal(t, CategoryApplication, got.Category)
	assert.False(t, got.Escalate)

	// "ticket" and "job" both match; escalate sits earlier in the table.
	got = Classify("raise a ticket about a job listing")
	assert.Equal(t, CategoryEscalate, got.Category)
	assert.True(t, got.Escalate)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	got := Classify("HELP ME PLEASE")
	assert.Equal(t, CategoryEscalate, got.Category)
	assert.True(t, got.Escalate)

	assert.Equal(t, CategoryLogin, Classify("LoGiN broken").Category)
}

func TestClassifyFallbackVerbatim(t *testing.T) {
	got := Classify("what is the meaning of life")
	assert.Equal(t, CategoryFallback, got.Category)
	assert.Equal(t, fallbackReply, got.Text)
	assert.False(t, got.Escalate)
}

func TestClassifyEscalateSignalsTransitionOnly(t *testing.T) {
	first := Classify("I have a problem")
	second := Classify("I have a problem")
	assert.Equal(t, first, second)
}
