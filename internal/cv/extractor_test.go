package cv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletion is a test double for the completion service.
type fakeCompletion struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompletion) Generate(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func requireFallback(t *testing.T, record *CandidateRecord) {
	t.Helper()
	require.NotNil(t, record)
	assert.Nil(t, record.Name)
	assert.Nil(t, record.Profession)
	assert.Nil(t, record.PhoneNumber)
	assert.Nil(t, record.Email)
	assert.Nil(t, record.Location)
	assert.Nil(t, record.GithubLink)
	assert.Nil(t, record.LinkedinLink)
	assert.Empty(t, record.Skills)
	assert.Empty(t, record.Education)
	assert.Empty(t, record.Experience)
	assert.Empty(t, record.Projects)
	assert.Empty(t, record.Certifications)
	assert.Empty(t, record.Achievements)
	assert.True(t, record.IsEmpty())
}

func TestExtractFallbackOnServiceError(t *testing.T) {
	client := &fakeCompletion{err: errors.New("connection refused")}
	extractor := NewExtractor(client, "key")

	requireFallback(t, extractor.Extract(context.Background(), "some resume"))
}

func TestExtractFallbackOnMalformedResponses(t *testing.T) {
	responses := []string{
		"not json at all",
		"```json\nstill not json\n```",
		`["top-level array"]`,
		"",
		`{"name": "Jane"`, // truncated
	}

	for _, response := range responses {
		client := &fakeCompletion{response: response}
		extractor := NewExtractor(client, "key")
		requireFallback(t, extractor.Extract(context.Background(), "text"))
	}
}

func TestExtractParsesCodeFencedJSON(t *testing.T) {
	client := &fakeCompletion{response: "```json\n" + `{
		"name": "Jane Doe",
		"profession": "Software Engineer",
		"phone_number": null,
		"email": "jane@example.com",
		"location": "Chennai, India",
		"github_link": "github.com/jane",
		"linkedin_link": "https://linkedin.com/in/jane",
		"skills": ["Go", "null", "", "Python"],
		"education": ["B.Tech – IIT Madras (2019)"],
		"experience": [],
		"projects": [{"name": "cvalyze", "links": ["github.com/jane/cvalyze", null, "null"]}],
		"certifications": null,
		"achievements": ["Won hackathon"]
	}` + "\n```"}
	extractor := NewExtractor(client, "key")

	record := extractor.Extract(context.Background(), "resume text")
	require.NotNil(t, record)

	require.NotNil(t, record.Name)
	assert.Equal(t, "Jane Doe", *record.Name)
	assert.Nil(t, record.PhoneNumber)
	assert.Equal(t, []string{"Go", "Python"}, record.Skills)
	assert.Equal(t, []string{"B.Tech – IIT Madras (2019)"}, record.Education)
	assert.NotNil(t, record.Experience)
	assert.Empty(t, record.Experience)
	assert.Equal(t, []string{}, record.Certifications)
	assert.Equal(t, []string{"Won hackathon"}, record.Achievements)

	require.Len(t, record.Projects, 1)
	require.NotNil(t, record.Projects[0].Name)
	assert.Equal(t, "cvalyze", *record.Projects[0].Name)
	assert.Equal(t, []string{"github.com/jane/cvalyze"}, record.Projects[0].Links)

	// Scheme-less profile links get https:// prepended.
	require.NotNil(t, record.GithubLink)
	assert.Equal(t, "https://github.com/jane", *record.GithubLink)
	require.NotNil(t, record.LinkedinLink)
	assert.Equal(t, "https://linkedin.com/in/jane", *record.LinkedinLink)
}

func TestExtractEmbedsResumeText(t *testing.T) {
	client := &fakeCompletion{response: "{}"}
	extractor := NewExtractor(client, "key")

	extractor.Extract(context.Background(), "THE RESUME BODY")
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "THE RESUME BODY")
	assert.Contains(t, client.prompts[0], "precise resume extraction system")
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected *string
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "empty string", input: "  ", expected: nil},
		{name: "null literal", input: "null", expected: nil},
		{name: "null literal mixed case", input: "NULL", expected: nil},
		{name: "kept and trimmed", input: " Jane ", expected: strPtr("Jane")},
		{name: "numeric phone", input: float64(9876543210), expected: strPtr("9876543210")},
		{name: "unexpected type", input: map[string]interface{}{}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceString(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestCoerceLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected []string
	}{
		{name: "missing", input: nil, expected: []string{}},
		{name: "null literal", input: "null", expected: []string{}},
		{name: "bare string wrapped", input: "https://a.dev", expected: []string{"https://a.dev"}},
		{name: "contaminated list filtered", input: []interface{}{"https://a.dev", nil, "", "null"}, expected: []string{"https://a.dev"}},
		{name: "unexpected type", input: 42.0, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceLinks(tt.input)
			require.NotNil(t, got, "links must never be nil")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func strPtr(s string) *string { return &s }
