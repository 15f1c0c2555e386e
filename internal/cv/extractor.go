package cv

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// CompletionClient is the slice of the completion service the extractor
// needs. Satisfied by llm.Client.
type CompletionClient interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Extractor converts normalized résumé text into a CandidateRecord through
// a schema-constrained prompt against the completion service.
type Extractor struct {
	client CompletionClient
	apiKey string
}

func NewExtractor(client CompletionClient, apiKey string) *Extractor {
	return &Extractor{
		client: client,
		apiKey: apiKey,
	}
}

var codeFencePattern = regexp.MustCompile("^```[a-zA-Z]*|```$")

const extractionPrompt = `
You are a precise resume extraction system. Extract data as JSON with keys: [name, profession, phone_number, email, location, github_link, linkedin_link, skills, education, experience, projects, certifications, achievements]

Rules:
1. **Invalid Resume Handling**: If the provided "Resume Text" does not appear to be a valid CV or resume, set all string fields to ` + "`null`" + ` and all list fields to ` + "`[]`" + `. Do not attempt to extract partial information if the document is not a resume.

2. Personal Info: String or null. location = contact address only (ignore job/edu locations). Extract first github.com/linkedin.com/in/ URLs.

3. profession: Title Case format.
- Tech: "Role (Technology)" - Full Stack Developer (Python/MERN/MEAN/Java), Frontend Developer (React/Angular/Vue), Backend Developer (Node.js/Python/Java), Mobile Developer (Android/iOS/React Native/Flutter), Data Scientist (AI/ML), Data Analyst, Machine Learning Engineer, DevOps Engineer, Cloud Engineer (AWS/Azure/GCP), Software Engineer, QA Engineer, UI/UX Designer, Product Manager, Business Analyst
- Non-tech: Extract as-is in Title Case - Accountant, Hospital Administrator, Chef, Nurse, Teacher, Civil Engineer, Lawyer, Marketing Manager
- Remove Senior/Junior/Experienced. Null if unknown.

4. skills: List of strings or [].

5. education/experience/certifications/achievements: List of strings or [].
- education: Degree – Institution (Year)
- experience: Role – Organization
- certifications: Explicit certs only
- achievements: Max 10 words, core action/outcome

6. projects: List of {"name": "...", "links": [...]} or []. The "links" list MUST only contain project-specific URLs (GitHub/demo/live). Exclude all other links.** If no project-specific link is found, links = [] if none (never null)

Output: Pure JSON. [] for empty lists, null for missing values. No null in arrays.

Resume Text:
`

// Extract runs the schema-constrained prompt against the completion
// service and repairs the response into a CandidateRecord. It never fails:
// any error on the network call, the JSON parse, or post-processing yields
// the all-null fallback record instead of a partial one.
func (e *Extractor) Extract(ctx context.Context, text string) *CandidateRecord {
	raw, err := e.client.Generate(ctx, e.apiKey, extractionPrompt+text)
	if err != nil {
		log.Printf("Error extracting sections: %v", err)
		return NewFallbackRecord()
	}

	cleanJSON := strings.TrimSpace(codeFencePattern.ReplaceAllString(strings.TrimSpace(raw), ""))

	var loose map[string]interface{}
	if err := json.Unmarshal([]byte(cleanJSON), &loose); err != nil {
		log.Printf("Error extracting sections: %v", err)
		return NewFallbackRecord()
	}

	record := coerceRecord(loose)
	normalizeProfileLinks(record)
	return record
}

// coerceRecord validates and coerces the loosely-typed response
// field-by-field onto the fixed 13-key schema. Scalars become nil when
// missing/empty/"null"; list fields are always non-nil, filtered of
// null-equivalent elements.
func coerceRecord(data map[string]interface{}) *CandidateRecord {
	return &CandidateRecord{
		Name:         coerceString(data["name"]),
		Profession:   coerceString(data["profession"]),
		PhoneNumber:  coerceString(data["phone_number"]),
		Email:        coerceString(data["email"]),
		Location:     coerceString(data["location"]),
		GithubLink:   coerceString(data["github_link"]),
		LinkedinLink: coerceString(data["linkedin_link"]),

		Skills:         coerceStringList(data["skills"]),
		Education:      coerceStringList(data["education"]),
		Experience:     coerceStringList(data["experience"]),
		Projects:       coerceProjects(data["projects"]),
		Certifications: coerceStringList(data["certifications"]),
		Achievements:   coerceStringList(data["achievements"]),
	}
}

func coerceString(v interface{}) *string {
	switch s := v.(type) {
	case string:
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			return nil
		}
		return &trimmed
	case float64:
		// Phone numbers occasionally come back as JSON numbers.
		formatted := strconv.FormatFloat(s, 'f', -1, 64)
		return &formatted
	default:
		return nil
	}
}

func coerceStringList(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s := coerceString(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func coerceProjects(v interface{}) []Project {
	out := []Project{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Project{
			Name:  coerceString(m["name"]),
			Links: coerceLinks(m["links"]),
		})
	}
	return out
}

// coerceLinks repairs a project's links value, which the service has been
// seen to return as null, "null", a bare string, or a contaminated list.
// The result is always a non-nil slice.
func coerceLinks(v interface{}) []string {
	switch links := v.(type) {
	case string:
		if s := coerceString(links); s != nil {
			return []string{*s}
		}
		return []string{}
	case []interface{}:
		return coerceStringList(links)
	default:
		return []string{}
	}
}

// normalizeProfileLinks makes sure github/linkedin URLs carry an http
// scheme so downstream consumers can follow them directly.
func normalizeProfileLinks(r *CandidateRecord) {
	if r.GithubLink != nil && !strings.HasPrefix(*r.GithubLink, "http") {
		withScheme := "https://" + strings.TrimSpace(*r.GithubLink)
		r.GithubLink = &withScheme
	}
	if r.LinkedinLink != nil && !strings.HasPrefix(*r.LinkedinLink, "http") {
		withScheme := "https://" + strings.TrimSpace(*r.LinkedinLink)
		r.LinkedinLink = &withScheme
	}
}
