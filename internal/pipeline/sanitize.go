package pipeline

import (
	"strings"

	"cvalyze/internal/cv"
)

// SanitizeRecords strips null-equivalent entries from every array-typed
// field so the warehouse's strict column typing never sees a null inside
// an array. Pure and idempotent; records are reconstructed, not mutated
// in place.
func SanitizeRecords(records []cv.CandidateRecord) []cv.CandidateRecord {
	out := make([]cv.CandidateRecord, len(records))
	for i, r := range records {
		r.Skills = filterList(r.Skills)
		r.Education = filterList(r.Education)
		r.Experience = filterList(r.Experience)
		r.Certifications = filterList(r.Certifications)
		r.Achievements = filterList(r.Achievements)

		projects := make([]cv.Project, 0, len(r.Projects))
		for _, p := range r.Projects {
			p.Links = filterList(p.Links)
			projects = append(projects, p)
		}
		r.Projects = projects

		out[i] = r
	}
	return out
}

// filterList drops empty-string and "null"-literal entries. A nil slice
// (malformed upstream data) coerces to an empty list rather than erroring.
func filterList(items []string) []string {
	out := []string{}
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			continue
		}
		out = append(out, item)
	}
	return out
}
