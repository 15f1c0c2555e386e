package cv

// Project is one entry of a record's projects list. Links is always a
// non-nil slice, possibly empty, and never contains null/empty elements.
type Project struct {
	Name  *string  `json:"name"`
	Links []string `json:"links"`
}

// CandidateRecord is the structured form of one résumé. Scalar fields are
// nil when the extractor could not find them; list fields are never nil,
// only possibly empty. Enrichment fields are populated by the pipeline
// after extraction.
type CandidateRecord struct {
	Name         *string `json:"name"`
	Profession   *string `json:"profession"`
	PhoneNumber  *string `json:"phone_number"`
	Email        *string `json:"email"`
	Location     *string `json:"location"`
	GithubLink   *string `json:"github_link"`
	LinkedinLink *string `json:"linkedin_link"`

	Skills         []string  `json:"skills"`
	Education      []string  `json:"education"`
	Experience     []string  `json:"experience"`
	Projects       []Project `json:"projects"`
	Certifications []string  `json:"certifications"`
	Achievements   []string  `json:"achievements"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Country   string   `json:"country,omitempty"`
	Gender    string   `json:"gender,omitempty"`
}

// NewFallbackRecord returns the all-null record used when extraction fails:
// every scalar nil, every list present but empty.
func NewFallbackRecord() *CandidateRecord {
	return &CandidateRecord{
		Skills:         []string{},
		Education:      []string{},
		Experience:     []string{},
		Projects:       []Project{},
		Certifications: []string{},
		Achievements:   []string{},
	}
}

// IsEmpty reports whether the record carries no extracted data at all.
// Such rows are dropped before enrichment and load.
func (r *CandidateRecord) IsEmpty() bool {
	for _, s := range []*string{r.Name, r.Profession, r.PhoneNumber, r.Email,
		r.Location, r.GithubLink, r.LinkedinLink} {
		if s != nil {
			return false
		}
	}
	return len(r.Skills) == 0 && len(r.Education) == 0 && len(r.Experience) == 0 &&
		len(r.Projects) == 0 && len(r.Certifications) == 0 && len(r.Achievements) == 0
}

// ProcessingError reports a single file whose pipeline failed. It carries
// no partial data.
type ProcessingError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}
