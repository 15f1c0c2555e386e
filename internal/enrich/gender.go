package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"cvalyze/pkg/httpx"
)

// GenderUnknown is the sentinel returned whenever the lookup fails or the
// service has no answer. Never null, never an error.
const GenderUnknown = "unknown"

// GenderClient infers a gender label from a first name via a
// name-to-gender lookup service.
type GenderClient struct {
	baseURL string
	http    *httpx.Client
}

func NewGenderClient(baseURL string) *GenderClient {
	return &GenderClient{
		baseURL: baseURL,
		http:    httpx.NewClient(5 * time.Second),
	}
}

// Gender resolves a candidate name to "male", "female" or "unknown".
func (c *GenderClient) Gender(ctx context.Context, name string) string {
	if name == "" {
		return GenderUnknown
	}

	query := url.Values{}
	query.Set("name", name)

	resp, err := c.http.Get(ctx, c.baseURL+"/?"+query.Encode(), nil)
	if err != nil {
		return GenderUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GenderUnknown
	}

	var result struct {
		Gender *string `json:"gender"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return GenderUnknown
	}

	if result.Gender == nil || *result.Gender == "" {
		return GenderUnknown
	}
	return *result.Gender
}
