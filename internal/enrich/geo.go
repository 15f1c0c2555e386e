package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cvalyze/pkg/httpx"
)

// National centroid used whenever geocoding cannot resolve a location.
const (
	defaultLatitude  = 20.5937
	defaultLongitude = 78.9629
	defaultCountry   = "India"
)

// GeoPoint is the resolved coordinates and country for a location string.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Country   string
}

func defaultPoint() GeoPoint {
	return GeoPoint{Latitude: defaultLatitude, Longitude: defaultLongitude, Country: defaultCountry}
}

// Geocoder resolves free-text locations against a Nominatim instance.
// Lookups are rate-limited client-side per the Nominatim usage policy.
type Geocoder struct {
	baseURL    string
	http       *httpx.Client
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
}

func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL:    baseURL,
		http:       httpx.NewClient(5 * time.Second),
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		retries:    3,
		retryDelay: time.Second,
	}
}

// LatLon resolves a location string to coordinates and a country. It never
// fails: an empty location returns the default without a network call,
// timeouts are retried up to the configured bound with a fixed delay, and
// any other error falls back to the default immediately.
func (g *Geocoder) LatLon(ctx context.Context, location string) GeoPoint {
	if strings.TrimSpace(location) == "" {
		return defaultPoint()
	}

	for attempt := 0; attempt < g.retries; attempt++ {
		point, err := g.lookup(ctx, location)
		if err == nil {
			return point
		}
		if !isTimeout(err) {
			return defaultPoint()
		}
		time.Sleep(g.retryDelay)
	}

	return defaultPoint()
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
}

func (g *Geocoder) lookup(ctx context.Context, location string) (GeoPoint, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return GeoPoint{}, err
	}

	query := url.Values{}
	query.Set("q", location)
	query.Set("format", "json")
	query.Set("addressdetails", "1")
	query.Set("limit", "1")

	resp, err := g.http.Get(ctx, g.baseURL+"?"+query.Encode(), map[string]string{
		"User-Agent": "cvalyze",
	})
	if err != nil {
		return GeoPoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeoPoint{}, fmt.Errorf("geocoding status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return GeoPoint{}, err
	}

	// "Not found" is an answer, not an error worth retrying.
	if len(results) == 0 {
		return defaultPoint(), nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return GeoPoint{}, err
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return GeoPoint{}, err
	}

	country := results[0].Address.Country
	if country == "" {
		country = defaultCountry
	}

	return GeoPoint{Latitude: lat, Longitude: lon, Country: country}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
