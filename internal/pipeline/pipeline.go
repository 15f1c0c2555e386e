package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cvalyze/internal/cv"
	"cvalyze/internal/enrich"
	"cvalyze/internal/llm"
)

// File is one uploaded résumé as handed over by the request layer.
type File struct {
	Filename string
	Data     []byte
}

// Result is the contract returned to the HTTP layer: best-effort records
// plus an explicit per-file error list, always both.
type Result struct {
	JSONCv []cv.CandidateRecord `json:"jsonCv"`
	Errors []cv.ProcessingError `json:"errors"`
}

// Geocoder resolves a location string to coordinates and a country.
type Geocoder interface {
	LatLon(ctx context.Context, location string) enrich.GeoPoint
}

// GenderResolver infers a gender label from a candidate name.
type GenderResolver interface {
	Gender(ctx context.Context, name string) string
}

// Loader appends one sanitized batch to the warehouse.
type Loader interface {
	Append(ctx context.Context, batchID string, records []cv.CandidateRecord) error
}

// Notifier announces a completed warehouse load.
type Notifier interface {
	SendExtractionSuccess()
}

const loadTimeout = 2 * time.Minute

// Orchestrator fans a batch of files out to independent extraction tasks
// and drives the enrich/sanitize/load/notify stages over the survivors.
type Orchestrator struct {
	keys     *llm.KeyPool
	client   cv.CompletionClient
	geocoder Geocoder
	gender   GenderResolver
	loader   Loader
	notifier Notifier
}

func NewOrchestrator(keys *llm.KeyPool, client cv.CompletionClient, geocoder Geocoder,
	gender GenderResolver, loader Loader, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		keys:     keys,
		client:   client,
		geocoder: geocoder,
		gender:   gender,
		loader:   loader,
		notifier: notifier,
	}
}

// taskResult is the tagged per-file outcome collected at the join barrier.
type taskResult struct {
	record *cv.CandidateRecord
	err    *cv.ProcessingError
}

// Process runs the whole batch. Only credential exhaustion is fatal; a
// single file's failure becomes a ProcessingError and never touches its
// siblings, and a warehouse load failure still returns the computed
// records.
func (o *Orchestrator) Process(ctx context.Context, files []File) (*Result, error) {
	log.Printf("Starting processing of %d CV files...", len(files))

	apiKey, err := o.keys.ActiveKey(ctx, false)
	if err != nil {
		return nil, err
	}
	extractor := cv.NewExtractor(o.client, apiKey)

	results := make([]taskResult, len(files))
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = o.processSingle(ctx, f, extractor)
			return nil // a single task's fault never cancels siblings
		})
	}
	_ = g.Wait()

	records := []cv.CandidateRecord{}
	errors := []cv.ProcessingError{}
	for _, res := range results {
		switch {
		case res.err != nil:
			errors = append(errors, *res.err)
		case res.record != nil && !res.record.IsEmpty():
			records = append(records, *res.record)
		}
	}

	if len(records) > 0 {
		o.enrichRecords(ctx, records)
		records = SanitizeRecords(records)

		if err := o.load(records); err != nil {
			log.Printf("Warehouse upload failed — email not sent: %v", err)
		} else {
			o.notifier.SendExtractionSuccess()
		}
	} else {
		log.Println("No valid CV data found to upload.")
	}

	log.Println("CV processing completed.")
	return &Result{JSONCv: records, Errors: errors}, nil
}

func (o *Orchestrator) processSingle(ctx context.Context, f File, extractor *cv.Extractor) taskResult {
	text, err := cv.ExtractText(f.Data, f.Filename)
	if err != nil {
		log.Printf("Error processing file %s: %v", f.Filename, err)
		return taskResult{err: &cv.ProcessingError{File: f.Filename, Error: err.Error()}}
	}
	return taskResult{record: extractor.Extract(ctx, cv.CleanText(text))}
}

// enrichRecords resolves coordinates, country and gender per record.
// Lookups degrade to documented defaults, never to errors.
func (o *Orchestrator) enrichRecords(ctx context.Context, records []cv.CandidateRecord) {
	log.Printf("Enriching data with geolocation and gender for %d candidates.", len(records))
	for i := range records {
		location := ""
		if records[i].Location != nil {
			location = *records[i].Location
		}
		point := o.geocoder.LatLon(ctx, location)
		lat, lon := point.Latitude, point.Longitude
		records[i].Latitude = &lat
		records[i].Longitude = &lon
		records[i].Country = point.Country

		name := ""
		if records[i].Name != nil {
			name = *records[i].Name
		}
		records[i].Gender = o.gender.Gender(ctx, name)
	}
}

// load runs the warehouse append on its own goroutine with its own
// deadline so a slow bulk load is not bound to the request context.
func (o *Orchestrator) load(records []cv.CandidateRecord) error {
	batchID := uuid.NewString()
	done := make(chan error, 1)
	go func() {
		loadCtx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		done <- o.loader.Append(loadCtx, batchID, records)
	}()
	return <-done
}
