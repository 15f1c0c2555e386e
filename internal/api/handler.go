package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cvalyze/internal/pipeline"
)

// Supported cv/resume file types
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

const processTimeout = 5 * time.Minute

// Processor is the slice of the pipeline the HTTP layer needs.
type Processor interface {
	Process(ctx context.Context, files []pipeline.File) (*pipeline.Result, error)
}

type API struct {
	processor Processor
}

func NewAPI(processor Processor) *API {
	return &API{processor: processor}
}

// RootHandler is the ETL service health check.
func (a *API) RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"ETL Service v1 running successfully"}`))
}

// UploadCVsHandler accepts one or more résumé files as multipart form data
// and runs them through the extraction pipeline.
func (a *API) UploadCVsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form (max 32MB in memory)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		log.Println("Upload attempt with no files provided.")
		http.Error(w, "No files were uploaded.", http.StatusBadRequest)
		return
	}

	// Validate extensions before reading any bytes.
	for _, header := range headers {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			log.Printf("Unsupported file type: %s", header.Filename)
			http.Error(w, fmt.Sprintf("Unsupported file type: %s", ext), http.StatusBadRequest)
			return
		}
	}

	log.Printf("Received %d files for processing", len(headers))

	files := make([]pipeline.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("Error reading %s: %v", header.Filename, err), http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil || len(data) == 0 {
			http.Error(w, fmt.Sprintf("Error reading %s: empty file", header.Filename), http.StatusInternalServerError)
			return
		}
		files = append(files, pipeline.File{Filename: header.Filename, Data: data})
	}

	ctx, cancel := context.WithTimeout(r.Context(), processTimeout)
	defer cancel()

	result, err := a.processor.Process(ctx, files)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Println("CV processing timed out.")
			http.Error(w, "Processing timed out. Try again.", http.StatusGatewayTimeout)
			return
		}
		log.Printf("CV processing failed: %v", err)
		http.Error(w, fmt.Sprintf("CV processing failed: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("CV processing successful for %d files.", len(files))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
