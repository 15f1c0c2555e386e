package api

import (
	"net/http"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// ETL endpoints
	mux.HandleFunc("/api/v1/", a.RootHandler)
	mux.HandleFunc("/api/v1/upload_cvs", a.UploadCVsHandler)

	return mux
}
