package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvalyze/internal/cv"
	"cvalyze/internal/pipeline"
)

type fakeProcessor struct {
	result *pipeline.Result
	err    error
	got    []pipeline.File
}

func (f *fakeProcessor) Process(_ context.Context, files []pipeline.File) (*pipeline.Result, error) {
	f.got = files
	return f.result, f.err
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadCVsSuccess(t *testing.T) {
	name := "Jane Doe"
	processor := &fakeProcessor{result: &pipeline.Result{
		JSONCv: []cv.CandidateRecord{{Name: &name}},
		Errors: []cv.ProcessingError{},
	}}
	router := NewRouter(NewAPI(processor))

	body, contentType := multipartBody(t, map[string][]byte{"resume.txt": []byte("Jane Doe, Go developer")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload_cvs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, processor.got, 1)
	assert.Equal(t, "resume.txt", processor.got[0].Filename)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.JSONCv, 1)
	assert.Equal(t, "Jane Doe", *result.JSONCv[0].Name)
	assert.NotNil(t, result.Errors)
}

func TestUploadCVsNoFiles(t *testing.T) {
	processor := &fakeProcessor{}
	router := NewRouter(NewAPI(processor))

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload_cvs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, processor.got)
}

func TestUploadCVsRejectsUnsupportedExtensionUpFront(t *testing.T) {
	processor := &fakeProcessor{}
	router := NewRouter(NewAPI(processor))

	body, contentType := multipartBody(t, map[string][]byte{
		"resume.txt": []byte("fine"),
		"virus.exe":  []byte("nope"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload_cvs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file type")
	assert.Nil(t, processor.got, "the batch is rejected before processing")
}

func TestUploadCVsMethodNotAllowed(t *testing.T) {
	router := NewRouter(NewAPI(&fakeProcessor{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/upload_cvs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUploadCVsProcessorError(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("all API keys are invalid or rate-limited")}
	router := NewRouter(NewAPI(processor))

	body, contentType := multipartBody(t, map[string][]byte{"resume.txt": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload_cvs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "CV processing failed")
}

func TestUploadCVsTimeout(t *testing.T) {
	processor := &fakeProcessor{err: context.DeadlineExceeded}
	router := NewRouter(NewAPI(processor))

	body, contentType := multipartBody(t, map[string][]byte{"resume.txt": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload_cvs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHealthAndRoot(t *testing.T) {
	router := NewRouter(NewAPI(&fakeProcessor{}))

	for path, expected := range map[string]string{
		"/health":  "healthy",
		"/api/v1/": "ETL Service v1 running successfully",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), expected)
	}
}
