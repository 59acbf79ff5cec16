package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"survey-service/internal/fileio"
	"survey-service/internal/store"
	"survey-service/internal/survey/importer"
	"survey-service/internal/survey/model"
)

// multipartMemory is what ParseMultipartForm keeps in memory; the rest spills to disk.
const multipartMemory = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidCollection),
		errors.Is(err, importer.ErrInvalidMode),
		errors.Is(err, fileio.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs server-side failures and answers with a JSON error.
func fail(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Error().Err(err).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// readUpload decodes the "file" part of a multipart request into sheets.
func readUpload(r *http.Request) (string, []model.Sheet, int, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", mbe.Limit)
		}
		return "", nil, http.StatusBadRequest, fmt.Errorf("bad multipart form: %w", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("missing file: %w", err)
	}
	defer f.Close()

	if !fileio.Supported(hdr.Filename) {
		return hdr.Filename, nil, http.StatusBadRequest, fmt.Errorf("%w: %s", fileio.ErrUnsupportedFormat, hdr.Filename)
	}
	sheets, err := fileio.ReadWorkbook(f, hdr.Filename)
	if err != nil {
		return hdr.Filename, nil, http.StatusBadRequest, fmt.Errorf("failed to read %s: %w", hdr.Filename, err)
	}
	return hdr.Filename, sheets, http.StatusOK, nil
}

func toInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
