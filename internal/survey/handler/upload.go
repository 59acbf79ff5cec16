package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"survey-service/internal/middleware"
	"survey-service/internal/survey/importer"
	"survey-service/internal/survey/model"
	"survey-service/internal/survey/service"
)

type previewResponse struct {
	File          string              `json:"file"`
	Sheets        []model.SheetResult `json:"sheets"`
	InvalidSheets []model.SheetIssue  `json:"invalidSheets"`
	RawSheets     []model.RawSheet    `json:"rawSheets,omitempty"`
	Summary       model.Summary       `json:"summary"`
}

// Preview parses an uploaded workbook without persisting anything.
// ?raw=1 adds the verbatim row dumps.
func Preview(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := middleware.RequestLogger(logger, r)

		name, sheets, status, err := readUpload(r)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		res := service.ParseWorkbook(sheets)

		resp := previewResponse{
			File:          name,
			Sheets:        res.Sheets,
			InvalidSheets: res.InvalidSheets,
			Summary:       service.Summarize(res.Records()),
		}
		if toInt(r.URL.Query().Get("raw"), 0) == 1 {
			resp.RawSheets = res.RawSheets()
		}
		writeJSON(w, http.StatusOK, resp)

		log.Info().
			Str("file", name).
			Int("sheets", len(sheets)).
			Int("records", resp.Summary.TotalRecords).
			Int("invalidSheets", len(res.InvalidSheets)).
			Dur("elapsed", time.Since(start)).
			Msg("preview done")
	}
}

// Import parses an uploaded workbook and persists it. Form fields: mode
// (add|replace|newCollection), collection, collectionName, owner.
func Import(im *importer.Importer, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := middleware.RequestLogger(logger, r)

		name, sheets, status, err := readUpload(r)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		mode, err := importer.ParseMode(strings.TrimSpace(r.FormValue("mode")))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res := service.ParseWorkbook(sheets)

		out, err := im.Import(r.Context(), res, importer.Options{
			Mode:           mode,
			Collection:     strings.TrimSpace(r.FormValue("collection")),
			Owner:          strings.TrimSpace(r.FormValue("owner")),
			CollectionName: r.FormValue("collectionName"),
		})
		if err != nil {
			fail(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)

		log.Info().
			Str("file", name).
			Str("collection", out.Collection).
			Int("created", out.Created).
			Int("updated", out.Updated).
			Int("errors", len(out.Errors)).
			Dur("elapsed", time.Since(start)).
			Msg("import done")
	}
}
