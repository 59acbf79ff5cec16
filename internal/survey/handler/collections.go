package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"survey-service/internal/export"
	"survey-service/internal/middleware"
	"survey-service/internal/store"
	"survey-service/internal/survey/model"
	"survey-service/internal/survey/service"
)

// ListCollections returns the default collection followed by registered imports.
func ListCollections(st store.Store, defaultCollection string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.RequestLogger(logger, r)
		ctx := r.Context()

		registered, err := st.ListCollections(ctx)
		if err != nil {
			fail(w, log, err)
			return
		}
		out := make([]model.CollectionInfo, 0, len(registered)+1)
		hasDefault := false
		for _, c := range registered {
			if c.Name == defaultCollection {
				hasDefault = true
			}
		}
		if !hasDefault {
			recs, err := st.ListRecords(ctx, defaultCollection)
			if err != nil {
				fail(w, log, err)
				return
			}
			out = append(out, model.CollectionInfo{Name: defaultCollection, DisplayName: defaultCollection, Count: len(recs)})
		}
		out = append(out, registered...)
		writeJSON(w, http.StatusOK, map[string]any{"collections": out})
	}
}

func ListRecords(st store.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")
		recs, err := st.ListRecords(r.Context(), collection)
		if err != nil {
			fail(w, middleware.RequestLogger(logger, r), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"collection": collection, "records": recs})
	}
}

func UpdateRecord(st store.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.RecordPatch
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid patch: "+err.Error())
			return
		}
		if patch.TotalArea != nil && *patch.TotalArea < 0 {
			writeError(w, http.StatusBadRequest, "invalid patch: totalArea must not be negative")
			return
		}
		rec, err := st.UpdateRecord(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), patch)
		if err != nil {
			fail(w, middleware.RequestLogger(logger, r), err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func DeleteRecord(st store.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.DeleteRecord(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
			fail(w, middleware.RequestLogger(logger, r), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Summary(st store.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := st.ListRecords(r.Context(), chi.URLParam(r, "collection"))
		if err != nil {
			fail(w, middleware.RequestLogger(logger, r), err)
			return
		}
		writeJSON(w, http.StatusOK, service.Summarize(plain(recs)))
	}
}

// Export streams the collection as an xlsx workbook grouped by region.
func Export(st store.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.RequestLogger(logger, r)
		collection := chi.URLParam(r, "collection")
		recs, err := st.ListRecords(r.Context(), collection)
		if err != nil {
			fail(w, log, err)
			return
		}
		f, err := export.Workbook(plain(recs))
		if err != nil {
			fail(w, log, err)
			return
		}
		defer f.Close()

		name := fmt.Sprintf("%s-%s.xlsx", collection, time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if _, err := f.WriteTo(w); err != nil {
			log.Error().Err(err).Msg("write export")
		}
	}
}

func plain(recs []model.StoredRecord) []model.Record {
	out := make([]model.Record, len(recs))
	for i, r := range recs {
		out[i] = r.Record
	}
	return out
}
