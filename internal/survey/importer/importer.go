package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"survey-service/internal/store"
	"survey-service/internal/survey/model"
)

type Mode string

const (
	ModeAdd           Mode = "add"
	ModeReplace       Mode = "replace"
	ModeNewCollection Mode = "newCollection"
)

var ErrInvalidMode = errors.New("invalid import mode")

// ParseMode accepts "" as ModeAdd.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAdd:
		return ModeAdd, nil
	case ModeReplace, ModeNewCollection:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

type Options struct {
	Mode Mode
	// Collection is the target of add and replace; empty means the default collection.
	Collection string
	Owner      string
	// CollectionName is the requested name for ModeNewCollection; empty means timestamped.
	CollectionName string
}

type Importer struct {
	store             store.Store
	log               zerolog.Logger
	concurrency       int64
	defaultCollection string
	now               func() time.Time
}

type Option func(*Importer)

// WithConcurrency bounds concurrent persistence calls; values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(im *Importer) {
		if n < 1 {
			n = 1
		}
		im.concurrency = int64(n)
	}
}

func WithDefaultCollection(name string) Option {
	return func(im *Importer) {
		if name != "" {
			im.defaultCollection = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

func New(st store.Store, log zerolog.Logger, opts ...Option) *Importer {
	im := &Importer{
		store:             st,
		log:               log,
		concurrency:       1,
		defaultCollection: "mappings",
		now:               time.Now,
	}
	for _, o := range opts {
		o(im)
	}
	return im
}

// job is one persistence call; exactly one of record and doc is set.
type job struct {
	sheet    string
	survey   string
	record   *model.Record
	doc      map[string]any
	updateID string
}

type result struct {
	created bool
	updated bool
	err     error
}

// Import persists a parsed workbook. Per-record failures land in Outcome.Errors
// and never stop the batch; only a failed replace wipe or an unusable target
// collection return an error.
func (im *Importer) Import(ctx context.Context, res model.ParseResult, opts Options) (model.Outcome, error) {
	out := model.Outcome{
		Errors:        []model.RecordError{},
		InvalidSheets: res.InvalidSheets,
	}
	if out.InvalidSheets == nil {
		out.InvalidSheets = []model.SheetIssue{}
	}

	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return out, err
	}

	collection, display := opts.Collection, ""
	if collection == "" {
		collection = im.defaultCollection
	}
	if mode == ModeNewCollection {
		collection, display = CollectionName(opts.Owner, opts.CollectionName, im.now())
	}
	if err := store.ValidateCollection(collection); err != nil {
		return out, err
	}
	out.Collection = collection

	var jobs []job
	switch mode {
	case ModeNewCollection:
		jobs = rawJobs(res)
		if len(jobs) == 0 {
			jobs = recordJobs(res, &out)
		}
	case ModeReplace:
		n, err := im.store.DeleteCollection(ctx, collection)
		if err != nil {
			return out, fmt.Errorf("clear collection %s: %w", collection, err)
		}
		im.log.Info().Str("collection", collection).Int("deleted", n).Msg("collection cleared for replace")
		jobs = recordJobs(res, &out)
	default:
		jobs = recordJobs(res, &out)
		if err := im.matchExisting(ctx, collection, jobs); err != nil {
			return out, err
		}
	}

	results := im.run(ctx, collection, opts.Owner, jobs)
	for i, r := range results {
		j := jobs[i]
		switch {
		case r.err != nil:
			im.log.Warn().Err(r.err).Str("collection", collection).Str("sheet", j.sheet).
				Str("surveyNumber", j.survey).Msg("record not persisted")
			var row any = j.doc
			if j.record != nil {
				row = *j.record
			}
			out.Errors = append(out.Errors, model.RecordError{
				Sheet: j.sheet, SurveyNumber: j.survey, Record: row, Message: r.err.Error(),
			})
		case r.updated:
			out.Updated++
		case r.created:
			out.Created++
		}
	}

	if mode == ModeNewCollection && out.Created > 0 {
		info := model.CollectionInfo{Name: collection, DisplayName: display, Owner: opts.Owner, Count: out.Created, CreatedAt: im.now().UTC()}
		if err := im.store.RegisterCollection(ctx, info); err != nil {
			im.log.Warn().Err(err).Str("collection", collection).Msg("collection not registered")
		}
	}

	out.Message = message(mode, out, display)
	im.log.Info().Str("collection", collection).Str("mode", string(mode)).
		Int("created", out.Created).Int("updated", out.Updated).Int("skipped", out.Skipped).
		Int("errors", len(out.Errors)).Int("invalidSheets", len(out.InvalidSheets)).Msg("import finished")
	return out, nil
}

func recordJobs(res model.ParseResult, out *model.Outcome) []job {
	var jobs []job
	for _, s := range res.Sheets {
		for i := range s.Records {
			r := s.Records[i]
			if strings.TrimSpace(r.SurveyNumber) == "" {
				out.Skipped++
				continue
			}
			jobs = append(jobs, job{sheet: s.Sheet, survey: r.SurveyNumber, record: &r})
		}
	}
	return jobs
}

// rawJobs flattens the raw dumps, tagging each document with its sheet.
func rawJobs(res model.ParseResult) []job {
	var jobs []job
	for _, s := range res.RawSheets() {
		for _, row := range s.Rows {
			doc := make(map[string]any, len(row)+1)
			for k, v := range row {
				doc[k] = v
			}
			doc["sheet"] = s.SheetName
			jobs = append(jobs, job{sheet: s.SheetName, doc: doc})
		}
	}
	return jobs
}

// matchExisting turns creates into updates for survey numbers already present,
// compared case-insensitively.
func (im *Importer) matchExisting(ctx context.Context, collection string, jobs []job) error {
	existing, err := im.store.ListRecords(ctx, collection)
	if err != nil {
		return fmt.Errorf("list collection %s: %w", collection, err)
	}
	bySurvey := make(map[string]string, len(existing))
	for _, e := range existing {
		key := strings.ToLower(strings.TrimSpace(e.Record.SurveyNumber))
		if _, ok := bySurvey[key]; !ok && key != "" {
			bySurvey[key] = e.ID
		}
	}
	for i := range jobs {
		if id, ok := bySurvey[strings.ToLower(jobs[i].survey)]; ok {
			jobs[i].updateID = id
		}
	}
	return nil
}

// run persists jobs with at most im.concurrency calls in flight; results keep job order.
func (im *Importer) run(ctx context.Context, collection, owner string, jobs []job) []result {
	results := make([]result, len(jobs))
	sem := semaphore.NewWeighted(im.concurrency)
	var wg sync.WaitGroup
	for i := range jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			for k := i; k < len(jobs); k++ {
				results[k].err = err
			}
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = im.persist(ctx, collection, owner, jobs[i])
		}(i)
	}
	wg.Wait()
	return results
}

func (im *Importer) persist(ctx context.Context, collection, owner string, j job) result {
	switch {
	case j.doc != nil:
		_, err := im.store.CreateDocument(ctx, collection, owner, j.doc)
		return result{created: err == nil, err: err}
	case j.updateID != "":
		_, err := im.store.UpdateRecord(ctx, collection, j.updateID, fullPatch(*j.record))
		return result{updated: err == nil, err: err}
	default:
		_, err := im.store.CreateRecord(ctx, collection, owner, *j.record)
		return result{created: err == nil, err: err}
	}
}

func fullPatch(r model.Record) model.RecordPatch {
	return model.RecordPatch{
		SurveyNumber:   &r.SurveyNumber,
		Region:         &r.Region,
		Province:       &r.Province,
		Municipalities: &r.Municipalities,
		Barangays:      &r.Barangays,
		TotalArea:      &r.TotalArea,
		ICC:            &r.ICC,
		Remarks:        &r.Remarks,
	}
}

func message(mode Mode, out model.Outcome, display string) string {
	var b strings.Builder
	invalid := make([]string, 0, len(out.InvalidSheets))
	for _, s := range out.InvalidSheets {
		invalid = append(invalid, s.Sheet)
	}

	switch {
	case out.Created+out.Updated == 0 && len(out.Errors) == 0:
		b.WriteString("no valid rows found to import")
		if len(invalid) > 0 {
			fmt.Fprintf(&b, "; sheets without headers: %s", strings.Join(invalid, ", "))
		}
		return b.String()
	case out.Created+out.Updated == 0:
		fmt.Fprintf(&b, "no records imported: %d failed to persist", len(out.Errors))
	case mode == ModeNewCollection:
		name := display
		if name == "" {
			name = out.Collection
		}
		fmt.Fprintf(&b, "Import complete: %d records added to collection %s.", out.Created, name)
	default:
		fmt.Fprintf(&b, "Import complete: %d added, %d updated, %d skipped.", out.Created, out.Updated, out.Skipped)
	}
	if out.Created+out.Updated > 0 && len(out.Errors) > 0 {
		fmt.Fprintf(&b, " %d failed.", len(out.Errors))
	}
	if len(invalid) > 0 {
		if out.Created+out.Updated == 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " Sheets without headers: %s.", strings.Join(invalid, ", "))
	}
	return b.String()
}
