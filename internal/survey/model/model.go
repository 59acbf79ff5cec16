package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Row is one physical spreadsheet row; the decoder has already coerced every cell to text.
type Row []string

// Cell returns the trimmed text at column i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Blank reports whether every cell is empty after trimming.
func (r Row) Blank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type Sheet struct {
	Name string
	Rows []Row
	// Width is the declared column count; 0 means the header row's own length.
	Width int
}

type Field string

const (
	FieldSurveyNumber Field = "surveyNumber"
	FieldLocation     Field = "location"
	FieldProvince     Field = "province"
	FieldMunicipality Field = "municipality"
	FieldBarangay     Field = "barangay"
	FieldTotalArea    Field = "totalArea"
	FieldICC          Field = "icc"
	FieldRemarks      Field = "remarks"
	FieldRegion       Field = "region"
)

// Fields lists the canonical fields in mapping order.
var Fields = []Field{
	FieldSurveyNumber, FieldLocation, FieldProvince, FieldMunicipality,
	FieldBarangay, FieldTotalArea, FieldICC, FieldRemarks, FieldRegion,
}

// HeaderMap resolves a canonical field to its column. A missing key means the field is absent.
type HeaderMap map[Field]int

func (h HeaderMap) Index(f Field) (int, bool) {
	i, ok := h[f]
	return i, ok
}

func (h HeaderMap) Has(f Field) bool {
	_, ok := h[f]
	return ok
}

// Get returns the trimmed cell of row for field f, "" when f is absent.
func (h HeaderMap) Get(row Row, f Field) string {
	i, ok := h[f]
	if !ok {
		return ""
	}
	return row.Cell(i)
}

type Layout int

const (
	Columnar Layout = iota
	Narrative
)

func (l Layout) String() string {
	if l == Narrative {
		return "narrative"
	}
	return "columnar"
}

func (l Layout) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

// Record is the canonical mapping record.
type Record struct {
	SurveyNumber   string   `json:"surveyNumber"`
	Region         string   `json:"region"`
	Province       string   `json:"province"`
	Municipalities []string `json:"municipalities"`
	Barangays      []string `json:"barangays"`
	TotalArea      float64  `json:"totalArea"`
	ICC            []string `json:"icc"`
	Remarks        string   `json:"remarks"`
}

// Municipality is the joined form kept next to the list in stored documents.
func (r Record) Municipality() string { return strings.Join(r.Municipalities, ", ") }

// SheetResult is everything reconstructed from one sheet.
type SheetResult struct {
	Sheet     string              `json:"sheet"`
	HeaderRow int                 `json:"headerRow"` // 0-based
	Layout    Layout              `json:"layout"`
	Columns   HeaderMap           `json:"columns"`
	Records   []Record            `json:"records"`
	RawRows   []map[string]string `json:"-"`
}

const (
	ReasonNoHeader       = "no-header"
	ReasonInvalidHeaders = "invalid-headers"
)

type SheetIssue struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// RawSheet is the verbatim dump of one sheet keyed by sanitized source headers.
type RawSheet struct {
	SheetName string              `json:"sheetName"`
	Rows      []map[string]string `json:"rows"`
}

type ParseResult struct {
	Sheets        []SheetResult `json:"sheets"`
	InvalidSheets []SheetIssue  `json:"invalidSheets"`
}

func (p ParseResult) Records() []Record {
	var out []Record
	for _, s := range p.Sheets {
		out = append(out, s.Records...)
	}
	return out
}

func (p ParseResult) RawSheets() []RawSheet {
	var out []RawSheet
	for _, s := range p.Sheets {
		if len(s.RawRows) == 0 {
			continue
		}
		out = append(out, RawSheet{SheetName: s.Sheet, Rows: s.RawRows})
	}
	return out
}

func (p ParseResult) InvalidSheetNames() []string {
	out := make([]string, 0, len(p.InvalidSheets))
	for _, s := range p.InvalidSheets {
		out = append(out, s.Sheet)
	}
	return out
}

type RecordError struct {
	Sheet        string `json:"sheet"`
	SurveyNumber string `json:"surveyNumber,omitempty"`
	Record       any    `json:"row"`
	Message      string `json:"message"`
}

// Outcome summarises one import.
type Outcome struct {
	Collection    string        `json:"collection"`
	Created       int           `json:"created"`
	Updated       int           `json:"updated"`
	Skipped       int           `json:"skipped"`
	Errors        []RecordError `json:"errors"`
	InvalidSheets []SheetIssue  `json:"invalidSheets"`
	Message       string        `json:"message"`
}

// StoredRecord is a persisted document. Fields is set for raw documents only.
type StoredRecord struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Owner      string         `json:"owner,omitempty"`
	Record     Record         `json:"record"`
	Fields     map[string]any `json:"fields,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// RecordPatch is a partial update; nil fields are left untouched.
type RecordPatch struct {
	SurveyNumber   *string   `json:"surveyNumber,omitempty"`
	Region         *string   `json:"region,omitempty"`
	Province       *string   `json:"province,omitempty"`
	Municipalities *[]string `json:"municipalities,omitempty"`
	Barangays      *[]string `json:"barangays,omitempty"`
	TotalArea      *float64  `json:"totalArea,omitempty"`
	ICC            *[]string `json:"icc,omitempty"`
	Remarks        *string   `json:"remarks,omitempty"`
}

// Apply returns r with the patch applied.
func (p RecordPatch) Apply(r Record) Record {
	if p.SurveyNumber != nil {
		r.SurveyNumber = *p.SurveyNumber
	}
	if p.Region != nil {
		r.Region = *p.Region
	}
	if p.Province != nil {
		r.Province = *p.Province
	}
	if p.Municipalities != nil {
		r.Municipalities = *p.Municipalities
	}
	if p.Barangays != nil {
		r.Barangays = *p.Barangays
	}
	if p.TotalArea != nil {
		r.TotalArea = *p.TotalArea
	}
	if p.ICC != nil {
		r.ICC = *p.ICC
	}
	if p.Remarks != nil {
		r.Remarks = *p.Remarks
	}
	return r
}

type CollectionInfo struct {
	Name        string    `json:"collectionName"`
	DisplayName string    `json:"displayName,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Summary is the per-collection aggregate shown next to listings and exports.
type Summary struct {
	TotalRecords int            `json:"totalRecords"`
	TotalArea    float64        `json:"totalArea"`
	MeanArea     float64        `json:"meanArea"`
	MedianArea   float64        `json:"medianArea"`
	Regions      int            `json:"regions"`
	ByRegion     map[string]int `json:"byRegion"`
}
