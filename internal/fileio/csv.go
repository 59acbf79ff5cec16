package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"survey-service/internal/survey/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads every row, auto-detecting the encoding and converting to UTF-8.
// UTF-8 (with or without BOM) and the single-byte code pages chardet knows are handled.
// width counts trailing empty fields too.
func readCSV(r io.Reader) ([]model.Row, int, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		peek = peek[len(utf8BOM):]
	}

	var dec io.Reader = br
	if enc := detectEncoding(peek); enc != nil {
		dec = transform.NewReader(br, enc.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var recs [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, rec)
	}
	rows, width := toRows(recs)
	return rows, width, nil
}

// detectEncoding returns nil whenever the sample is valid UTF-8; chardet
// guesses Latin-1 for plain ASCII and that guess must not win. Unknown or
// unsupported guesses fall back to Windows-1252.
func detectEncoding(sample []byte) encoding.Encoding {
	if len(sample) == 0 || utf8.Valid(trimPartialRune(sample)) {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || det == nil || strings.HasPrefix(strings.ToLower(det.Charset), "utf") {
		return charmap.Windows1252
	}
	enc, err := htmlindex.Get(det.Charset)
	if err != nil {
		return charmap.Windows1252
	}
	return enc
}

// trimPartialRune drops an incomplete trailing rune left by a fixed-size peek.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}
