package batch

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/wippyai/wasmlang/classify"
	"github.com/wippyai/wasmlang/errors"
)

// RecordWriter renders records in one output format.
type RecordWriter interface {
	Write(rec Record) error
	Flush() error
}

// Output formats accepted by NewRecordWriter.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// NewRecordWriter returns the writer for format.
func NewRecordWriter(w io.Writer, format string) (RecordWriter, error) {
	switch format {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	}
	return nil, errors.Unsupported(errors.PhaseConfig, []string{"format"}, "output format", format)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// TextWriter prints one "label<TAB>rule<TAB>path" line per record, with
// the error appended for unreadable files.
type TextWriter struct {
	w *bufio.Writer
}

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (t *TextWriter) Write(rec Record) error {
	rule := rec.Rule
	if rule == "" {
		rule = "-"
	}
	var err error
	if rec.Err != nil {
		_, err = fmt.Fprintf(t.w, "%s\t%s\t%s\t%v\n", rec.Label, rule, rec.Path, rec.Err)
	} else {
		_, err = fmt.Fprintf(t.w, "%s\t%s\t%s\n", rec.Label, rule, rec.Path)
	}
	if err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write record")
	}
	return nil
}

func (t *TextWriter) Flush() error {
	if err := t.w.Flush(); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "flush")
	}
	return nil
}

// CSVHeader is the first row written by CSVWriter.
var CSVHeader = []string{"path", "hash", "size", "label", "rule", "status", "evidence", "error"}

// CSVWriter writes records as CSV with a header row.
type CSVWriter struct {
	w      *csv.Writer
	header bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) Write(rec Record) error {
	if !c.header {
		c.header = true
		if err := c.w.Write(CSVHeader); err != nil {
			return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write csv header")
		}
	}
	row := []string{
		rec.Path,
		rec.Hash,
		strconv.FormatInt(rec.Size, 10),
		string(rec.Label),
		rec.Rule,
		rec.Status,
		rec.Evidence,
		errString(rec.Err),
	}
	if err := c.w.Write(row); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write csv row")
	}
	return nil
}

// Flush writes the header even when no record was written.
func (c *CSVWriter) Flush() error {
	if !c.header {
		c.header = true
		if err := c.w.Write(CSVHeader); err != nil {
			return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write csv header")
		}
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "flush csv")
	}
	return nil
}

type jsonRecord struct {
	Path     string         `json:"path"`
	Hash     string         `json:"hash,omitempty"`
	Size     int64          `json:"size"`
	Label    classify.Label `json:"label"`
	Rule     string         `json:"rule,omitempty"`
	Status   string         `json:"status,omitempty"`
	Evidence string         `json:"evidence,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	bw := bufio.NewWriter(w)
	return &JSONWriter{w: bw, enc: json.NewEncoder(bw)}
}

func (j *JSONWriter) Write(rec Record) error {
	err := j.enc.Encode(jsonRecord{
		Path:     rec.Path,
		Hash:     rec.Hash,
		Size:     rec.Size,
		Label:    rec.Label,
		Rule:     rec.Rule,
		Status:   rec.Status,
		Evidence: rec.Evidence,
		Error:    errString(rec.Err),
	})
	if err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write json record")
	}
	return nil
}

func (j *JSONWriter) Flush() error {
	if err := j.w.Flush(); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "flush")
	}
	return nil
}

// WriteSummary prints the count per label in report order, then the
// unclassified percentage.
func WriteSummary(w io.Writer, t *Tally) error {
	bw := bufio.NewWriter(w)
	for _, l := range classify.Labels() {
		fmt.Fprintf(bw, "%-18s %d\n", l, t.Count(l))
	}
	fmt.Fprintf(bw, "%-18s %d\n", "Total", t.Total())
	if t.Failed() > 0 {
		fmt.Fprintf(bw, "%-18s %d\n", "Unreadable", t.Failed())
	}
	fmt.Fprintf(bw, "Unclassified: %.2f%%\n", t.Unclassified()*100)
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write summary")
	}
	return nil
}
