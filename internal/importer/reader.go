package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without any worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// ReadRows reads a tabular file in the given format.
func ReadRows(format Format, r io.Reader) ([]Row, error) {
	switch format {
	case FormatSpreadsheet:
		return ReadSpreadsheet(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("format %q is not tabular", format)
	}
}

// ReadSpreadsheet reads the first worksheet of a workbook into rows.
func ReadSpreadsheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	table, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromTable(table), nil
}

// ReadCSV reads delimited text into rows. The delimiter (comma, semicolon or
// tab) is guessed from the header line.
func ReadCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromTable(table), nil
}

func sniffDelimiter(data []byte) rune {
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ',', bytes.Count(firstLine, []byte(","))
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(firstLine, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

// ReadJSON decodes a JSON array of (possibly partial) trainings. Missing
// fields stay zero; a missing exercise list stays nil so callers can tell it
// apart from an empty one.
func ReadJSON(r io.Reader) ([]domain.Training, error) {
	var raw []jsonTraining
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	trainings := make([]domain.Training, len(raw))
	for i, t := range raw {
		trainings[i] = domain.Training{
			ID:        t.ID,
			Name:      t.Name,
			Date:      time.Time(t.Date),
			Exercises: t.Exercises,
			Notes:     t.Notes,
			Duration:  t.Duration,
		}
	}
	return trainings, nil
}

type jsonTraining struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      lenientTime       `json:"date"`
	Exercises []domain.Exercise `json:"exercises"`
	Notes     string            `json:"notes"`
	Duration  *float64          `json:"duration"`
}

// lenientTime accepts the date shapes found in hand-written export files.
type lenientTime time.Time

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func (t *lenientTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			*t = lenientTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %q", text)
}
