// Package dataset loads historical season files in the football-data.co.uk
// CSV layout and serves them to the backtest engine.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/steady-better/internal/logger"
	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/models"
)

// Required season file columns. Bet365 closing prices are the odds source,
// matching the reference datasets.
const (
	colHomeOdds  = "B365H"
	colDrawOdds  = "B365D"
	colAwayOdds  = "B365A"
	colHomeGoals = "FTHG"
	colAwayGoals = "FTAG"
	colResult    = "FTR"
)

var requiredColumns = []string{colHomeOdds, colDrawOdds, colAwayOdds, colHomeGoals, colAwayGoals, colResult}

// Reader parses season files into match records.
type Reader struct {
	logger *logger.DatasetLogger
}

// NewReader creates a season file reader.
func NewReader(baseLogger *logrus.Logger) *Reader {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &Reader{logger: logger.NewDatasetLogger(baseLogger)}
}

// ReadFile parses the season file at path. It returns the match records in
// file order and the number of rows skipped for missing cells.
func (r *Reader) ReadFile(path string) ([]models.MatchRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open season file: %w", err)
	}
	defer f.Close()

	return r.Read(f, path)
}

// Read parses season CSV data. Columns are located by header name so extra
// columns and reordered files parse fine. Rows with empty required cells are
// skipped (the feeds mark missing odds as blank or NA); rows with malformed
// non-empty cells fail the whole load with a line-numbered error.
func (r *Reader) Read(src io.Reader, name string) ([]models.MatchRecord, int, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // season files carry ragged trailing columns

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("%s: %w", name, models.ErrEmptyDataset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", name, err)
	}

	var records []models.MatchRecord
	skipped := 0
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, skipped, fmt.Errorf("%s line %d: %w", name, line, err)
		}

		cells, ok := requiredCells(row, index)
		if !ok {
			skipped++
			r.logger.LogRowSkipped(name, line, "missing required cell")
			metrics.RecordDatasetRowSkipped()
			continue
		}

		rec, err := r.parseRow(cells, name, line)
		if err != nil {
			return nil, skipped, err
		}
		records = append(records, rec)
	}

	r.logger.LogParseCompleted(name, len(records), skipped)
	if len(records) == 0 {
		return nil, skipped, fmt.Errorf("%s: %w", name, models.ErrEmptyDataset)
	}
	return records, skipped, nil
}

// mapColumns locates the required columns in the header row.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingColumn, col)
		}
	}
	return index, nil
}

// requiredCells extracts the required cells from a row, reporting false when
// any of them is absent or empty.
func requiredCells(row []string, index map[string]int) (map[string]string, bool) {
	cells := make(map[string]string, len(requiredColumns))
	for _, col := range requiredColumns {
		i := index[col]
		if i >= len(row) {
			return nil, false
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" || cell == "NA" {
			return nil, false
		}
		cells[col] = cell
	}
	return cells, true
}

func (r *Reader) parseRow(cells map[string]string, name string, line int) (models.MatchRecord, error) {
	var rec models.MatchRecord

	homeOdds, err := parseOdds(cells[colHomeOdds])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w", name, line, colHomeOdds, err)
	}
	drawOdds, err := parseOdds(cells[colDrawOdds])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w", name, line, colDrawOdds, err)
	}
	awayOdds, err := parseOdds(cells[colAwayOdds])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w", name, line, colAwayOdds, err)
	}
	for _, odds := range []float64{homeOdds, drawOdds, awayOdds} {
		if odds <= 1 {
			r.logger.LogSuspiciousOdds(name, line, odds)
		}
	}

	homeGoals, err := strconv.Atoi(cells[colHomeGoals])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w: %q", name, line, colHomeGoals, models.ErrMalformedRow, cells[colHomeGoals])
	}
	awayGoals, err := strconv.Atoi(cells[colAwayGoals])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w: %q", name, line, colAwayGoals, models.ErrMalformedRow, cells[colAwayGoals])
	}

	result, err := models.ParseResultCode(cells[colResult])
	if err != nil {
		return rec, fmt.Errorf("%s line %d: column %s: %w", name, line, colResult, err)
	}

	rec = models.MatchRecord{
		HomeOdds:  homeOdds,
		DrawOdds:  drawOdds,
		AwayOdds:  awayOdds,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Result:    result,
	}
	return rec, nil
}

// parseOdds parses a decimal odds cell, rejecting non-positive values.
func parseOdds(cell string) (float64, error) {
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, fmt.Errorf("%w: odds %q", models.ErrMalformedRow, cell)
	}
	if !d.GreaterThan(decimal.Zero) {
		return 0, fmt.Errorf("%w: odds %q must be positive", models.ErrMalformedRow, cell)
	}
	return d.InexactFloat64(), nil
}

// SeasonLabel derives an export label from a season file path, e.g.
// "data/E0-2425.csv" becomes "E0-2425".
func SeasonLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
