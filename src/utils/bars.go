package utils

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// csvBarDTO is the on-disk row shape. Dates are plain YYYY-MM-DD strings.
type csvBarDTO struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

const csvDateLayout = "2006-01-02"

func (r csvBarDTO) toModel() (models.Bar, error) {
	date, err := time.Parse(csvDateLayout, r.Date)
	if err != nil {
		return models.Bar{}, fmt.Errorf("failed to parse bar date %q: %w", r.Date, err)
	}

	return models.Bar{
		Date:   date,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}, nil
}

// ImportBarsFromCsv loads an OHLCV series from a CSV file and returns it
// sorted ascending with duplicate dates collapsed to the last row seen.
func ImportBarsFromCsv(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ImportBarsFromCsv: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []csvBarDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("ImportBarsFromCsv: failed to parse %s: %w", path, err)
	}

	return sortBars(rows)
}

// sortBars converts raw rows into an ascending, deduplicated bar series.
func sortBars(rows []csvBarDTO) ([]models.Bar, error) {
	byDate := map[time.Time]models.Bar{}
	for _, row := range rows {
		bar, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("sortBars: %w", err)
		}

		if _, ok := byDate[bar.Date]; ok {
			log.Warnf("sortBars: duplicate bar for %s, keeping last", bar.Date.Format(csvDateLayout))
		}

		byDate[bar.Date] = bar
	}

	bars := make([]models.Bar, 0, len(byDate))
	for _, bar := range byDate {
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return bars, nil
}
