package model

import "time"

// DateLayout is the compact date format used by the price providers.
const DateLayout = "20060102"

// PriceRecord is a single trading day for a ticker.
type PriceRecord struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume *float64 // nil when the provider does not report volume
}

// PriceSeries holds the daily records of one ticker over an inclusive date range.
type PriceSeries struct {
	Code    string
	Start   string // YYYYMMDD
	End     string // YYYYMMDD
	Records []PriceRecord
}

// Empty reports whether the series carries no records.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Records) == 0
}

// Closes returns the close column as a dated series.
func (s *PriceSeries) Closes() []Point {
	if s == nil {
		return nil
	}
	points := make([]Point, len(s.Records))
	for i, r := range s.Records {
		c := r.Close
		points[i] = Point{Date: r.Date, Value: &c}
	}
	return points
}

// HasVolume reports whether any record carries a volume.
func (s *PriceSeries) HasVolume() bool {
	if s == nil {
		return false
	}
	for _, r := range s.Records {
		if r.Volume != nil {
			return true
		}
	}
	return false
}

// Point is one dated value; a nil Value is a missing observation.
type Point struct {
	Date  time.Time
	Value *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Day truncates t to its calendar date at UTC midnight, the key used for date alignment.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
