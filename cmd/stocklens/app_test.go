package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDemoData(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	names, series := demoData(now)
	if len(names) != len(series) {
		t.Fatalf("names=%d series=%d", len(names), len(series))
	}
	for name, code := range names {
		recs := series[code]
		if len(recs) < 500 {
			t.Errorf("%s: only %d records", name, len(recs))
		}
		for _, r := range recs {
			if wd := r.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("%s: weekend record %s", name, r.Date)
			}
			if r.Close <= 0 || r.Low > r.Close || r.High < r.Close {
				t.Fatalf("%s: bad bar %+v", name, r)
			}
		}
	}
	again, _ := demoData(now)
	if len(again) != len(names) {
		t.Errorf("demo data should be deterministic")
	}
}

func TestXLSXPath(t *testing.T) {
	dir := t.TempDir()
	if got := xlsxPath(dir, "a.xlsx"); got != filepath.Join(dir, "a.xlsx") {
		t.Errorf("directory target = %q", got)
	}
	file := filepath.Join(dir, "out.xlsx")
	if got := xlsxPath(file, "a.xlsx"); got != file {
		t.Errorf("file target = %q", got)
	}
}
