package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/text/encoding/korean"

	"StockLens/internal/apperr"
	"StockLens/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

const listingHTML = `<html><head><meta http-equiv="Content-Type" content="text/html; charset=euc-kr"></head><body>
<table border="1">
<tr><th>회사명</th><th>시장구분</th><th>종목코드</th><th>업종</th></tr>
<tr><td>삼성전자</td><td>유가</td><td>005930</td><td>통신 및 방송 장비 제조업</td></tr>
<tr><td>SK하이닉스</td><td>유가</td><td>660</td><td>반도체 제조업</td></tr>
<tr><td>에코프로비엠</td><td>코스닥</td><td>247540</td><td>일차전지 및 축전지 제조업</td></tr>
</table></body></html>`

func TestParseListing(t *testing.T) {
	got, err := ParseListing(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatal(err)
	}
	want := []model.ListedCompany{
		{Name: "삼성전자", Code: "005930"},
		{Name: "SK하이닉스", Code: "000660"},
		{Name: "에코프로비엠", Code: "247540"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestParseListing_MissingColumns(t *testing.T) {
	_, err := ParseListing(strings.NewReader(`<table><tr><th>name</th></tr><tr><td>x</td></tr></table>`))
	if err == nil {
		t.Fatal("expected error when headers are missing")
	}
}

func TestKRXSource_DecodesEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String(listingHTML)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		w.Write([]byte(encoded))
	}))
	defer srv.Close()

	rows, err := NewKRXSource(srv.URL, "").FetchListing(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Name != "삼성전자" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestResolve_CodePassthroughSkipsDirectory(t *testing.T) {
	src := NewStaticSource(map[string]string{"삼성전자": "005930"})
	r := NewResolver(src, Options{})

	for _, in := range []string{"005930", "000000", "999999", " 123456 "} {
		code, err := r.Resolve(context.Background(), in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if code != strings.TrimSpace(in) {
			t.Errorf("%q: expected passthrough, got %q", in, code)
		}
	}
	if src.Calls() != 0 {
		t.Errorf("directory must not be consulted for codes, got %d fetches", src.Calls())
	}
}

func TestResolve_ExactName(t *testing.T) {
	src := NewStaticSource(map[string]string{"삼성전자": "005930", "삼성전자우": "005935"})
	r := NewResolver(src, Options{})

	code, err := r.Resolve(context.Background(), "  삼성전자 ")
	if err != nil {
		t.Fatal(err)
	}
	if code != "005930" {
		t.Errorf("expected 005930, got %s", code)
	}

	for _, in := range []string{"삼성", "samsung", "12345", "0059300"} {
		if _, err := r.Resolve(context.Background(), in); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("%q: expected not found, got %v", in, err)
		}
	}
	if src.Calls() != 1 {
		t.Errorf("expected a single cached fetch, got %d", src.Calls())
	}
}

func TestResolve_Empty(t *testing.T) {
	r := NewResolver(NewStaticSource(nil), Options{})
	if _, err := r.Resolve(context.Background(), "   "); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSnapshot_RefreshesAfterTTL(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	src := NewStaticSource(map[string]string{"삼성전자": "005930"})
	r := NewResolver(src, Options{Clock: clk})
	ctx := context.Background()

	r.Resolve(ctx, "삼성전자")
	clk.Advance(11 * time.Hour)
	r.Resolve(ctx, "삼성전자")
	if src.Calls() != 1 {
		t.Fatalf("expected cache hit within 12h, got %d fetches", src.Calls())
	}
	clk.Advance(time.Hour)
	r.Resolve(ctx, "삼성전자")
	if src.Calls() != 2 {
		t.Errorf("expected refetch at 12h, got %d fetches", src.Calls())
	}
}

func TestSnapshot_UnavailableWithoutCache(t *testing.T) {
	src := NewStaticSource(nil)
	src.Fail(errors.New("connection refused"))
	r := NewResolver(src, Options{ServeStale: true})

	_, err := r.Resolve(context.Background(), "삼성전자")
	if !errors.Is(err, apperr.ErrDirectoryUnavailable) {
		t.Fatalf("expected directory unavailable, got %v", err)
	}
}

func TestSnapshot_StalePolicy(t *testing.T) {
	for _, serveStale := range []bool{true, false} {
		clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		src := NewStaticSource(map[string]string{"삼성전자": "005930"})
		r := NewResolver(src, Options{Clock: clk, ServeStale: serveStale})
		ctx := context.Background()

		if _, err := r.Resolve(ctx, "삼성전자"); err != nil {
			t.Fatal(err)
		}
		clk.Advance(13 * time.Hour)
		src.Fail(errors.New("timeout"))

		code, err := r.Resolve(ctx, "삼성전자")
		if serveStale {
			if err != nil || code != "005930" {
				t.Errorf("serve stale: expected 005930, got %q, %v", code, err)
			}
		} else if !errors.Is(err, apperr.ErrDirectoryUnavailable) {
			t.Errorf("no stale: expected directory unavailable, got %v", err)
		}
	}
}

func TestRefresh_KeepsOldSnapshotOnFailure(t *testing.T) {
	src := NewStaticSource(map[string]string{"삼성전자": "005930"})
	r := NewResolver(src, Options{})
	ctx := context.Background()

	if err := r.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	src.Fail(errors.New("down"))
	if err := r.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}
	if code, err := r.Resolve(ctx, "삼성전자"); err != nil || code != "005930" {
		t.Errorf("expected cached snapshot to survive, got %q, %v", code, err)
	}
}

func TestBuildListing_EnforcesUniqueness(t *testing.T) {
	rows := []model.ListedCompany{
		{Name: "A", Code: "000001"},
		{Name: "A", Code: "000002"},
		{Name: "B", Code: "000001"},
		{Name: "C", Code: "12AB"},
		{Name: "D", Code: "000004"},
	}
	l := BuildListing(rows, time.Now(), nil)
	if l.Len() != 2 {
		t.Fatalf("expected 2 companies, got %d", l.Len())
	}
	if code, _ := l.Lookup("A"); code != "000001" {
		t.Errorf("first occurrence must win, got %s", code)
	}
	if _, ok := l.Lookup("B"); ok {
		t.Errorf("duplicate code row must be dropped")
	}
}

func TestIsCode(t *testing.T) {
	tests := map[string]bool{
		"005930":  true,
		"00593":   false,
		"0059300": false,
		"00593a":  false,
		"":        false,
		"٠٠٥٩٣٠":  false,
	}
	for in, want := range tests {
		if got := IsCode(in); got != want {
			t.Errorf("IsCode(%q) = %v, want %v", in, got, want)
		}
	}
}
