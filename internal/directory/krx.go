// Package directory resolves company names to KRX ticker codes using a
// cached snapshot of the exchange listing.
package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"StockLens/internal/model"
)

// DefaultListingURL is the KIND listing download for all KRX-listed companies.
const DefaultListingURL = "http://kind.krx.co.kr/corpgeneral/corpList.do?method=download&searchType=13"

const (
	headerName = "회사명"
	headerCode = "종목코드"
)

// Source yields the raw rows of the exchange directory.
type Source interface {
	FetchListing(ctx context.Context) ([]model.ListedCompany, error)
	Name() string
}

// KRXSource downloads the KIND listing, an EUC-KR encoded HTML table.
type KRXSource struct {
	URL     string
	Charset string // "euc-kr" (default) or "utf-8"
	Client  *http.Client
}

// NewKRXSource creates a listing source with optional proxy support.
func NewKRXSource(listingURL, proxyURL string) *KRXSource {
	if listingURL == "" {
		listingURL = DefaultListingURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &KRXSource{
		URL:     listingURL,
		Charset: "euc-kr",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *KRXSource) Name() string { return "krx" }

func (s *KRXSource) FetchListing(ctx context.Context) ([]model.ListedCompany, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("krx listing fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("krx listing: status %d, body: %s", resp.StatusCode, string(body))
	}

	var body io.Reader = resp.Body
	if !strings.EqualFold(s.Charset, "utf-8") {
		body = transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
	}
	return ParseListing(body)
}

// ParseListing reads the first HTML table whose header row names both the
// company and code columns. Numeric codes shorter than six digits are zero-padded.
func ParseListing(r io.Reader) ([]model.ListedCompany, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var (
		companies []model.ListedCompany
		found     bool
	)
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		nameCol, codeCol := -1, -1
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("th, td")
			if nameCol < 0 || codeCol < 0 {
				cells.Each(func(j int, cell *goquery.Selection) {
					switch strings.TrimSpace(cell.Text()) {
					case headerName:
						nameCol = j
					case headerCode:
						codeCol = j
					}
				})
				return
			}
			if cells.Length() <= nameCol || cells.Length() <= codeCol {
				return
			}
			name := strings.TrimSpace(cells.Eq(nameCol).Text())
			code := padCode(strings.TrimSpace(cells.Eq(codeCol).Text()))
			if name == "" || code == "" {
				return
			}
			companies = append(companies, model.ListedCompany{Name: name, Code: code})
		})
		if nameCol >= 0 && codeCol >= 0 {
			found = true
			return false
		}
		return true
	})

	if !found {
		return nil, fmt.Errorf("parse listing html: no table with %q and %q columns", headerName, headerCode)
	}
	return companies, nil
}

// padCode left-pads an all-digit code to six digits. Anything else is returned as-is
// and rejected later by snapshot validation.
func padCode(s string) string {
	if s == "" || len(s) > 6 || !allDigits(s) {
		return s
	}
	return strings.Repeat("0", 6-len(s)) + s
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsCode reports whether s is exactly six ASCII digits.
func IsCode(s string) bool {
	return len(s) == 6 && allDigits(s)
}
