package model

import "time"

// ListedCompany is one row of the exchange listing.
type ListedCompany struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Listing is an ordered snapshot of the exchange directory.
type Listing struct {
	Companies []ListedCompany
	FetchedAt time.Time

	byName map[string]string
}

// NewListing builds a snapshot and indexes it by company name.
// Callers are expected to pass rows with unique names and codes.
func NewListing(companies []ListedCompany, fetchedAt time.Time) *Listing {
	l := &Listing{
		Companies: companies,
		FetchedAt: fetchedAt,
		byName:    make(map[string]string, len(companies)),
	}
	for _, c := range companies {
		if _, ok := l.byName[c.Name]; !ok {
			l.byName[c.Name] = c.Code
		}
	}
	return l
}

// Lookup returns the code registered under the exact company name.
func (l *Listing) Lookup(name string) (string, bool) {
	if l == nil {
		return "", false
	}
	code, ok := l.byName[name]
	return code, ok
}

// Len returns the number of listed companies.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Companies)
}
