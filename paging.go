package marina

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPageSize is used when a list request carries no limit.
	DefaultPageSize = 5

	// MaxPageSize is the largest number of entities returned in one page.
	MaxPageSize = 100
)

// FindOptions represents options passed to all find methods with multiple results.
type FindOptions struct {
	Limit  int
	Offset int
}

// QueryParams returns a map containing url query params.
func (f FindOptions) QueryParams() map[string][]string {
	qp := url.Values{}

	if f.Limit > 0 {
		qp.Add("limit", strconv.Itoa(f.Limit))
	}

	if f.Offset > 0 {
		qp.Add("offset", strconv.Itoa(f.Offset))
	}

	return qp
}

// PagingFilter represents a filter containing url query params.
type PagingFilter interface {
	// QueryParams returns a map containing url query params.
	QueryParams() map[string][]string
}

// PagingLinks represents paging links for a collection response.
//
// Next is an offset+limit encoding, not a server-side snapshot cursor.
// Concurrent inserts or deletes shift offsets and can make a page
// overlap or skip entities.
type PagingLinks struct {
	Prev string `json:"prev,omitempty"`
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
}
