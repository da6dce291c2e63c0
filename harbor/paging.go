package harbor

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/marinadb/marina"
)

// normalizeFindOptions collapses variadic options into a single value
// with defaults applied and the limit clamped.
func normalizeFindOptions(opt []marina.FindOptions) marina.FindOptions {
	o := marina.FindOptions{Limit: marina.DefaultPageSize}
	if len(opt) > 0 {
		o = opt[0]
	}

	if o.Limit <= 0 {
		o.Limit = marina.DefaultPageSize
	}
	if o.Limit > marina.MaxPageSize {
		o.Limit = marina.MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}

	return o
}

// decodeFindOptions parses limit and offset query parameters.
func decodeFindOptions(r *http.Request) (*marina.FindOptions, error) {
	opts := &marina.FindOptions{
		Limit: marina.DefaultPageSize,
	}

	qp := r.URL.Query()

	if v := qp.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return nil, &marina.Error{
				Code: marina.EInvalid,
				Msg:  "limit is invalid",
			}
		}

		if l < 1 || l > marina.MaxPageSize {
			return nil, &marina.Error{
				Code: marina.EInvalid,
				Msg:  "limit must be between 1 and 100",
			}
		}

		opts.Limit = l
	}

	if v := qp.Get("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil || o < 0 {
			return nil, &marina.Error{
				Code: marina.EInvalid,
				Msg:  "offset is invalid",
			}
		}

		opts.Offset = o
	}

	return opts, nil
}

// newPagingLinks returns the self, next and prev links for a collection
// page. A next link appears only when the page came back full; prev
// appears whenever the page is past the start.
func newPagingLinks(basePath string, opts marina.FindOptions, f marina.PagingFilter, num int) *marina.PagingLinks {
	u := url.URL{Path: basePath}

	values := url.Values{}
	if f != nil {
		for k, vs := range f.QueryParams() {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}

	encodeLink := func(o marina.FindOptions) string {
		vals := url.Values{}
		for k, vs := range values {
			vals[k] = vs
		}
		for k, vs := range o.QueryParams() {
			vals[k] = vs
		}
		u.RawQuery = vals.Encode()
		return u.String()
	}

	links := &marina.PagingLinks{
		Self: encodeLink(opts),
	}

	if num >= opts.Limit {
		next := opts
		next.Offset += opts.Limit
		links.Next = encodeLink(next)
	}

	if opts.Offset > 0 {
		prev := opts
		prev.Offset -= opts.Limit
		if prev.Offset < 0 {
			prev.Offset = 0
		}
		links.Prev = encodeLink(prev)
	}

	return links
}
