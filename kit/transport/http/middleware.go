package http

import (
	"net/http"
	"strings"

	"github.com/marinadb/marina"
)

const mediaTypeJSON = "application/json"

// CheckAccept rejects requests whose Accept header names neither
// application/json nor */*. A missing Accept header accepts anything.
func CheckAccept(api *API) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !acceptsJSON(r.Header.Get("Accept")) {
				api.Err(w, r, &marina.Error{
					Code: marina.ENotAcceptable,
					Msg:  "the requested Accept media type is not supported, use application/json",
				})
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// CheckJSONContentType rejects body-carrying requests whose Content-Type
// is not application/json. Bodyless PUTs, such as relationship
// assignments, pass through.
func CheckJSONContentType(api *API) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength == 0 {
					break
				}
				ct := r.Header.Get("Content-Type")
				if mt := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]); mt != mediaTypeJSON {
					api.Err(w, r, &marina.Error{
						Code: marina.EUnsupportedMediaType,
						Msg:  "the request Content-Type is not application/json",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func acceptsJSON(accept string) bool {
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mt := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mt == mediaTypeJSON || mt == "*/*" || mt == "application/*" {
			return true
		}
	}
	return false
}
