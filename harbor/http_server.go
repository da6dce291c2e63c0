package harbor

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/jsonweb"
	kithttp "github.com/marinadb/marina/kit/transport/http"
)

// HTTPHandler is the HTTP surface for all marina resources.
type HTTPHandler struct {
	chi.Router
}

// NewHTTPHandler mounts the per-resource routers behind the shared
// middleware stack: panic recovery, request metrics and content
// negotiation.
func NewHTTPHandler(log *zap.Logger, svc *Service, parser *jsonweb.TokenParser, reg prometheus.Registerer) *HTTPHandler {
	api := kithttp.NewAPI(kithttp.WithLog(log))

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RealIP,
		Metrics("marinad", reg),
		kithttp.CheckAccept(api),
		kithttp.CheckJSONContentType(api),
	)

	r.Mount("/boats", newBoatHandler(api, svc, parser))
	r.Mount("/loads", newLoadHandler(api, svc))
	r.Mount("/slips", newSlipHandler(api, svc))
	r.Mount("/owners", newOwnerHandler(api, svc))
	r.Mount("/users", newUserHandler(api, svc))

	return &HTTPHandler{Router: r}
}

// notAllowedHandler responds 405 with an Allow header naming the
// methods the route supports.
func notAllowedHandler(api *kithttp.API, allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		api.Err(w, r, &marina.Error{
			Code: marina.EMethodNotAllowed,
			Msg:  "method not allowed on this resource, see the Allow header",
		})
	}
}

// idFromPath parses the named chi URL parameter as a resource ID.
func idFromPath(r *http.Request, key string) (marina.ID, error) {
	id, err := marina.IDFromString(chi.URLParam(r, key))
	if err != nil {
		return 0, err
	}
	return *id, nil
}
