package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/datacoll-api/internal/routing"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/dimitrije/datacoll-api/pkg/dto"
	"go.uber.org/zap"
)

// Dispatcher is the single entry point of the API: it resolves every
// request through the route table and forwards it to the matching handler.
type Dispatcher struct {
	router       *routing.Router
	collections  CollectionServiceInterface
	members      MemberServiceInterface
	capabilities CapabilityServiceInterface
	version      string
	logger       *zap.Logger
}

func NewDispatcher(
	collections CollectionServiceInterface,
	members MemberServiceInterface,
	capabilities CapabilityServiceInterface,
	version string,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		router:       routing.NewRouter(),
		collections:  collections,
		members:      members,
		capabilities: capabilities,
		version:      version,
		logger:       logger,
	}

	for _, t := range []routing.Template{
		{Method: "*", Pattern: []string{"collections"}, Kind: routing.KindCollection, Action: routing.ActionPlain},
		{Method: "*", Pattern: []string{"collections", "*"}, Kind: routing.KindCollection, Action: routing.ActionPlain},
		{Method: "*", Pattern: []string{"collections", "*", "capabilities"}, Kind: routing.KindCollection, Action: routing.ActionCapabilities},
		{Method: "*", Pattern: []string{"collections", "*", "download"}, Kind: routing.KindCollection, Action: routing.ActionDownload},
		{Method: "*", Pattern: []string{"collections", "*", "members"}, Kind: routing.KindMember, Action: routing.ActionPlain},
		{Method: "*", Pattern: []string{"collections", "*", "members", "*"}, Kind: routing.KindMember, Action: routing.ActionPlain},
		{Method: "*", Pattern: []string{"collections", "*", "members", "*", "download"}, Kind: routing.KindMember, Action: routing.ActionDownload},
		{Method: "*", Pattern: []string{"collections", "*", "members", "*", "properties"}, Kind: routing.KindMember, Action: routing.ActionProperties},
		{Method: "*", Pattern: []string{"features"}, Kind: routing.KindFeature, Action: routing.ActionPlain},
		{Method: "*", Pattern: []string{"version"}, Kind: routing.KindVersion, Action: routing.ActionPlain},
	} {
		d.router.Register(t)
	}
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r.URL.Path)
	match, err := d.router.Resolve(r.Method, segments)
	if err != nil {
		d.writeError(w, err)
		return
	}

	switch match.Kind {
	case routing.KindCollection:
		d.serveCollection(w, r, match)
	case routing.KindMember:
		d.serveMember(w, r, match)
	case routing.KindFeature:
		d.serveFeatures(w, r)
	case routing.KindVersion:
		d.serveVersion(w, r)
	default:
		d.writeError(w, routing.ErrUnknownRoute)
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func (d *Dispatcher) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		d.logger.Warn("write response", zap.Error(err))
	}
}

// writeError maps domain errors to the wire: missing resources are 404,
// caller mistakes (including uniqueness conflicts) are 400, the rest 500.
func (d *Dispatcher) writeError(w http.ResponseWriter, err error) {
	var status int
	var message string
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, routing.ErrUnknownRoute):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrConflict):
		status, message = http.StatusBadRequest, "conflict with existing resource"
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, routing.ErrBadRequest):
		status, message = http.StatusBadRequest, "bad request"
	default:
		status, message = http.StatusInternalServerError, "internal error"
		d.logger.Error("request failed", zap.Error(err))
	}
	d.writeJSON(w, status, dto.ErrorResponse{Code: 0, Message: message})
}
