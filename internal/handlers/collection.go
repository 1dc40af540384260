package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dimitrije/datacoll-api/internal/encoding"
	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/routing"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (d *Dispatcher) serveCollection(w http.ResponseWriter, r *http.Request, match routing.RouteMatch) {
	if match.CollectionID == "" {
		switch r.Method {
		case http.MethodGet:
			d.listCollections(w, r)
		case http.MethodPost:
			d.createCollection(w, r)
		default:
			d.writeError(w, routing.ErrBadRequest)
		}
		return
	}

	collID, err := uuid.Parse(match.CollectionID)
	if err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	switch match.Action {
	case routing.ActionCapabilities:
		if r.Method != http.MethodGet {
			d.writeError(w, routing.ErrBadRequest)
			return
		}
		d.collectionCapabilities(w, r, collID)
	case routing.ActionDownload:
		if r.Method != http.MethodGet {
			d.writeError(w, routing.ErrBadRequest)
			return
		}
		d.downloadCollection(w, r, collID)
	default:
		switch r.Method {
		case http.MethodGet:
			d.getCollection(w, r, collID)
		case http.MethodPut:
			d.updateCollection(w, r, collID)
		case http.MethodDelete:
			d.deleteCollection(w, r, collID)
		default:
			d.writeError(w, routing.ErrBadRequest)
		}
	}
}

func (d *Dispatcher) createCollection(w http.ResponseWriter, r *http.Request) {
	var req dto.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	coll, err := d.collections.Create(r.Context(), services.CollectionInput{
		PID:                req.PID,
		Name:               req.Name,
		Owner:              req.Ownership(),
		RestrictedDatatype: req.RestrictedToType(),
		Rule:               req.Rule,
	})
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeCollection(w, r, http.StatusCreated, coll)
}

func (d *Dispatcher) getCollection(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	coll, err := d.collections.Get(r.Context(), collID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeCollection(w, r, http.StatusOK, coll)
}

func (d *Dispatcher) listCollections(w http.ResponseWriter, r *http.Request) {
	var owner *string
	if o := r.URL.Query().Get("filter_by_owner"); o != "" {
		owner = &o
	}

	ctx := r.Context()
	cur, err := d.collections.List(ctx, owner)
	if err != nil {
		d.writeError(w, err)
		return
	}
	defer cur.Close(ctx)

	stream := encoding.NewStream(func() ([]byte, error) {
		coll, ok, err := cur.Next(ctx)
		if err != nil || !ok {
			return nil, err
		}
		caps, err := d.capabilities.CapabilitiesOf(ctx, coll.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(dto.NewCollectionResponse(coll, *caps))
	})

	w.Header().Set("Content-Type", "application/json")
	if _, err := stream.WriteTo(w); err != nil {
		// Headers are out; all we can do is log and cut the body short.
		d.logger.Error("collection listing aborted", zap.Error(err))
	}
}

func (d *Dispatcher) updateCollection(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	var req dto.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	coll, err := d.collections.Update(r.Context(), collID, services.CollectionInput{
		PID:                req.PID,
		Name:               req.Name,
		Owner:              req.Ownership(),
		RestrictedDatatype: req.RestrictedToType(),
		Rule:               req.Rule,
	})
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeCollection(w, r, http.StatusOK, coll)
}

func (d *Dispatcher) deleteCollection(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	if err := d.collections.Delete(r.Context(), collID); err != nil {
		d.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dispatcher) collectionCapabilities(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	caps, err := d.capabilities.CapabilitiesOf(r.Context(), collID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, http.StatusOK, dto.CapabilitiesDoc{
		IsOrdered:           caps.IsOrdered,
		AppendsToEnd:        caps.AppendsToEnd,
		SupportsRoles:       caps.SupportsRoles,
		MembershipIsMutable: caps.MembershipIsMutable,
		MetadataIsMutable:   caps.MetadataIsMutable,
		RestrictedToType:    caps.RestrictedToType,
		MaxLength:           caps.MaxLength,
		RuleBasedGeneration: caps.RuleBasedGeneration,
	})
}

func (d *Dispatcher) writeCollection(w http.ResponseWriter, r *http.Request, status int, coll *models.Collection) {
	caps, err := d.capabilities.CapabilitiesOf(r.Context(), coll.ID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, status, dto.NewCollectionResponse(coll, *caps))
}
