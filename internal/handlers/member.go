package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/dimitrije/datacoll-api/internal/encoding"
	"github.com/dimitrije/datacoll-api/internal/routing"
	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (d *Dispatcher) serveMember(w http.ResponseWriter, r *http.Request, match routing.RouteMatch) {
	collID, err := uuid.Parse(match.CollectionID)
	if err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	if match.MemberID == "" {
		switch r.Method {
		case http.MethodGet:
			d.listMembers(w, r, collID)
		case http.MethodPost:
			d.createMember(w, r, collID)
		default:
			d.writeError(w, routing.ErrBadRequest)
		}
		return
	}

	memberID, err := strconv.Atoi(match.MemberID)
	if err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	switch match.Action {
	case routing.ActionDownload:
		if r.Method != http.MethodGet {
			d.writeError(w, routing.ErrBadRequest)
			return
		}
		d.downloadMember(w, r, collID, memberID)
	case routing.ActionProperties:
		if r.Method != http.MethodGet {
			d.writeError(w, routing.ErrBadRequest)
			return
		}
		d.memberProperties(w, r, collID, memberID)
	default:
		switch r.Method {
		case http.MethodGet:
			d.getMember(w, r, collID, memberID)
		case http.MethodPut:
			d.updateMember(w, r, collID, memberID)
		case http.MethodDelete:
			d.deleteMember(w, r, collID, memberID)
		default:
			d.writeError(w, routing.ErrBadRequest)
		}
	}
}

func memberInput(req dto.MemberRequest) services.MemberInput {
	return services.MemberInput{
		PID:      req.PID,
		Location: req.Location,
		Checksum: req.Checksum,
		Datatype: req.Datatype,
		Index:    req.Index(),
	}
}

func (d *Dispatcher) createMember(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	var req dto.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	m, err := d.members.Create(r.Context(), collID, memberInput(req))
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, http.StatusCreated, dto.NewMemberResponse(m))
}

func (d *Dispatcher) getMember(w http.ResponseWriter, r *http.Request, collID uuid.UUID, id int) {
	m, err := d.members.Get(r.Context(), collID, id)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, http.StatusOK, dto.NewMemberResponse(m))
}

func (d *Dispatcher) listMembers(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	ctx := r.Context()
	cur, err := d.members.List(ctx, collID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	defer cur.Close(ctx)

	stream := encoding.NewStream(func() ([]byte, error) {
		m, ok, err := cur.Next(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return json.Marshal(dto.NewMemberResponse(m))
	})

	w.Header().Set("Content-Type", "application/json")
	if _, err := stream.WriteTo(w); err != nil {
		d.logger.Error("member listing aborted", zap.Error(err))
	}
}

func (d *Dispatcher) updateMember(w http.ResponseWriter, r *http.Request, collID uuid.UUID, id int) {
	var req dto.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		d.writeError(w, services.ErrBadRequest)
		return
	}

	m, err := d.members.Update(r.Context(), collID, id, memberInput(req))
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, http.StatusOK, dto.NewMemberResponse(m))
}

func (d *Dispatcher) deleteMember(w http.ResponseWriter, r *http.Request, collID uuid.UUID, id int) {
	if err := d.members.Delete(r.Context(), collID, id); err != nil {
		d.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// downloadMember redirects to the member's bitstream: the PID through the
// resolver when present, otherwise the direct location.
func (d *Dispatcher) downloadMember(w http.ResponseWriter, r *http.Request, collID uuid.UUID, id int) {
	target, err := d.members.DownloadTarget(r.Context(), collID, id)
	if err != nil {
		d.writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func (d *Dispatcher) memberProperties(w http.ResponseWriter, r *http.Request, collID uuid.UUID, id int) {
	m, err := d.members.Get(r.Context(), collID, id)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, http.StatusOK, dto.MappingsDoc{Index: m.ID, DateAdded: m.DateAdded})
}

// downloadCollection concatenates the bitstreams of every member into a
// single body, fetching each download target in member order.
func (d *Dispatcher) downloadCollection(w http.ResponseWriter, r *http.Request, collID uuid.UUID) {
	ctx := r.Context()
	targets, err := d.members.DownloadTargets(ctx, collID)
	if err != nil {
		d.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	for _, target := range targets {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			d.logger.Warn("skipping unreachable member", zap.String("target", target), zap.Error(err))
			continue
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			d.logger.Warn("skipping unreachable member", zap.String("target", target), zap.Error(err))
			continue
		}
		if _, err := io.Copy(w, resp.Body); err != nil {
			resp.Body.Close()
			d.logger.Error("collection download aborted", zap.Error(err))
			return
		}
		resp.Body.Close()
	}
}
