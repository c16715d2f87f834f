package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
	"onboard/internal/store"
)

const totalCountHeader = "X-Total-Count"

type handlers struct {
	store  *store.Store
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}

// writeError maps store errors onto status codes. json-server answers a
// missing record with 404 and an empty object.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch status := appErrors.HTTPStatus(appErrors.CodeOf(err)); status {
	case http.StatusNotFound:
		writeJSON(w, status, struct{}{})
	case http.StatusBadRequest:
		writeJSON(w, status, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
	}
}

func badRequest(msg string) error {
	return appErrors.New(appErrors.CodeValidation, msg, nil)
}

// parseQuery reads name_like, _page and _limit.
func parseQuery(r *http.Request) (store.Query, error) {
	values := r.URL.Query()
	q := store.Query{NameLike: strings.TrimSpace(values.Get("name_like"))}
	var err error
	if q.Page, err = positiveParam(values.Get("_page")); err != nil {
		return store.Query{}, badRequest("invalid _page")
	}
	if q.Limit, err = positiveParam(values.Get("_limit")); err != nil {
		return store.Query{}, badRequest("invalid _limit")
	}
	return q, nil
}

func positiveParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		// Non-numeric IDs can never match a row.
		return 0, appErrors.New(appErrors.CodeNotFound, "unknown id", nil)
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return appErrors.New(appErrors.CodeParseFailed, "invalid JSON body", err)
	}
	return nil
}

func writeList[T any](w http.ResponseWriter, items []T, total int) {
	w.Header().Set(totalCountHeader, strconv.Itoa(total))
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) listDepartments(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.store.Departments(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items, total)
}

func (h *handlers) getDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.store.Department(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.store.Locations(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items, total)
}

func (h *handlers) getLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.store.Location(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handlers) listBasicInfo(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.store.BasicInfos(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items, total)
}

func (h *handlers) getBasicInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	info, err := h.store.BasicInfo(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *handlers) createBasicInfo(w http.ResponseWriter, r *http.Request) {
	var info domain.BasicInfo
	if err := decodeBody(r, &info); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.store.CreateBasicInfo(r.Context(), info)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) replaceBasicInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var info domain.BasicInfo
	if err := decodeBody(r, &info); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.store.ReplaceBasicInfo(r.Context(), id, info)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) patchBasicInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch store.BasicInfoPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.store.PatchBasicInfo(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteBasicInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.store.DeleteBasicInfo(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *handlers) listDetails(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dq := store.DetailQuery{Query: q}
	for _, raw := range r.URL.Query()["basicInfoId"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, badRequest("invalid basicInfoId"))
			return
		}
		dq.BasicInfoIDs = append(dq.BasicInfoIDs, id)
	}
	items, total, err := h.store.Details(r.Context(), dq)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items, total)
}

func (h *handlers) getDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.store.Detail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) createDetail(w http.ResponseWriter, r *http.Request) {
	var d domain.Detail
	if err := decodeBody(r, &d); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.store.CreateDetail(r.Context(), d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) replaceDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var d domain.Detail
	if err := decodeBody(r, &d); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.store.ReplaceDetail(r.Context(), id, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) patchDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch store.DetailPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.store.PatchDetail(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.store.DeleteDetail(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
