package documents

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/platform/httpx"
	"github.com/quotebill/quotebill/internal/shared"
)

// Handler serves the quotation and bill JSON endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// kindFromPath maps the plural route segment to a document kind.
var kindFromPath = map[string]billing.Kind{
	"quotations": billing.KindQuotation,
	"bills":      billing.KindBill,
}

type listResponse struct {
	Items      []ListItem        `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

type createdResponse struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

func (h *Handler) kind(r *http.Request) (billing.Kind, error) {
	kind, ok := kindFromPath[chi.URLParam(r, "kind")]
	if !ok {
		return "", ErrUnknownKind
	}
	return kind, nil
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, billing.Kind, bool) {
	userID, ok := shared.UserFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrNoUser)
		return uuid.Nil, "", false
	}
	kind, err := h.kind(r)
	if err != nil {
		httpx.RespondError(w, err)
		return uuid.Nil, "", false
	}
	return userID, kind, true
}

func documentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Warn(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func (h *Handler) NewDraft(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	doc, err := h.service.NewDraft(r.Context(), userID, kind)
	if err != nil {
		h.fail(w, "new draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	result, page, err := h.service.List(r.Context(), userID, kind, shared.PageFromQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, "list documents", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: result.Items, Pagination: page})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.service.Create(r.Context(), userID, kind, req)
	if err != nil {
		h.fail(w, "create document", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, createdResponse{ID: doc.ID, Number: doc.Number})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), userID, kind, id)
	if err != nil {
		h.fail(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	var req SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.service.Update(r.Context(), userID, kind, id, req)
	if err != nil {
		h.fail(w, "update document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, kind, id); err != nil {
		h.fail(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetStatus(r.Context(), userID, kind, id, req); err != nil {
		h.fail(w, "set document status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pv, err := h.service.PreviewDraft(r.Context(), userID, kind, req, previewOptions(r.URL.Query()))
	if err != nil {
		h.fail(w, "preview draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pv)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	pv, _, err := h.service.Preview(r.Context(), userID, kind, id, previewOptions(r.URL.Query()))
	if err != nil {
		h.fail(w, "preview document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pv)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	pdf, doc, err := h.service.PDF(r.Context(), userID, kind, id, previewOptions(r.URL.Query()))
	if err != nil {
		h.logger.Error("render document pdf", slog.String("id", id.String()), slog.Any("error", err))
		if isClientError(err) {
			httpx.RespondError(w, err)
			return
		}
		httpx.Problem(w, http.StatusBadGateway, "PDF Unavailable", "the document could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+FileName(doc)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func isClientError(err error) bool {
	return errors.Is(err, httpx.ErrNotFound) ||
		errors.Is(err, httpx.ErrValidation) ||
		errors.Is(err, httpx.ErrUnauthorized)
}

// previewOptions reads discount, terms, notes and financial toggles; each
// defaults to true.
func previewOptions(q url.Values) PreviewOptions {
	opts := DefaultPreviewOptions()
	flag := func(name string, dst *bool) {
		if raw := q.Get(name); raw != "" {
			if v, err := strconv.ParseBool(raw); err == nil {
				*dst = v
			}
		}
	}
	flag("discount", &opts.ShowDiscount)
	flag("terms", &opts.ShowTerms)
	flag("notes", &opts.ShowNotes)
	flag("financial", &opts.ShowFinancialInfo)
	return opts
}
