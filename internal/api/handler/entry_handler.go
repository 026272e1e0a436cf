package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/api/service"
	"github.com/dashledger/internal/domain/entry"
)

// EntryHandler handles HTTP requests for ledger entry operations
type EntryHandler struct {
	entryService service.EntryService
	logger       *slog.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(logger *slog.Logger, entryService service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// Create handles creation of a new ledger entry. The amount sign is
// normalized from the kind, whatever sign the caller sent.
func (h *EntryHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := entry.CreateParams{
		Timestamp:       req.Timestamp,
		Kind:            entry.Kind(req.Kind),
		Platform:        entry.Platform(req.Platform),
		ExternalOrderID: req.ExternalOrderID,
		Amount:          decimal.NewFromFloat(req.Amount),
		DistanceMiles:   req.DistanceMiles,
		DurationMinutes: req.DurationMinutes,
		Category:        entry.Category(req.Category),
		Note:            req.Note,
		ReceiptRef:      req.ReceiptRef,
	}

	e, err := h.entryService.CreateEntry(c.Request.Context(), params)
	if err != nil {
		if isEntryValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create entry", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapEntryToResponse(e))
}

// GetByID retrieves an entry by its ID, returning 404 if not found
func (h *EntryHandler) GetByID(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}

	e, err := h.entryService.GetEntryByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entry.ErrEntryNotFound{}) {
			RespondNotFound(c, "Entry not found")
			return
		}
		h.logger.Error("Failed to get entry", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEntryToResponse(e))
}

// List retrieves a page of entries, newest first, with cursor pagination
func (h *EntryHandler) List(c *gin.Context) {
	var params ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := entry.ListFilter{
		Cursor: params.Cursor,
		Limit:  params.Limit,
	}

	if params.FromDate != "" {
		from, err := parseDateParam(params.FromDate, false)
		if err != nil {
			RespondBadRequest(c, "Invalid from_date: "+params.FromDate)
			return
		}
		filter.From = &from
	}
	if params.ToDate != "" {
		to, err := parseDateParam(params.ToDate, true)
		if err != nil {
			RespondBadRequest(c, "Invalid to_date: "+params.ToDate)
			return
		}
		filter.To = &to
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list entries", "error", err)
		RespondInternalError(c)
		return
	}

	resp := EntryListResponse{Entries: make([]EntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, mapEntryToResponse(e))
	}

	var nextCursor *int64
	if len(entries) == filter.Limit && len(entries) > 0 {
		last := entries[len(entries)-1].ID
		nextCursor = &last
	}

	RespondWithPaginatedData(c, 200, resp, len(entries), nextCursor)
}

// Update applies a partial update to an existing entry
func (h *EntryHandler) Update(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := entry.UpdateParams{
		Timestamp:       req.Timestamp,
		ExternalOrderID: req.ExternalOrderID,
		DistanceMiles:   req.DistanceMiles,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
		ReceiptRef:      req.ReceiptRef,
	}
	if req.Kind != nil {
		k := entry.Kind(*req.Kind)
		params.Kind = &k
	}
	if req.Platform != nil {
		p := entry.Platform(*req.Platform)
		params.Platform = &p
	}
	if req.Amount != nil {
		a := decimal.NewFromFloat(*req.Amount)
		params.Amount = &a
	}
	if req.Category != nil {
		cat := entry.Category(*req.Category)
		params.Category = &cat
	}

	e, err := h.entryService.UpdateEntry(c.Request.Context(), id, params)
	if err != nil {
		if errors.Is(err, entry.ErrEntryNotFound{}) {
			RespondNotFound(c, "Entry not found")
			return
		}
		if isEntryValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update entry", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEntryToResponse(e))
}

// Delete removes a single entry
func (h *EntryHandler) Delete(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), id); err != nil {
		if errors.Is(err, entry.ErrEntryNotFound{}) {
			RespondNotFound(c, "Entry not found")
			return
		}
		h.logger.Error("Failed to delete entry", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// DeleteAll removes every entry in the ledger
func (h *EntryHandler) DeleteAll(c *gin.Context) {
	if err := h.entryService.DeleteAllEntries(c.Request.Context()); err != nil {
		h.logger.Error("Failed to delete all entries", "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

func (h *EntryHandler) entryID(c *gin.Context) (int64, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Error("Invalid entry ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid entry ID")
		return 0, false
	}
	return id, true
}

func isEntryValidationError(err error) bool {
	return errors.Is(err, entry.ErrInvalidKind) ||
		errors.Is(err, entry.ErrInvalidPlatform) ||
		errors.Is(err, entry.ErrInvalidCategory) ||
		errors.Is(err, entry.ErrNegativeDistance) ||
		errors.Is(err, entry.ErrNegativeDuration)
}

// parseDateParam accepts RFC3339 timestamps and bare dates. A bare to-date
// extends to the end of its day so the bound is inclusive.
func parseDateParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	if endOfDay {
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return t, nil
}

// mapEntryToResponse maps an entry to its response DTO, rounding the amount
// at the presentation boundary
func mapEntryToResponse(e *entry.Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		Timestamp:       e.Timestamp.Format(time.RFC3339),
		Kind:            string(e.Kind),
		Platform:        string(e.Platform),
		ExternalOrderID: e.ExternalOrderID,
		Amount:          e.Amount.Round(2).InexactFloat64(),
		DistanceMiles:   e.DistanceMiles,
		DurationMinutes: e.DurationMinutes,
		Category:        string(e.Category),
		Note:            e.Note,
		ReceiptRef:      e.ReceiptRef,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}
