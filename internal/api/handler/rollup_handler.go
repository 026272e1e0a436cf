package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dashledger/internal/api/service"
	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/rollup"
)

// RollupHandler handles HTTP requests for aggregate summaries
type RollupHandler struct {
	rollupService service.RollupService
	logger        *slog.Logger
}

// NewRollupHandler creates a new rollup handler
func NewRollupHandler(logger *slog.Logger, rollupService service.RollupService) *RollupHandler {
	return &RollupHandler{
		rollupService: rollupService,
		logger:        logger,
	}
}

// Get computes the rollup for the requested window. A timeframe keyword wins
// over explicit from/to bounds and keys the goal lookup.
func (h *RollupHandler) Get(c *gin.Context) {
	var params RollupParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var q service.RollupQuery

	if params.Timeframe != "" {
		tf, err := shared.ParseTimeframe(params.Timeframe)
		if err != nil {
			RespondBadRequest(c, "Unknown timeframe: "+params.Timeframe)
			return
		}
		q.Timeframe = &tf
	}

	if params.FromDate != "" {
		from, err := parseDateParam(params.FromDate, false)
		if err != nil {
			RespondBadRequest(c, "Invalid from_date: "+params.FromDate)
			return
		}
		q.From = &from
	}
	if params.ToDate != "" {
		to, err := parseDateParam(params.ToDate, true)
		if err != nil {
			RespondBadRequest(c, "Invalid to_date: "+params.ToDate)
			return
		}
		q.To = &to
	}

	res, err := h.rollupService.Summarize(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidTimeframe{}) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to compute rollup", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRollupToResponse(res))
}

// mapRollupToResponse maps a rollup result to its response DTO, rounding every
// monetary value to two decimal places at the presentation boundary
func mapRollupToResponse(res *rollup.Result) RollupResponse {
	resp := RollupResponse{
		Revenue:            res.Revenue.Round(2).InexactFloat64(),
		Expenses:           res.Expenses.Round(2).InexactFloat64(),
		Profit:             res.Profit.Round(2).InexactFloat64(),
		Miles:              res.Miles,
		Hours:              res.Hours,
		DollarsPerMile:     res.DollarsPerMile.Round(2).InexactFloat64(),
		DollarsPerHour:     res.DollarsPerHour.Round(2).InexactFloat64(),
		OrderCount:         res.OrderCount,
		AverageOrderValue:  res.AverageOrderValue.Round(2).InexactFloat64(),
		PerHourFirstToLast: res.PerHourFirstToLast.Round(2).InexactFloat64(),
		ByKind:             make(map[string]float64, len(res.ByKind)),
		ByPlatform:         make(map[string]float64, len(res.ByPlatform)),
	}

	for k, v := range res.ByKind {
		resp.ByKind[string(k)] = v.Round(2).InexactFloat64()
	}
	for p, v := range res.ByPlatform {
		resp.ByPlatform[string(p)] = v.Round(2).InexactFloat64()
	}

	if res.Goal != nil {
		target := res.Goal.TargetProfit.Round(2).InexactFloat64()
		resp.GoalTarget = &target
	}
	if res.GoalProgress != nil {
		progress := *res.GoalProgress
		resp.GoalProgress = &progress
	}

	return resp
}
