package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/api/service"
	"github.com/dashledger/internal/domain/goal"
	"github.com/dashledger/internal/domain/shared"
)

// GoalHandler handles HTTP requests for profit goal operations
type GoalHandler struct {
	goalService service.GoalService
	logger      *slog.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(logger *slog.Logger, goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// Upsert creates or replaces the goal for a timeframe
func (h *GoalHandler) Upsert(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tf, err := shared.ParseTimeframe(req.Timeframe)
	if err != nil {
		RespondBadRequest(c, "Unknown timeframe: "+req.Timeframe)
		return
	}

	g, err := h.goalService.UpsertGoal(c.Request.Context(), tf, decimal.NewFromFloat(req.TargetProfit))
	if err != nil {
		if errors.Is(err, goal.ErrNegativeTarget) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to upsert goal", "timeframe", tf, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapGoalToResponse(g))
}

// Get retrieves the goal for the timeframe path parameter
func (h *GoalHandler) Get(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}

	g, err := h.goalService.GetGoal(c.Request.Context(), tf)
	if err != nil {
		if errors.Is(err, goal.ErrGoalNotFound{}) {
			RespondNotFound(c, "No goal for timeframe "+string(tf))
			return
		}
		h.logger.Error("Failed to get goal", "timeframe", tf, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapGoalToResponse(g))
}

// UpdateTarget changes the target of an existing goal
func (h *GoalHandler) UpdateTarget(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	g, err := h.goalService.UpdateGoalTarget(c.Request.Context(), tf, decimal.NewFromFloat(req.TargetProfit))
	if err != nil {
		if errors.Is(err, goal.ErrGoalNotFound{}) {
			RespondNotFound(c, "No goal for timeframe "+string(tf))
			return
		}
		if errors.Is(err, goal.ErrNegativeTarget) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update goal", "timeframe", tf, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapGoalToResponse(g))
}

// Delete removes the goal for the timeframe path parameter
func (h *GoalHandler) Delete(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), tf); err != nil {
		if errors.Is(err, goal.ErrGoalNotFound{}) {
			RespondNotFound(c, "No goal for timeframe "+string(tf))
			return
		}
		h.logger.Error("Failed to delete goal", "timeframe", tf, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

func (h *GoalHandler) timeframe(c *gin.Context) (shared.Timeframe, bool) {
	raw := c.Param("timeframe")
	tf, err := shared.ParseTimeframe(raw)
	if err != nil {
		RespondBadRequest(c, "Unknown timeframe: "+raw)
		return "", false
	}
	return tf, true
}

// mapGoalToResponse maps a goal to its response DTO
func mapGoalToResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{
		ID:           g.ID,
		Timeframe:    string(g.Timeframe),
		TargetProfit: g.TargetProfit.Round(2).InexactFloat64(),
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    g.UpdatedAt.Format(time.RFC3339),
	}
}
