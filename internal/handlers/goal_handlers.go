package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

type createGoalRequest struct {
	Name     string           `json:"name" binding:"required"`
	Target   *decimal.Decimal `json:"target" binding:"required"`
	Deadline string           `json:"deadline" binding:"required"`
}

type updateGoalRequest struct {
	Name     *string          `json:"name"`
	Target   *decimal.Decimal `json:"target"`
	Deadline *string          `json:"deadline"`
}

type goalResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Deadline  isoTime         `json:"deadline"`
	UserID    string          `json:"userId"`
	CreatedAt isoTime         `json:"createdAt"`
	UpdatedAt isoTime         `json:"updatedAt"`
}

func newGoalResponse(g *models.Goal) goalResponse {
	return goalResponse{
		ID:        g.ID,
		Name:      g.Name,
		Target:    g.Target,
		Deadline:  isoTime(g.Deadline),
		UserID:    g.UserID,
		CreatedAt: isoTime(g.CreatedAt),
		UpdatedAt: isoTime(g.UpdatedAt),
	}
}

func CreateGoalHandler(goals *service.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGoalRequest
		if !bindJSON(c, &req) {
			return
		}
		deadline, _, err := parseDate(req.Deadline)
		if err != nil {
			badRequest(c, msgInvalidDate)
			return
		}
		goal, err := goals.Create(c.Request.Context(), middleware.UserID(c), service.GoalInput{
			Name:     req.Name,
			Target:   *req.Target,
			Deadline: deadline,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newGoalResponse(goal))
	}
}

func ListGoalsHandler(goals *service.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := goals.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mapAll(list, newGoalResponse))
	}
}

func UpdateGoalHandler(goals *service.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateGoalRequest
		if !bindJSON(c, &req) {
			return
		}
		patch := service.GoalPatch{Name: req.Name, Target: req.Target}
		if req.Deadline != nil {
			deadline, _, err := parseDate(*req.Deadline)
			if err != nil {
				badRequest(c, msgInvalidDate)
				return
			}
			patch.Deadline = &deadline
		}
		goal, err := goals.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newGoalResponse(goal))
	}
}

func DeleteGoalHandler(goals *service.Goals) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := goals.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
