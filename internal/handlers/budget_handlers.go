package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

type createBudgetRequest struct {
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	Month      int              `json:"month" binding:"required"`
	Year       int              `json:"year" binding:"required"`
	CategoryID string           `json:"categoryId" binding:"required"`
}

type updateBudgetRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	Month      *int             `json:"month"`
	Year       *int             `json:"year"`
	CategoryID *string          `json:"categoryId"`
}

type budgetResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	CategoryID string          `json:"categoryId"`
	UserID     string          `json:"userId"`
	CreatedAt  isoTime         `json:"createdAt"`
	UpdatedAt  isoTime         `json:"updatedAt"`
}

func newBudgetResponse(b *models.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		Amount:     b.Amount,
		Month:      b.Month,
		Year:       b.Year,
		CategoryID: b.CategoryID,
		UserID:     b.UserID,
		CreatedAt:  isoTime(b.CreatedAt),
		UpdatedAt:  isoTime(b.UpdatedAt),
	}
}

func CreateBudgetHandler(budgets *service.Budgets) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBudgetRequest
		if !bindJSON(c, &req) {
			return
		}
		budget, err := budgets.Create(c.Request.Context(), middleware.UserID(c), service.BudgetInput{
			Amount:     *req.Amount,
			Month:      req.Month,
			Year:       req.Year,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newBudgetResponse(budget))
	}
}

func ListBudgetsHandler(budgets *service.Budgets) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := budgets.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mapAll(list, newBudgetResponse))
	}
}

func UpdateBudgetHandler(budgets *service.Budgets) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateBudgetRequest
		if !bindJSON(c, &req) {
			return
		}
		budget, err := budgets.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.BudgetPatch{
			Amount:     req.Amount,
			Month:      req.Month,
			Year:       req.Year,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newBudgetResponse(budget))
	}
}

func DeleteBudgetHandler(budgets *service.Budgets) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := budgets.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
