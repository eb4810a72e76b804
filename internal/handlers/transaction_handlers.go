package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/database"
	"github.com/valeriaulyamaeva/finflow/internal/metrics"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

const msgInvalidDate = "Data inválida. Use o formato ISO 8601."

type createTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Type        models.EntryType `json:"type" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description *string          `json:"description"`
	AccountID   string           `json:"accountId" binding:"required"`
	CategoryID  string           `json:"categoryId" binding:"required"`
}

type updateTransactionRequest struct {
	Amount      *decimal.Decimal  `json:"amount"`
	Date        *string           `json:"date"`
	Type        *models.EntryType `json:"type"`
	Title       *string           `json:"title"`
	Description nullableString    `json:"description"`
	AccountID   *string           `json:"accountId"`
	CategoryID  *string           `json:"categoryId"`
}

type transactionResponse struct {
	ID          string           `json:"id"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        isoTime          `json:"date"`
	Type        models.EntryType `json:"type"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	AccountID   string           `json:"accountId"`
	CategoryID  string           `json:"categoryId"`
	UserID      string           `json:"userId"`
	CreatedAt   isoTime          `json:"createdAt"`
	UpdatedAt   isoTime          `json:"updatedAt"`
}

func newTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Date:        isoTime(t.Date),
		Type:        t.Type,
		Title:       t.Title,
		Description: t.Description,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		UserID:      t.UserID,
		CreatedAt:   isoTime(t.CreatedAt),
		UpdatedAt:   isoTime(t.UpdatedAt),
	}
}

func CreateTransactionHandler(transactions *service.Transactions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTransactionRequest
		if !bindJSON(c, &req) {
			return
		}
		date, _, err := parseDate(req.Date)
		if err != nil {
			badRequest(c, msgInvalidDate)
			return
		}

		transaction, err := transactions.Create(c.Request.Context(), middleware.UserID(c), service.TransactionInput{
			Amount:      *req.Amount,
			Date:        date,
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			AccountID:   req.AccountID,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.Transaction("create", string(transaction.Type))
		c.JSON(http.StatusCreated, newTransactionResponse(transaction))
	}
}

// ListTransactionsHandler reads the startDate, endDate, categoryId and type
// filters from the query string. A plain endDate covers that whole day.
func ListTransactionsHandler(transactions *service.Transactions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter database.TransactionFilter

		if v := c.Query("startDate"); v != "" {
			start, _, err := parseDate(v)
			if err != nil {
				badRequest(c, msgInvalidDate)
				return
			}
			filter.StartDate = &start
		}
		if v := c.Query("endDate"); v != "" {
			end, dateOnly, err := parseDate(v)
			if err != nil {
				badRequest(c, msgInvalidDate)
				return
			}
			if dateOnly {
				end = end.Add(24*time.Hour - time.Nanosecond)
			}
			filter.EndDate = &end
		}
		filter.CategoryID = c.Query("categoryId")
		filter.Type = models.EntryType(c.Query("type"))

		list, err := transactions.List(c.Request.Context(), middleware.UserID(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mapAll(list, newTransactionResponse))
	}
}

func UpdateTransactionHandler(transactions *service.Transactions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTransactionRequest
		if !bindJSON(c, &req) {
			return
		}
		patch := service.TransactionPatch{
			Amount:     req.Amount,
			Type:       req.Type,
			Title:      req.Title,
			AccountID:  req.AccountID,
			CategoryID: req.CategoryID,
		}
		if req.Description.Set {
			patch.Description = req.Description.Value
			patch.ClearDescription = req.Description.Value == nil
		}
		if req.Date != nil {
			date, _, err := parseDate(*req.Date)
			if err != nil {
				badRequest(c, msgInvalidDate)
				return
			}
			patch.Date = &date
		}

		transaction, err := transactions.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.Transaction("update", string(transaction.Type))
		c.JSON(http.StatusOK, newTransactionResponse(transaction))
	}
}

func DeleteTransactionHandler(transactions *service.Transactions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := transactions.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		metrics.Transaction("delete", "")
		c.Status(http.StatusNoContent)
	}
}
