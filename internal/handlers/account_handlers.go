package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

type createAccountRequest struct {
	Name    string           `json:"name" binding:"required"`
	Type    string           `json:"type" binding:"required"`
	Balance *decimal.Decimal `json:"balance"`
}

type updateAccountRequest struct {
	Name    *string          `json:"name"`
	Type    *string          `json:"type"`
	Balance *decimal.Decimal `json:"balance"`
}

type accountResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	UserID    string          `json:"userId"`
	CreatedAt isoTime         `json:"createdAt"`
	UpdatedAt isoTime         `json:"updatedAt"`
}

func newAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		UserID:    a.UserID,
		CreatedAt: isoTime(a.CreatedAt),
		UpdatedAt: isoTime(a.UpdatedAt),
	}
}

func CreateAccountHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAccountRequest
		if !bindJSON(c, &req) {
			return
		}
		account, err := accounts.Create(c.Request.Context(), middleware.UserID(c), service.AccountInput{
			Name:    req.Name,
			Type:    req.Type,
			Balance: req.Balance,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newAccountResponse(account))
	}
}

func ListAccountsHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := accounts.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mapAll(list, newAccountResponse))
	}
}

func UpdateAccountHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateAccountRequest
		if !bindJSON(c, &req) {
			return
		}
		account, err := accounts.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.AccountPatch{
			Name:    req.Name,
			Type:    req.Type,
			Balance: req.Balance,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newAccountResponse(account))
	}
}

func DeleteAccountHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func DeleteAllAccountsHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.DeleteAll(c.Request.Context(), middleware.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
