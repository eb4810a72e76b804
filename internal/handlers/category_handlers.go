package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

type createCategoryRequest struct {
	Name string           `json:"name" binding:"required"`
	Type models.EntryType `json:"type" binding:"required"`
}

type updateCategoryRequest struct {
	Name *string           `json:"name"`
	Type *models.EntryType `json:"type"`
}

type categoryResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      models.EntryType `json:"type"`
	UserID    string           `json:"userId"`
	CreatedAt isoTime          `json:"createdAt"`
	UpdatedAt isoTime          `json:"updatedAt"`
}

func newCategoryResponse(cat *models.Category) categoryResponse {
	return categoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Type:      cat.Type,
		UserID:    cat.UserID,
		CreatedAt: isoTime(cat.CreatedAt),
		UpdatedAt: isoTime(cat.UpdatedAt),
	}
}

func CreateCategoryHandler(categories *service.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := categories.Create(c.Request.Context(), middleware.UserID(c), service.CategoryInput{
			Name: req.Name,
			Type: req.Type,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newCategoryResponse(category))
	}
}

func ListCategoriesHandler(categories *service.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mapAll(list, newCategoryResponse))
	}
}

func UpdateCategoryHandler(categories *service.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := categories.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.CategoryPatch{
			Name: req.Name,
			Type: req.Type,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCategoryResponse(category))
	}
}

func DeleteCategoryHandler(categories *service.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := categories.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func DeleteAllCategoriesHandler(categories *service.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := categories.DeleteAll(c.Request.Context(), middleware.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
