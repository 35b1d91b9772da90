package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Sihamkassim/Gursha-diaries-Backend/internal/errors"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/service"
)

// ItemHandler serves the recipe catalogue.
type ItemHandler struct {
	svc service.ItemService
}

// NewItemHandler creates an item handler.
func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// ItemResponse is returned by item mutations.
type ItemResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Item    *model.Item `json:"item"`
}

// ListItems godoc
// @Summary List all items, newest first
// @Tags items
// @Produce json
// @Success 200 {array} model.Item
// @Failure 500 {object} errors.ErrorResponse
// @Router /all-items [get]
func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.svc.ListItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// SearchItems godoc
// @Summary Search items by name
// @Tags items
// @Produce json
// @Param q query string true "Case-insensitive name fragment"
// @Success 200 {array} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items [get]
func (h *ItemHandler) SearchItems(c echo.Context) error {
	items, err := h.svc.SearchItems(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an item
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.svc.GetItem(c.Request().Context(), model.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create an item owned by the caller
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body model.CreateItemRequest true "Item payload"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /itemss [post]
func (h *ItemHandler) CreateItem(c echo.Context) error {
	claims, found := ClaimsFrom(c)
	if !found {
		return apperrors.New(apperrors.KindUnauthorized, "Unauthorized: Invalid or expired token")
	}

	var req model.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.svc.CreateItem(c.Request().Context(), model.ID(claims.UserID), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ItemResponse{Success: true, Message: "Item created successfully", Item: item})
}

// UpdateItem godoc
// @Summary Update fields of an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param item body model.ItemUpdate true "Fields to change"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /itemss/{id} [put]
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	var update model.ItemUpdate
	if err := c.Bind(&update); err != nil {
		return errBadBody
	}
	if err := c.Validate(&update); err != nil {
		return err
	}

	item, err := h.svc.UpdateItem(c.Request().Context(), model.ID(c.Param("id")), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ItemResponse{Success: true, Message: "Item updated successfully", Item: item})
}

// DeleteItem godoc
// @Summary Delete an item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /itemss/{id} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	item, err := h.svc.DeleteItem(c.Request().Context(), model.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ItemResponse{Success: true, Message: "Item deleted successfully", Item: item})
}

// AddComment godoc
// @Summary Comment on an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment body model.CommentRequest true "Comment"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /comments [post]
func (h *ItemHandler) AddComment(c echo.Context) error {
	var req model.CommentRequest
	if err := c.Bind(&req); err != nil {
		return errBadBody
	}

	item, err := h.svc.AddComment(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ItemResponse{Success: true, Message: "Comment added successfully", Item: item})
}

// ItemsByCategory godoc
// @Summary List items in a category
// @Tags categories
// @Produce json
// @Param category path string true "Case-insensitive category fragment"
// @Success 200 {array} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /category/{category} [get]
func (h *ItemHandler) ItemsByCategory(c echo.Context) error {
	items, err := h.svc.ItemsByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
