package server

import (
	"net/http"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) AddItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req orderdomain.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	detail, err := s.orderSvc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (s *Server) UpdateItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req orderdomain.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	detail, err := s.orderSvc.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) DeleteItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	req := orderdomain.DeleteItemRequest{}
	if req.Force, err = parseBoolDefault(c.Query("forcar"), false); err != nil {
		AbortWithError(c, err)
		return
	}
	if req.Restock, err = parseOptionalBool(c.Query("repor_estoque")); err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.orderSvc.DeleteItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type moveItemRequest struct {
	DestOrderID int64 `json:"comanda_destino_id" binding:"required"`
}

func (s *Server) MoveItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req moveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	detail, err := s.orderSvc.MoveItem(c.Request.Context(), id, itemID, req.DestOrderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
