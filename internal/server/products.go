package server

import (
	"net/http"

	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListProducts(c *gin.Context) {
	filter := productdomain.ListFilter{
		Category: c.Query("categoria"),
		Name:     c.Query("nome"),
	}

	var err error
	if filter.Active, err = parseOptionalBool(c.Query("ativo")); err != nil {
		AbortWithError(c, err)
		return
	}
	if filter.StockControlled, err = parseOptionalBool(c.Query("controla_estoque")); err != nil {
		AbortWithError(c, err)
		return
	}
	if filter.Offset, err = parseIntDefault(c.Query("offset"), 0); err != nil {
		AbortWithError(c, err)
		return
	}
	if filter.Limit, err = parseIntDefault(c.Query("limite"), 0); err != nil {
		AbortWithError(c, err)
		return
	}

	list, err := s.productSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) GetProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req productdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.productSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type adjustStockRequest struct {
	Delta int `json:"ajuste" binding:"required"`
}

func (s *Server) AdjustProductStock(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.productSvc.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) DeactivateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.productSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) HardDeleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.productSvc.HardDelete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
