package server

import (
	"net/http"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListAdditions(c *gin.Context) {
	filter := additiondomain.ListFilter{
		Name: c.Query("nome"),
	}

	var err error
	if filter.Active, err = parseOptionalBool(c.Query("ativo")); err != nil {
		AbortWithError(c, err)
		return
	}

	additions, err := s.additionSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adicionais": additions})
}

func (s *Server) CreateAddition(c *gin.Context) {
	var req additiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	addition, err := s.additionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addition)
}

func (s *Server) GetAddition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	addition, err := s.additionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, addition)
}

func (s *Server) UpdateAddition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req additiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	addition, err := s.additionSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, addition)
}

func (s *Server) DeleteAddition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.additionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
