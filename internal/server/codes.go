package server

import (
	"net/http"

	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCodes(c *gin.Context) {
	filter := codedomain.ListFilter{}

	var err error
	if filter.Active, err = parseOptionalBool(c.Query("ativo")); err != nil {
		AbortWithError(c, err)
		return
	}
	if filter.InUse, err = parseOptionalBool(c.Query("em_uso")); err != nil {
		AbortWithError(c, err)
		return
	}

	codes, err := s.codeSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codigos": codes})
}

func (s *Server) CreateCode(c *gin.Context) {
	var req codedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	code, err := s.codeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, code)
}

func (s *Server) GetCode(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	code, err := s.codeSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

type setActiveRequest struct {
	Active *bool `json:"ativo" binding:"required"`
}

func (s *Server) SetCodeActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	code, err := s.codeSvc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

type releaseCodeRequest struct {
	Confirm bool `json:"confirmar"`
}

func (s *Server) ReleaseCode(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Body is optional: releasing an idle code needs no confirmation.
	var req releaseCodeRequest
	_ = c.ShouldBindJSON(&req)

	code, err := s.codeSvc.ForceRelease(c.Request.Context(), id, req.Confirm)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

func (s *Server) DeleteCode(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.codeSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
