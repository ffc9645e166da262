package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) Ticket(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	kitchen, err := parseBoolDefault(c.Query("cozinha"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	alteration, err := parseBoolDefault(c.Query("alteracao"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ticket, err := s.orderSvc.Ticket(c.Request.Context(), id, kitchen, alteration)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (s *Server) TicketPDF(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	kitchen, err := parseBoolDefault(c.Query("cozinha"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	alteration, err := parseBoolDefault(c.Query("alteracao"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ticket, err := s.orderSvc.Ticket(c.Request.Context(), id, kitchen, alteration)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.GenerateTicket(c.Request.Context(), ticket)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="cupom.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
