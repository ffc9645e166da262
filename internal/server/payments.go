package server

import (
	"net/http"

	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreatePayment(c *gin.Context) {
	var req paymentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) StartTerminalPayment(c *gin.Context) {
	var req paymentdomain.TerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.StartTerminal(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) ConfirmTerminalPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payment, err := s.paymentSvc.ConfirmTerminal(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (s *Server) PaymentCallback(c *gin.Context) {
	var req paymentdomain.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Callback(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (s *Server) ListPayments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, summary, err := s.paymentSvc.ListByOrder(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pagamentos": payments, "resumo": summary})
}
