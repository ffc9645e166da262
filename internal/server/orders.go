package server

import (
	"net/http"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) OpenTab(c *gin.Context) {
	var req orderdomain.OpenTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	detail, err := s.orderSvc.OpenTab(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (s *Server) GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) ListOrders(c *gin.Context) {
	req, err := listRequestFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summaries, err := s.orderSvc.List(c.Request.Context(), *req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": summaries, "total": len(summaries)})
}

func listRequestFromQuery(c *gin.Context) (*orderdomain.ListRequest, error) {
	req := orderdomain.ListRequest{
		Code:    c.Query("codigo"),
		Table:   c.Query("mesa"),
		SortBy:  c.Query("ordenar_por"),
		OrderBy: c.Query("ordem"),
	}

	if raw := c.Query("status"); raw != "" {
		status, err := orderdomain.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		req.Status = &status
	}
	if raw := c.Query("tipo_entrega"); raw != "" {
		delivery, err := orderdomain.ParseDeliveryType(raw)
		if err != nil {
			return nil, err
		}
		req.DeliveryType = &delivery
	}

	var err error
	if req.DateFrom, err = parseOptionalTime(c.Query("data_inicio"), false); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseOptionalTime(c.Query("data_fim"), true); err != nil {
		return nil, err
	}
	if req.TotalMin, err = parseOptionalDecimal(c.Query("total_min")); err != nil {
		return nil, err
	}
	if req.TotalMax, err = parseOptionalDecimal(c.Query("total_max")); err != nil {
		return nil, err
	}
	if req.Offset, err = parseIntDefault(c.Query("offset"), 0); err != nil {
		return nil, err
	}
	if req.Limit, err = parseIntDefault(c.Query("limite"), 0); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) Panel(c *gin.Context) {
	activeOnly, err := parseBoolDefault(c.Query("apenas_ativas"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.orderSvc.Panel(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comandas": rows})
}

func (s *Server) History(c *gin.Context) {
	req := orderdomain.HistoryRequest{}

	var err error
	if req.DateFrom, err = parseOptionalTime(c.Query("data_inicio"), false); err != nil {
		AbortWithError(c, err)
		return
	}
	if req.DateTo, err = parseOptionalTime(c.Query("data_fim"), true); err != nil {
		AbortWithError(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, perr := orderdomain.ParseStatus(raw)
		if perr != nil {
			AbortWithError(c, perr)
			return
		}
		req.Status = &status
	}
	if req.OnlyFinalized, err = parseBoolDefault(c.Query("apenas_finalizadas"), true); err != nil {
		AbortWithError(c, err)
		return
	}
	if req.Limit, err = parseIntDefault(c.Query("limite"), 0); err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.orderSvc.History(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"historico": rows})
}

func (s *Server) Suggestions(c *gin.Context) {
	limit, err := parseIntDefault(c.Query("limite"), 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.orderSvc.Suggestions(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sugestoes": rows})
}

func (s *Server) ChangeOrderStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req orderdomain.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	detail, err := s.orderSvc.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) ResetAllOrders(c *gin.Context) {
	result, err := s.orderSvc.ResetAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ResetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.orderSvc.ResetOne(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.orderSvc.Delete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
