package server

import (
	"context"
	"net/http"
	"time"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/balcaopos/comanda/internal/config"
	"github.com/balcaopos/comanda/internal/observability"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/internal/providers/pdf"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinRequestLogger(log))
	r.Use(observability.GinTracing(cfg.AppName))
	r.Use(observability.GinMetrics(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	orderSvc    orderdomain.Service
	codeSvc     codedomain.Service
	productSvc  productdomain.Service
	additionSvc additiondomain.Service
	paymentSvc  paymentdomain.Service
	pdf         pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	OrderSvc    orderdomain.Service
	CodeSvc     codedomain.Service
	ProductSvc  productdomain.Service
	AdditionSvc additiondomain.Service
	PaymentSvc  paymentdomain.Service
	PDF         pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		orderSvc:    p.OrderSvc,
		codeSvc:     p.CodeSvc,
		productSvc:  p.ProductSvc,
		additionSvc: p.AdditionSvc,
		paymentSvc:  p.PaymentSvc,
		pdf:         p.PDF,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Comandas --------
	api.POST("/comandas", s.OpenTab)
	api.GET("/comandas", s.ListOrders)
	api.GET("/comandas/painel", s.Panel)
	api.GET("/comandas/historico", s.History)
	api.GET("/comandas/sugestoes", s.Suggestions)
	api.POST("/comandas/reset", s.ResetAllOrders)
	api.GET("/comandas/:id", s.GetOrder)
	api.DELETE("/comandas/:id", s.DeleteOrder)
	api.PATCH("/comandas/:id/status", s.ChangeOrderStatus)
	api.POST("/comandas/:id/reset", s.ResetOrder)
	api.GET("/comandas/:id/cupom", s.Ticket)
	api.GET("/comandas/:id/cupom.pdf", s.TicketPDF)

	// -------- Itens --------
	api.POST("/comandas/:id/itens", s.AddItem)
	api.PATCH("/comandas/:id/itens/:itemId", s.UpdateItem)
	api.DELETE("/comandas/:id/itens/:itemId", s.DeleteItem)
	api.POST("/comandas/:id/itens/:itemId/mover", s.MoveItem)

	// -------- Pagamentos --------
	api.GET("/comandas/:id/pagamentos", s.ListPayments)
	api.POST("/pagamentos", s.CreatePayment)
	api.POST("/pagamentos/maquininha", s.StartTerminalPayment)
	api.POST("/pagamentos/:id/confirmar", s.ConfirmTerminalPayment)
	api.POST("/pagamentos/callback", s.PaymentCallback)

	// -------- Códigos --------
	api.GET("/codigos", s.ListCodes)
	api.POST("/codigos", s.CreateCode)
	api.GET("/codigos/:id", s.GetCode)
	api.PATCH("/codigos/:id/ativo", s.SetCodeActive)
	api.POST("/codigos/:id/liberar", s.ReleaseCode)
	api.DELETE("/codigos/:id", s.DeleteCode)

	// -------- Produtos --------
	api.GET("/produtos", s.ListProducts)
	api.POST("/produtos", s.CreateProduct)
	api.GET("/produtos/:id", s.GetProduct)
	api.PATCH("/produtos/:id", s.UpdateProduct)
	api.POST("/produtos/:id/estoque", s.AdjustProductStock)
	api.POST("/produtos/:id/desativar", s.DeactivateProduct)
	api.DELETE("/produtos/:id", s.HardDeleteProduct)

	// -------- Adicionais --------
	api.GET("/adicionais", s.ListAdditions)
	api.POST("/adicionais", s.CreateAddition)
	api.GET("/adicionais/:id", s.GetAddition)
	api.PATCH("/adicionais/:id", s.UpdateAddition)
	api.DELETE("/adicionais/:id", s.DeleteAddition)
}
