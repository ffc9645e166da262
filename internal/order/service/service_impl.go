package service

import (
	"context"
	"strings"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/internal/clock"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"github.com/balcaopos/comanda/internal/maintenance"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/internal/stock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit        = 500
	defaultHistoryLimit     = 100
	defaultSuggestionsLimit = 8
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	DB        *gorm.DB
	Clock     clock.Clock
	Repo      orderdomain.Repository
	Codes     codedomain.Repository
	Products  productdomain.Repository
	Additions additiondomain.Repository
	Payments  paymentdomain.Repository
	Ledger    *stock.Ledger
	Cache     *cache.Store
	Purger    *maintenance.Purger
}

// readCaches holds one partition per cached read operation.
type readCaches struct {
	detail      *cache.Partition[orderdomain.Detail]
	list        *cache.Partition[orderdomain.Summaries]
	panel       *cache.Partition[orderdomain.PanelRows]
	history     *cache.Partition[orderdomain.HistoryRows]
	suggestions *cache.Partition[orderdomain.SuggestionRows]
}

type Service struct {
	log       *zap.Logger
	db        *gorm.DB
	clk       clock.Clock
	repo      orderdomain.Repository
	codes     codedomain.Repository
	products  productdomain.Repository
	additions additiondomain.Repository
	payments  paymentdomain.Repository
	ledger    *stock.Ledger
	cache     *cache.Store
	purger    *maintenance.Purger
	caches    readCaches
}

func NewService(p serviceParams) orderdomain.Service {
	return &Service{
		log:       p.Log.Named("order.service"),
		db:        p.DB,
		clk:       p.Clock,
		repo:      p.Repo,
		codes:     p.Codes,
		products:  p.Products,
		additions: p.Additions,
		payments:  p.Payments,
		ledger:    p.Ledger,
		cache:     p.Cache,
		purger:    p.Purger,
		caches: readCaches{
			detail:      cache.NewPartition[orderdomain.Detail](p.Cache),
			list:        cache.NewPartition[orderdomain.Summaries](p.Cache),
			panel:       cache.NewPartition[orderdomain.PanelRows](p.Cache),
			history:     cache.NewPartition[orderdomain.HistoryRows](p.Cache),
			suggestions: cache.NewPartition[orderdomain.SuggestionRows](p.Cache),
		},
	}
}

// maybePurge gives the weekly purge its opportunistic trigger on read paths.
// A failed purge never fails the read.
func (s *Service) maybePurge(ctx context.Context) {
	if _, err := s.purger.MaybeRun(ctx); err != nil {
		s.log.Warn("opportunistic purge failed", zap.Error(err))
	}
}

func (s *Service) OpenTab(ctx context.Context, req orderdomain.OpenTabRequest) (*orderdomain.Detail, error) {
	code := codedomain.NormalizeCode(req.Code)
	if code == "" {
		return nil, codedomain.ErrInvalidCode
	}

	delivery := orderdomain.DeliveryRetirada
	if strings.TrimSpace(req.DeliveryType) != "" {
		parsed, err := orderdomain.ParseDeliveryType(req.DeliveryType)
		if err != nil {
			return nil, err
		}
		delivery = parsed
	}

	table := normalizeOptional(req.Table)
	if delivery == orderdomain.DeliveryEntrega && table == nil {
		return nil, orderdomain.ErrTableRequired
	}

	var orderID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.codes.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if record == nil {
			return codedomain.ErrNotFound
		}
		if !record.Active {
			return codedomain.ErrCodeInactive
		}
		if record.InUse {
			return codedomain.ErrCodeInUse
		}

		order := &orderdomain.Order{
			CodeRef:      &record.Code,
			TableLabel:   table,
			Status:       orderdomain.StatusAberto,
			DeliveryType: delivery,
			Notes:        normalizeOptional(req.Notes),
		}
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		orderID = order.ID

		return s.codes.MarkInUse(ctx, tx, record.Code, codedomain.VisualAberto)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("tab opened", zap.Int64("order_id", orderID), zap.String("code", code))

	return s.Get(ctx, orderID)
}

func (s *Service) Get(ctx context.Context, orderID int64) (*orderdomain.Detail, error) {
	key := s.cache.Key("get_comanda", orderID)
	if cached, ok := s.caches.detail.Get(key); ok {
		return &cached, nil
	}

	detail, err := s.loadDetail(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}

	s.caches.detail.Set(key, *detail)
	return detail, nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListRequest) (orderdomain.Summaries, error) {
	s.maybePurge(ctx)

	if req.SortBy == "" {
		req.SortBy = "id"
	}
	if req.OrderBy == "" {
		req.OrderBy = "desc"
	}
	if _, ok := orderdomain.ListSortColumns[req.SortBy]; !ok {
		return nil, orderdomain.ErrInvalidSort
	}
	if req.OrderBy != "asc" && req.OrderBy != "desc" {
		return nil, orderdomain.ErrInvalidSort
	}
	if req.TotalMin != nil && req.TotalMax != nil && req.TotalMin.GreaterThan(*req.TotalMax) {
		return nil, orderdomain.ErrInvalidTotalRange
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}

	key := s.cache.Key("list_comandas",
		deref(req.Status), deref(req.DeliveryType),
		strings.TrimSpace(req.Code), strings.TrimSpace(req.Table),
		timeKey(req.DateFrom), timeKey(req.DateTo),
		decimalKey(req.TotalMin), decimalKey(req.TotalMax),
		req.SortBy, req.OrderBy, req.Offset, req.Limit,
	)
	if cached, ok := s.caches.list.Get(key); ok {
		return cached, nil
	}

	orders, err := s.repo.List(ctx, nil, req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
	}
	counts, err := s.repo.ItemCounts(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	summaries := make(orderdomain.Summaries, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		totalItems := counts[order.ID]
		summaries = append(summaries, orderdomain.Summary{
			ID:           order.ID,
			Code:         order.DisplayCode(),
			Table:        order.TableLabel,
			Status:       order.Status,
			DeliveryType: order.DeliveryType,
			Total:        order.Total,
			TotalItems:   totalItems,
			Complexity:   orderdomain.ComplexityLabel(totalItems),
			CreatedAt:    order.CreatedAt,
		})
	}

	s.caches.list.Set(key, summaries)
	return summaries, nil
}

func (s *Service) Panel(ctx context.Context, activeOnly bool) (orderdomain.PanelRows, error) {
	s.maybePurge(ctx)

	key := s.cache.Key("list_painel_comandas", activeOnly)
	if cached, ok := s.caches.panel.Get(key); ok {
		return cached, nil
	}

	filter := codedomain.ListFilter{}
	if activeOnly {
		active := true
		filter.Active = &active
	}
	codes, err := s.codes.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return orderdomain.PanelRows{}, nil
	}

	codeValues := make([]string, 0, len(codes))
	for i := range codes {
		codeValues = append(codeValues, codes[i].Code)
	}
	orders, err := s.repo.ListByCodes(ctx, nil, codeValues)
	if err != nil {
		return nil, err
	}

	activeStatuses := map[orderdomain.Status]struct{}{
		orderdomain.StatusAberto:    {},
		orderdomain.StatusEmPreparo: {},
		orderdomain.StatusPronto:    {},
	}

	// Orders come newest-first, so the first hit per code wins.
	lastByCode := make(map[string]*orderdomain.Order)
	lastActiveByCode := make(map[string]*orderdomain.Order)
	for i := range orders {
		order := &orders[i]
		if order.CodeRef == nil {
			continue
		}
		code := *order.CodeRef
		if _, seen := lastByCode[code]; !seen {
			lastByCode[code] = order
		}
		if _, seen := lastActiveByCode[code]; !seen {
			if _, active := activeStatuses[order.Status]; active {
				lastActiveByCode[code] = order
			}
		}
	}

	rows := make(orderdomain.PanelRows, 0, len(codes))
	for i := range codes {
		record := &codes[i]
		visual := record.VisualStatus

		order := lastByCode[record.Code]
		if _, active := activeStatuses[orderdomain.Status(visual)]; active {
			// The visual promises a live order; make sure the row we show
			// actually matches it.
			if order == nil || order.Status != orderdomain.Status(visual) {
				candidate := lastActiveByCode[record.Code]
				if candidate != nil && candidate.Status == orderdomain.Status(visual) {
					order = candidate
				} else {
					order = nil
				}
			}
		}

		row := orderdomain.PanelRow{
			CodeID: record.ID,
			Code:   record.Code,
			Active: record.Active,
			InUse:  record.InUse,
			Status: string(visual),
		}
		if order != nil {
			row.OrderID = &order.ID
			row.Table = order.TableLabel
			row.DeliveryType = &order.DeliveryType
			row.Total = order.Total
			row.CreatedAt = &order.CreatedAt
		}
		rows = append(rows, row)
	}

	s.caches.panel.Set(key, rows)
	return rows, nil
}

func (s *Service) History(ctx context.Context, req orderdomain.HistoryRequest) (orderdomain.HistoryRows, error) {
	s.maybePurge(ctx)

	if req.Limit <= 0 {
		req.Limit = defaultHistoryLimit
	}

	key := s.cache.Key("list_historico",
		timeKey(req.DateFrom), timeKey(req.DateTo),
		deref(req.Status), req.OnlyFinalized, req.Limit,
	)
	if cached, ok := s.caches.history.Get(key); ok {
		return cached, nil
	}

	orders, err := s.repo.History(ctx, nil, req)
	if err != nil {
		return nil, err
	}

	rows := make(orderdomain.HistoryRows, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		rows = append(rows, orderdomain.HistoryRow{
			OrderID:      order.ID,
			Code:         order.DisplayCode(),
			Status:       order.Status,
			DeliveryType: order.DeliveryType,
			Table:        order.TableLabel,
			Total:        order.Total,
			CreatedAt:    order.CreatedAt,
		})
	}

	s.caches.history.Set(key, rows)
	return rows, nil
}

func (s *Service) Suggestions(ctx context.Context, limit int) (orderdomain.SuggestionRows, error) {
	if limit <= 0 {
		limit = defaultSuggestionsLimit
	}

	key := s.cache.Key("list_sugestoes_mais_pedidos", limit)
	if cached, ok := s.caches.suggestions.Get(key); ok {
		return cached, nil
	}

	rows, err := s.repo.Suggestions(ctx, nil, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = orderdomain.SuggestionRows{}
	}

	s.caches.suggestions.Set(key, rows)
	return rows, nil
}
