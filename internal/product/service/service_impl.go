package service

import (
	"context"
	"strings"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/balcaopos/comanda/internal/cache"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	DB        *gorm.DB
	Repo      productdomain.Repository
	Additions additiondomain.Repository
	Cache     *cache.Store
}

type Service struct {
	log       *zap.Logger
	db        *gorm.DB
	repo      productdomain.Repository
	additions additiondomain.Repository
	cache     *cache.Store
}

func NewService(p serviceParams) productdomain.Service {
	return &Service{
		log:       p.Log.Named("product.service"),
		db:        p.DB,
		repo:      p.Repo,
		additions: p.Additions,
		cache:     p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, productdomain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return nil, productdomain.ErrInvalidPrice
	}
	if req.StockQuantity < 0 {
		return nil, productdomain.ErrInvalidStock
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var record *productdomain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return productdomain.ErrNameExists
		}

		linked, err := s.resolveAdditions(ctx, tx, req.AdditionIDs)
		if err != nil {
			return err
		}

		record = &productdomain.Product{
			Name:            name,
			Category:        trimPtr(req.Category),
			Description:     trimPtr(req.Description),
			ImageURL:        trimPtr(req.ImageURL),
			Price:           money.Round(req.Price),
			Active:          active,
			StockControlled: req.StockControlled,
			StockQuantity:   req.StockQuantity,
		}
		if err := s.repo.Create(ctx, tx, record); err != nil {
			return err
		}
		if len(linked) > 0 {
			if err := s.repo.ReplaceAdditions(ctx, tx, record, linked); err != nil {
				return err
			}
			record.Additions = linked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("product created", zap.Int64("product_id", record.ID), zap.String("name", record.Name))

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req productdomain.UpdateRequest) (*productdomain.Response, error) {
	var record *productdomain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return productdomain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return productdomain.ErrInvalidName
			}
			if !strings.EqualFold(name, existing.Name) {
				clash, err := s.repo.FindByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if clash != nil && clash.ID != existing.ID {
					return productdomain.ErrNameExists
				}
			}
			existing.Name = name
		}
		if req.Category != nil {
			existing.Category = trimPtr(req.Category)
		}
		if req.Description != nil {
			existing.Description = trimPtr(req.Description)
		}
		if req.ImageURL != nil {
			existing.ImageURL = trimPtr(req.ImageURL)
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				return productdomain.ErrInvalidPrice
			}
			existing.Price = money.Round(*req.Price)
		}
		if req.Active != nil {
			existing.Active = *req.Active
		}
		if req.StockControlled != nil {
			existing.StockControlled = *req.StockControlled
		}
		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				return productdomain.ErrInvalidStock
			}
			existing.StockQuantity = *req.StockQuantity
		}

		if req.AdditionIDs != nil {
			linked, err := s.resolveAdditions(ctx, tx, req.AdditionIDs)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceAdditions(ctx, tx, existing, linked); err != nil {
				return err
			}
			existing.Additions = linked
		}

		record = existing
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*productdomain.Response, error) {
	record, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, productdomain.ErrNotFound
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, filter productdomain.ListFilter) (*productdomain.ListResponse, error) {
	records, total, err := s.repo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	items := make([]productdomain.Response, 0, len(records))
	for i := range records {
		items = append(items, toResponse(&records[i]))
	}
	return &productdomain.ListResponse{Items: items, Total: total}, nil
}

// AdjustStock applies a signed delta to a controlled product's stock. The
// result may never go negative.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*productdomain.Response, error) {
	var record *productdomain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return productdomain.ErrNotFound
		}

		next := existing.StockQuantity + delta
		if next < 0 {
			return productdomain.ErrInvalidStock
		}
		existing.StockQuantity = next

		record = existing
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*productdomain.Response, error) {
	inactive := false
	return s.Update(ctx, id, productdomain.UpdateRequest{Active: &inactive})
}

// HardDelete removes the product and every order item that references it, then
// re-sums the touched orders so their totals stay consistent.
func (s *Service) HardDelete(ctx context.Context, id int64) (*productdomain.HardDeleteResult, error) {
	var touched []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return productdomain.ErrNotFound
		}

		touched, err = s.repo.DetachFromOrders(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.repo.RecalculateOrderTotals(ctx, tx, touched); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("product hard deleted",
		zap.Int64("product_id", id),
		zap.Int("orders_recounted", len(touched)),
	)

	return &productdomain.HardDeleteResult{
		ProductID:       id,
		OrdersRecounted: len(touched),
	}, nil
}

func (s *Service) resolveAdditions(ctx context.Context, tx *gorm.DB, ids []int64) ([]additiondomain.Addition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	linked, err := s.additions.FindByIDs(ctx, tx, unique)
	if err != nil {
		return nil, err
	}
	if len(linked) != len(unique) {
		return nil, productdomain.ErrAdditionNotFound
	}
	return linked, nil
}

func toResponse(p *productdomain.Product) productdomain.Response {
	additions := make([]additiondomain.Response, 0, len(p.Additions))
	for _, a := range p.Additions {
		additions = append(additions, additiondomain.Response{
			ID:        a.ID,
			Name:      a.Name,
			Price:     a.Price,
			Active:    a.Active,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return productdomain.Response{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		Active:          p.Active,
		StockControlled: p.StockControlled,
		StockQuantity:   p.StockQuantity,
		Additions:       additions,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
