package service

import (
	"context"
	"strings"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	"github.com/balcaopos/comanda/internal/cache"
	"github.com/balcaopos/comanda/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	Repo  additiondomain.Repository
	Cache *cache.Store
}

type Service struct {
	log   *zap.Logger
	db    *gorm.DB
	repo  additiondomain.Repository
	cache *cache.Store
}

func NewService(p serviceParams) additiondomain.Service {
	return &Service{
		log:   p.Log.Named("addition.service"),
		db:    p.DB,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req additiondomain.CreateRequest) (*additiondomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, additiondomain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return nil, additiondomain.ErrInvalidPrice
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var record *additiondomain.Addition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return additiondomain.ErrNameExists
		}

		record = &additiondomain.Addition{
			Name:   name,
			Price:  money.Round(req.Price),
			Active: active,
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("addition created", zap.Int64("addition_id", record.ID), zap.String("name", record.Name))

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req additiondomain.UpdateRequest) (*additiondomain.Response, error) {
	var record *additiondomain.Addition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return additiondomain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return additiondomain.ErrInvalidName
			}
			if !strings.EqualFold(name, existing.Name) {
				clash, err := s.repo.FindByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if clash != nil && clash.ID != existing.ID {
					return additiondomain.ErrNameExists
				}
			}
			existing.Name = name
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				return additiondomain.ErrInvalidPrice
			}
			existing.Price = money.Round(*req.Price)
		}
		if req.Active != nil {
			existing.Active = *req.Active
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

func (s *Service) Get(ctx context.Context, id int64) (*additiondomain.Response, error) {
	record, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, additiondomain.ErrNotFound
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, filter additiondomain.ListFilter) ([]additiondomain.Response, error) {
	records, err := s.repo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]additiondomain.Response, 0, len(records))
	for i := range records {
		resp = append(resp, toResponse(&records[i]))
	}
	return resp, nil
}

// Delete removes an addition that no item or product still references.
// Referenced additions must be deactivated instead so order history stays
// readable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return additiondomain.ErrNotFound
		}

		refs, err := s.repo.ReferenceCount(ctx, tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return additiondomain.ErrInUse
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate()
	s.log.Info("addition deleted", zap.Int64("addition_id", id))
	return nil
}

func toResponse(a *additiondomain.Addition) additiondomain.Response {
	return additiondomain.Response{
		ID:        a.ID,
		Name:      a.Name,
		Price:     a.Price,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
