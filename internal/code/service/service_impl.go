package service

import (
	"context"

	"github.com/balcaopos/comanda/internal/cache"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	Repo  codedomain.Repository
	Cache *cache.Store
}

type Service struct {
	log   *zap.Logger
	db    *gorm.DB
	repo  codedomain.Repository
	cache *cache.Store
}

func NewService(p serviceParams) codedomain.Service {
	return &Service{
		log:   p.Log.Named("code.service"),
		db:    p.DB,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req codedomain.CreateRequest) (*codedomain.Response, error) {
	code := codedomain.NormalizeCode(req.Code)
	if code == "" {
		return nil, codedomain.ErrInvalidCode
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var record *codedomain.CodeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return codedomain.ErrCodeExists
		}

		record = &codedomain.CodeRecord{
			Code:         code,
			Active:       active,
			InUse:        false,
			VisualStatus: codedomain.VisualLiberado,
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("tab code created", zap.String("code", record.Code))

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*codedomain.Response, error) {
	record, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, codedomain.ErrNotFound
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, filter codedomain.ListFilter) ([]codedomain.Response, error) {
	records, err := s.repo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]codedomain.Response, 0, len(records))
	for i := range records {
		resp = append(resp, toResponse(&records[i]))
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*codedomain.Response, error) {
	var record *codedomain.CodeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return codedomain.ErrNotFound
		}
		if !active && existing.InUse {
			return codedomain.ErrCodeInUse
		}

		existing.Active = active
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

// ForceRelease clears a closed order's leftover visual from a code. Codes
// still bound to a live order cannot be released here; freeing an
// ENTREGUE/CANCELADO visual needs the operator's confirmation.
func (s *Service) ForceRelease(ctx context.Context, id int64, confirm bool) (*codedomain.Response, error) {
	var record *codedomain.CodeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return codedomain.ErrNotFound
		}
		if existing.InUse {
			return codedomain.ErrCodeInUse
		}

		terminal := existing.VisualStatus == codedomain.VisualEntregue ||
			existing.VisualStatus == codedomain.VisualCancelado
		if terminal && !confirm {
			return codedomain.ErrConfirmRequired
		}

		existing.VisualStatus = codedomain.VisualLiberado
		record = existing
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.log.Info("tab code force released", zap.String("code", record.Code))

	resp := toResponse(record)
	return &resp, nil
}

// Delete removes a code that is not bound to any live order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return codedomain.ErrNotFound
		}
		if existing.InUse {
			return codedomain.ErrCodeInUse
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

func toResponse(record *codedomain.CodeRecord) codedomain.Response {
	return codedomain.Response{
		ID:           record.ID,
		Code:         record.Code,
		Active:       record.Active,
		InUse:        record.InUse,
		VisualStatus: record.VisualStatus,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
