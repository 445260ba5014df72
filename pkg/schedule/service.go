package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
)

//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter

// Store persists the single schedule row.
type Store interface {
	GetSchedule(ctx context.Context) (*Schedule, error)
	SaveSchedule(ctx context.Context, s *Schedule) error
}

// Service reads and updates the schedule.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a schedule service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Get returns the current schedule.
func (s *Service) Get(ctx context.Context) (*Schedule, error) {
	sched, err := s.store.GetSchedule(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "sale schedule not set")
		}
		return nil, apperrors.GeneralError(err)
	}
	return sched, nil
}

// Set replaces the schedule. by is the administrator making the change.
func (s *Service) Set(ctx context.Context, startsAt, endsAt time.Time, by common.Address) (*Schedule, error) {
	sched := &Schedule{
		StartsAt:  startsAt.UTC(),
		EndsAt:    endsAt.UTC(),
		UpdatedBy: by,
		UpdatedAt: s.now().UTC(),
	}
	if err := sched.Validate(); err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	if err := s.store.SaveSchedule(ctx, sched); err != nil {
		return nil, apperrors.GeneralError(err)
	}

	s.logger.Info("Sale schedule updated",
		zap.Time("starts_at", sched.StartsAt),
		zap.Time("ends_at", sched.EndsAt),
		zap.String("updated_by", by.Hex()))
	return sched, nil
}
