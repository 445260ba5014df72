package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
	"github.com/chainsafe/presale-dashboard/pkg/schedule/mocks"
)

var admin = common.HexToAddress("0x00000000000000000000000000000000000000ad")

func TestService_Set(t *testing.T) {
	store := mocks.NewStore(t)
	svc := schedule.NewService(store, zap.NewNop())

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	store.EXPECT().
		SaveSchedule(mock.Anything, mock.MatchedBy(func(s *schedule.Schedule) bool {
			return s.StartsAt.Equal(start) && s.EndsAt.Equal(end) && s.UpdatedBy == admin
		})).
		Return(nil)

	got, err := svc.Set(context.Background(), start, end, admin)
	require.NoError(t, err)
	require.Equal(t, admin, got.UpdatedBy)
	require.False(t, got.UpdatedAt.IsZero())
}

func TestService_SetRejectsInvertedWindow(t *testing.T) {
	store := mocks.NewStore(t)
	svc := schedule.NewService(store, zap.NewNop())

	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Set(context.Background(), start, start, admin)
	require.ErrorIs(t, err, schedule.ErrInvalidWindow)
	require.True(t, apperrors.Is(err, apperrors.CategoryDataError))

	_, err = svc.Set(context.Background(), start, start.Add(-time.Hour), admin)
	require.ErrorIs(t, err, schedule.ErrInvalidWindow)
}

func TestService_Get(t *testing.T) {
	t.Run("not set", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.EXPECT().GetSchedule(mock.Anything).Return(nil, schedule.ErrNotFound)

		_, err := schedule.NewService(store, zap.NewNop()).Get(context.Background())
		require.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.EXPECT().GetSchedule(mock.Anything).Return(nil, errors.New("db down"))

		_, err := schedule.NewService(store, zap.NewNop()).Get(context.Background())
		require.True(t, apperrors.Is(err, apperrors.CategoryGeneralError))
	})
}

func TestPhaseAt(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	s := &schedule.Schedule{StartsAt: start, EndsAt: start.Add(time.Hour)}

	require.Equal(t, schedule.PhaseUpcoming, s.PhaseAt(start.Add(-time.Second)))
	require.Equal(t, schedule.PhaseOpen, s.PhaseAt(start))
	require.Equal(t, schedule.PhaseEnded, s.PhaseAt(start.Add(time.Hour)))
}
