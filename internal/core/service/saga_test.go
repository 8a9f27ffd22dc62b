package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port/mock"
	"github.com/MikeRez0/ypfulfillment/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaga_Reserve(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	lines := []domain.LineRequest{
		{ProductID: "A", Quantity: 1},
		{ProductID: "B", Quantity: 2},
		{ProductID: "C", Quantity: 3},
	}

	type sagaTest struct {
		name       string
		mock       func(stock *mock.MockStockGateway, journal *mock.MockReconciliationJournal)
		expError   error
		expRecords int
	}

	tests := []sagaTest{
		{
			name: "all lines reserved",
			mock: func(stock *mock.MockStockGateway, journal *mock.MockReconciliationJournal) {
				gomock.InOrder(
					stock.EXPECT().Reserve(gomock.Any(), "b1", "A", int64(1)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "B", int64(2)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "C", int64(3)).Return(nil),
				)
			},
			expRecords: 3,
		},
		{
			name: "failed line compensates in reverse order",
			mock: func(stock *mock.MockStockGateway, journal *mock.MockReconciliationJournal) {
				gomock.InOrder(
					stock.EXPECT().Reserve(gomock.Any(), "b1", "A", int64(1)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "B", int64(2)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "C", int64(3)).Return(domain.ErrInsufficientStock),
					stock.EXPECT().Release(gomock.Any(), "b1", "B", int64(2)).Return(nil),
					stock.EXPECT().Release(gomock.Any(), "b1", "A", int64(1)).Return(nil),
				)
			},
			expError: domain.ErrInsufficientStock,
		},
		{
			name: "failed release is journaled and rollback continues",
			mock: func(stock *mock.MockStockGateway, journal *mock.MockReconciliationJournal) {
				gomock.InOrder(
					stock.EXPECT().Reserve(gomock.Any(), "b1", "A", int64(1)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "B", int64(2)).Return(nil),
					stock.EXPECT().Reserve(gomock.Any(), "b1", "C", int64(3)).Return(domain.ErrCollaboratorUnavailable),
					stock.EXPECT().Release(gomock.Any(), "b1", "B", int64(2)).Return(domain.ErrCollaboratorUnavailable),
					stock.EXPECT().Release(gomock.Any(), "b1", "A", int64(1)).Return(nil),
				)
				journal.EXPECT().Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *domain.JournalEntry) error {
						assert.Equal(t, "saga-1", e.SagaID)
						assert.Equal(t, domain.JournalStatusReleaseFailed, e.Status)
						assert.Equal(t, "B", e.ProductID)
						assert.Equal(t, int64(2), e.Quantity)
						assert.NotEmpty(t, e.Errors)
						return nil
					})
			},
			expError: domain.ErrCollaboratorUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stock := mock.NewMockStockGateway(mockCtrl)
			journal := mock.NewMockReconciliationJournal(mockCtrl)
			test.mock(stock, journal)

			saga := service.NewSaga(stock, journal, zap.NewNop())
			records, err := saga.Reserve(context.Background(), "saga-1", "b1", lines)

			if test.expError != nil {
				assert.ErrorIs(t, err, domain.ErrReservationFailed)
				assert.ErrorIs(t, err, test.expError)
				var failed *domain.ReservationFailedError
				require.ErrorAs(t, err, &failed)
				assert.Equal(t, "C", failed.ProductID)
				assert.Nil(t, records)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, test.expRecords)
		})
	}
}

func TestSaga_CompensatesAfterCancel(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	stock := mock.NewMockStockGateway(mockCtrl)
	stock.EXPECT().Reserve(gomock.Any(), "b1", "A", int64(1)).Return(nil)
	stock.EXPECT().Reserve(gomock.Any(), "b1", "B", int64(1)).
		DoAndReturn(func(context.Context, string, string, int64) error {
			cancel()
			return context.Canceled
		})
	stock.EXPECT().Release(gomock.Any(), "b1", "A", int64(1)).
		DoAndReturn(func(ctx context.Context, _, _ string, _ int64) error {
			return ctx.Err()
		})

	saga := service.NewSaga(stock, nil, zap.NewNop())
	_, err := saga.Reserve(ctx, "saga-1", "b1", []domain.LineRequest{
		{ProductID: "A", Quantity: 1},
		{ProductID: "B", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrReservationFailed)
}

func TestSaga_ReleaseAllCountsFailures(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	stock := mock.NewMockStockGateway(mockCtrl)
	stock.EXPECT().Release(gomock.Any(), "b1", "A", int64(1)).Return(errors.New("timeout"))
	stock.EXPECT().Release(gomock.Any(), "b1", "B", int64(1)).Return(nil)

	saga := service.NewSaga(stock, nil, zap.NewNop())
	failed := saga.ReleaseAll(context.Background(), "o1", []domain.ReservationRecord{
		{BranchID: "b1", ProductID: "A", Quantity: 1},
		{BranchID: "b1", ProductID: "B", Quantity: 1},
	})
	assert.Equal(t, 1, failed)
}
