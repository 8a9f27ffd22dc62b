package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/geo"
	"github.com/MikeRez0/ypfulfillment/internal/core/port/mock"
	"github.com/MikeRez0/ypfulfillment/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSelector_Select(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	dest := &domain.Coordinates{Lat: 48, Lng: 2}
	branches := []domain.Branch{
		{ID: "far", Coordinates: &domain.Coordinates{Lat: 49, Lng: 2}},
		{ID: "nowhere"},
		{ID: "near", Coordinates: &domain.Coordinates{Lat: 48.01, Lng: 2}},
		{ID: "mid", Coordinates: &domain.Coordinates{Lat: 48.1, Lng: 2}},
	}
	lines := []domain.LineRequest{{ProductID: "A", Quantity: 2}}

	satisfied := func(id string) domain.AvailabilityResult {
		return domain.AvailabilityResult{BranchID: id, Satisfied: true,
			PerItem: []domain.ItemAvailability{{ProductID: "A", Requested: 2, Available: 2}}}
	}
	short := func(id string) domain.AvailabilityResult {
		return domain.AvailabilityResult{BranchID: id,
			PerItem: []domain.ItemAvailability{{ProductID: "A", Requested: 2, Available: 0}}}
	}

	type selectTest struct {
		name      string
		dest      *domain.Coordinates
		mock      func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway)
		expBranch string
		expTrail  []string
		expError  error
	}

	tests := []selectTest{
		{
			name: "nearest satisfied wins and farther ones are skipped",
			dest: dest,
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(branches, nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "near", lines).Return(short("near"), nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "mid", lines).Return(satisfied("mid"), nil)
			},
			expBranch: "mid",
			expTrail:  []string{"near", "mid"},
		},
		{
			name: "collaborator error is recorded and scan continues",
			dest: dest,
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(branches, nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "near", lines).
					Return(domain.AvailabilityResult{}, domain.ErrCollaboratorUnavailable)
				stock.EXPECT().CheckAvailability(gomock.Any(), "mid", lines).Return(short("mid"), nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "far", lines).Return(short("far"), nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "nowhere", lines).Return(satisfied("nowhere"), nil)
			},
			expBranch: "nowhere",
			expTrail:  []string{"near", "mid", "far", "nowhere"},
		},
		{
			name: "unknown destination keeps directory order",
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(branches, nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "far", lines).Return(short("far"), nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "nowhere", lines).Return(satisfied("nowhere"), nil)
			},
			expBranch: "nowhere",
			expTrail:  []string{"far", "nowhere"},
		},
		{
			name: "nothing satisfies",
			dest: dest,
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(branches[:1], nil)
				stock.EXPECT().CheckAvailability(gomock.Any(), "far", lines).Return(short("far"), nil)
			},
			expError: domain.ErrNoBranchAvailable,
			expTrail: []string{"far"},
		},
		{
			name: "empty directory",
			dest: dest,
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(nil, nil)
			},
			expError: domain.ErrNoBranchAvailable,
			expTrail: []string{},
		},
		{
			name: "directory unavailable",
			dest: dest,
			mock: func(geography *mock.MockGeographyClient, stock *mock.MockStockGateway) {
				geography.EXPECT().ListActiveBranches(gomock.Any()).Return(nil, errors.New("refused"))
			},
			expError: domain.ErrCollaboratorUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			geography := mock.NewMockGeographyClient(mockCtrl)
			stock := mock.NewMockStockGateway(mockCtrl)
			test.mock(geography, stock)

			// one at a time so skipped candidates are deterministic
			s := service.NewSelector(geography, stock, geo.NewEstimator(nil), 1, zap.NewNop())
			sel, err := s.Select(context.Background(), test.dest, lines)

			if test.expError != nil {
				require.ErrorIs(t, err, test.expError)
				var noBranch *domain.NoBranchAvailableError
				if errors.As(err, &noBranch) {
					assert.Equal(t, test.expTrail, trailIDs(noBranch.Trail))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expBranch, sel.Candidate.Branch.ID)
			assert.Equal(t, test.expTrail, trailIDs(sel.Trail))
		})
	}
}

func TestSelector_ParallelMatchesSequential(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	branches := make([]domain.Branch, 0, 8)
	for i := 0; i < 8; i++ {
		branches = append(branches, domain.Branch{
			ID:          string(rune('a' + i)),
			Coordinates: &domain.Coordinates{Lat: 48 + float64(i)/10, Lng: 2},
		})
	}
	lines := []domain.LineRequest{{ProductID: "A", Quantity: 1}}

	geography := mock.NewMockGeographyClient(mockCtrl)
	geography.EXPECT().ListActiveBranches(gomock.Any()).Return(branches, nil)
	stock := mock.NewMockStockGateway(mockCtrl)
	stock.EXPECT().CheckAvailability(gomock.Any(), gomock.Any(), lines).
		DoAndReturn(func(_ context.Context, id string, _ []domain.LineRequest) (domain.AvailabilityResult, error) {
			// every branch from "c" on can serve
			return domain.AvailabilityResult{BranchID: id, Satisfied: id >= "c"}, nil
		}).AnyTimes()

	s := service.NewSelector(geography, stock, nil, 8, zap.NewNop())
	sel, err := s.Select(context.Background(), &domain.Coordinates{Lat: 48, Lng: 2}, lines)
	require.NoError(t, err)
	assert.Equal(t, "c", sel.Candidate.Branch.ID)
	assert.Equal(t, []string{"a", "b", "c"}, trailIDs(sel.Trail))
}

func trailIDs(trail []domain.TrailEntry) []string {
	ids := make([]string, 0, len(trail))
	for _, e := range trail {
		ids = append(ids, e.BranchID)
	}
	return ids
}
