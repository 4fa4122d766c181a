package performance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/EmpoweredVote/EV-Performance/internal/performance"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/mocks"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
)

func i64(v int64) *int64 { return &v }

func rec(district, year, month string, persondays, households *int64) provider.CanonicalRecord {
	return provider.CanonicalRecord{
		StateName:           "MAHARASHTRA",
		DistrictName:        district,
		FinYear:             year,
		Month:               month,
		PersondaysGenerated: persondays,
		HouseholdsWorked:    households,
	}
}

// Latest first, as the store returns them.
func maharashtra() []provider.CanonicalRecord {
	return []provider.CanonicalRecord{
		rec("PUNE", "2024-2025", "Dec", i64(300), i64(30)),
		rec("NAGPUR", "2024-2025", "Dec", i64(100), i64(10)),
		rec("THANE", "2024-2025", "Dec", nil, i64(20)),
		rec("NASHIK", "2024-2025", "Nov", i64(900), i64(90)),
		rec("PUNE", "2023-2024", "Mar", i64(50), nil),
	}
}

func TestStateAverageForLatestPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), "Maharashtra", 0).Return(nil, nil)
	store.EXPECT().FindByStateFold(gomock.Any(), "Maharashtra", 0).Return(maharashtra(), nil)

	out, err := performance.NewComparator(store).StateAverage(context.Background(), "Maharashtra", "pune", "", "")

	require.NoError(t, err)
	assert.Equal(t, "MAHARASHTRA", out.State)
	assert.Equal(t, "Maharashtra", out.RequestedState)
	assert.Equal(t, "2024-2025", out.Year)
	assert.Equal(t, "Dec", out.Month)
	assert.Equal(t, int64(200), out.StateAveragePersondays, "THANE has no persondays")
	assert.Equal(t, int64(20), out.StateAverageHouseholds)
	require.NotNil(t, out.DistrictPersondays)
	assert.Equal(t, int64(300), *out.DistrictPersondays)
	assert.InDelta(t, 50.0, out.PersondaysDifferencePercent, 1e-9)
	assert.True(t, out.AboveStateAverage)
	assert.False(t, out.DistrictDataMissing)
}

func TestStateAverageFallsBackToAllRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), "MAHARASHTRA", 0).Return(maharashtra(), nil)

	out, err := performance.NewComparator(store).StateAverage(context.Background(), "MAHARASHTRA", "", "2022-2023", "Apr")

	require.NoError(t, err)
	assert.Equal(t, "2022-2023", out.Year)
	assert.Equal(t, int64(338), out.StateAveragePersondays, "(300+100+900+50)/4")
	assert.Empty(t, out.District)
}

func TestStateAverageMissingDistrict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), gomock.Any(), 0).Return(maharashtra(), nil)

	out, err := performance.NewComparator(store).StateAverage(context.Background(), "MAHARASHTRA", "THANE", "", "")

	require.NoError(t, err)
	assert.Nil(t, out.DistrictPersondays)
	assert.True(t, out.DistrictDataMissing)
	assert.Equal(t, []string{"NAGPUR", "NASHIK", "PUNE", "THANE"}, out.AvailableDistricts)
}

func TestStateAverageUnknownState(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), "Atlantis", 0).Return(nil, nil)
	store.EXPECT().FindByStateFold(gomock.Any(), "Atlantis", 0).Return(nil, nil)
	store.EXPECT().FindStates(gomock.Any()).Return([]string{"BIHAR", "MAHARASHTRA"}, nil)

	_, err := performance.NewComparator(store).StateAverage(context.Background(), "Atlantis", "", "", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, performance.ErrNoData))
	var nsd *performance.NoStateDataError
	require.True(t, errors.As(err, &nsd))
	assert.Equal(t, []string{"BIHAR", "MAHARASHTRA"}, nsd.AvailableStates)
}

func TestCompareDistricts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), "MAHARASHTRA", 0).Return(maharashtra(), nil)

	out, err := performance.NewComparator(store).CompareDistricts(context.Background(), "MAHARASHTRA", "Nagpur", "Nashik", "", "")

	require.NoError(t, err)
	assert.Equal(t, "Dec", out.Month)
	assert.Equal(t, "Dec", out.District1.Month)
	assert.Equal(t, "Nov", out.District2.Month, "Nashik has no December row so its latest is used")
	require.NotNil(t, out.DifferencePersondays)
	assert.Equal(t, int64(-800), *out.DifferencePersondays)
	assert.Equal(t, "Nashik", out.BetterDistrict)
}

func TestCompareDistrictsMissingSide(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockComparativeStore(ctrl)
	store.EXPECT().FindByState(gomock.Any(), "MAHARASHTRA", 0).Return(maharashtra(), nil)

	out, err := performance.NewComparator(store).CompareDistricts(context.Background(), "MAHARASHTRA", "Pune", "Kolhapur", "", "")

	require.NoError(t, err)
	assert.False(t, out.District1.Missing)
	assert.True(t, out.District2.Missing)
	assert.Nil(t, out.DifferencePersondays)
	assert.Empty(t, out.BetterDistrict)
}
