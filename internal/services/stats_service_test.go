package services

import (
	"context"
	"testing"
	"time"

	"basetrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func ptr(s string) *string { return &s }

func statsFixture() []*models.InventoryItem {
	return []*models.InventoryItem{
		{ID: "1", Base: "Base 2", Quantity: 3, EquipmentStatus: "OK"},
		{ID: "2", Base: "Base 2", Quantity: 1, EquipmentStatus: "ROSAK - menunggu alat ganti", PersonInCharge: ptr("Ali")},
		{ID: "3", Base: "Base 10", Quantity: 2, EquipmentStatus: "SKRAP"},
		{ID: "4", Base: "Base 10", Quantity: 1, EquipmentStatus: "HILANG"},
		{ID: "5", Base: "", Quantity: 5, EquipmentStatus: "ok"},
		{ID: "6", Base: "Base 2", Quantity: 2, EquipmentStatus: "Calibration due", PersonInCharge: ptr("-")},
	}
}

func TestAggregateSumsQuantities(t *testing.T) {
	svc := NewStatsService(nil, nil)

	stats := svc.Aggregate(statsFixture())

	assert.Equal(t, 14, stats.TotalItems)
	assert.Equal(t, 3, stats.OKCount) // lowercase "ok" is not an exact match
	assert.Equal(t, 1, stats.RosakCount)
	assert.Equal(t, 2, stats.SkrapCount)
	assert.Equal(t, 1, stats.LostCount)
	assert.Equal(t, 1, stats.InUseCount) // "-" custodian does not count
}

func TestAggregateClampsNegativeQuantity(t *testing.T) {
	svc := NewStatsService(nil, nil)

	stats := svc.Aggregate([]*models.InventoryItem{
		{ID: "1", Quantity: -4, EquipmentStatus: "OK"},
		{ID: "2", Quantity: 2, EquipmentStatus: "OK"},
	})

	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 2, stats.OKCount)
}

func TestClassifyStatusOrdering(t *testing.T) {
	// A status mentioning both SKRAP and ROSAK buckets as SKRAP; the
	// classifier checks SKRAP first.
	assert.Equal(t, models.StatusClassSkrap, models.ClassifyStatus("ROSAK, disahkan SKRAP"))
	assert.Equal(t, models.StatusClassRosak, models.ClassifyStatus("  rosak  "))
	assert.Equal(t, models.StatusClassLost, models.ClassifyStatus("Reported LOST at site"))
	assert.Equal(t, models.StatusClassOK, models.ClassifyStatus("OK"))
	assert.Equal(t, models.StatusClassOther, models.ClassifyStatus("OK - pending check"))
	assert.Equal(t, models.StatusClassOther, models.ClassifyStatus(""))
}

func TestPerBaseGroupsAndTotals(t *testing.T) {
	svc := NewStatsService(nil, nil)

	stats := svc.PerBase(statsFixture())

	assert.Len(t, stats, 4) // Base 2, Base 10, Unassigned, grand total
	assert.Equal(t, "Base 2", stats[0].BaseName)
	assert.Equal(t, "Base 10", stats[1].BaseName)
	assert.Equal(t, "Unassigned", stats[2].BaseName)

	total := stats[len(stats)-1]
	assert.Equal(t, "All Bases", total.BaseName)
	assert.Equal(t, 14, total.TotalItems)
	assert.Equal(t, 1, total.InUseCount)
}

func TestNaturalLessOrdersNumericRuns(t *testing.T) {
	assert.True(t, naturalLess("Base 2", "Base 10"))
	assert.False(t, naturalLess("Base 10", "Base 2"))
	assert.True(t, naturalLess("Base 2", "Base 2A"))
	assert.True(t, naturalLess("Base 02", "Base 3"))
	assert.False(t, naturalLess("Base 2", "Base 2"))
	assert.True(t, naturalLess("Alpha", "Base 1"))
}

func TestPerBaseCachedServesSnapshotOnHit(t *testing.T) {
	mockCache := &MockCacheService{}
	cached := []models.BaseStats{{BaseName: "Base 2", TotalItems: 7}}
	mockCache.On("GetBaseStats", mock.Anything).Return(cached, nil)
	svc := NewStatsService(nil, mockCache)

	stats, err := svc.PerBaseCached(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, stats)
	mockCache.AssertExpectations(t)
}

func TestPerBaseCachedRecomputesOnMiss(t *testing.T) {
	mockCache := &MockCacheService{}
	mockItems := &MockItemRepository{}
	mockCache.On("GetBaseStats", mock.Anything).Return(nil, nil)
	mockItems.On("ListAll", mock.Anything).Return(statsFixture(), nil)
	mockCache.On("SetBaseStats", mock.Anything, mock.Anything, 5*time.Minute).Return(nil)
	svc := NewStatsService(mockItems, mockCache)

	stats, err := svc.PerBaseCached(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "All Bases", stats[len(stats)-1].BaseName)
	mockCache.AssertExpectations(t)
	mockItems.AssertExpectations(t)
}

func TestRefreshRewritesSnapshot(t *testing.T) {
	mockCache := &MockCacheService{}
	mockItems := &MockItemRepository{}
	mockItems.On("ListAll", mock.Anything).Return(statsFixture(), nil)
	mockCache.On("SetBaseStats", mock.Anything, mock.Anything, 5*time.Minute).Return(nil)
	svc := NewStatsService(mockItems, mockCache)

	assert.NoError(t, svc.Refresh(context.Background()))
	mockCache.AssertExpectations(t)
	mockItems.AssertExpectations(t)
}
