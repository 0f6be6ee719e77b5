package services

import (
	"fmt"
	"sync"
	"time"

	"contract-claims-api/config"
	"contract-claims-api/models"
)

var (
	statusCacheMu sync.RWMutex
	statusCache   *statusCacheEntry
	statusTTL     = 5 * time.Minute
)

type statusCacheEntry struct {
	statuses  []models.ClaimStatus
	byID      map[int]models.ClaimStatus
	fetchedAt time.Time
}

// The claim_statuses table is a fixed 5-row reference set, so it is cached
// in-process instead of being re-read on every scoring or dashboard request.
func loadStatuses(force bool) (*statusCacheEntry, error) {
	statusCacheMu.RLock()
	cached := statusCache
	statusCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < statusTTL {
		return cached, nil
	}

	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()

	if statusCache != nil && !force && time.Since(statusCache.fetchedAt) < statusTTL {
		return statusCache, nil
	}

	var rows []models.ClaimStatus
	if err := config.DB.Order("status_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load claim statuses: %w", err)
	}

	byID := make(map[int]models.ClaimStatus, len(rows))
	for _, status := range rows {
		byID[status.StatusID] = status
	}

	entry := &statusCacheEntry{
		statuses:  rows,
		byID:      byID,
		fetchedAt: time.Now(),
	}
	statusCache = entry
	return entry, nil
}

// ClearStatusCache invalidates the in-memory status cache.
func ClearStatusCache() {
	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()
	statusCache = nil
}

// GetStatuses returns all claim statuses with caching support.
func GetStatuses() ([]models.ClaimStatus, error) {
	entry, err := loadStatuses(false)
	if err != nil {
		return nil, err
	}
	return entry.statuses, nil
}

// GetStatusByID resolves one status row from the cache.
func GetStatusByID(statusID int) (models.ClaimStatus, error) {
	entry, err := loadStatuses(false)
	if err != nil {
		return models.ClaimStatus{}, err
	}
	status, ok := entry.byID[statusID]
	if !ok {
		return models.ClaimStatus{}, fmt.Errorf("unknown claim status %d", statusID)
	}
	return status, nil
}

// StatusName returns the display name for a status ID, or a placeholder when
// the ID is unknown.
func StatusName(statusID int) string {
	status, err := GetStatusByID(statusID)
	if err != nil {
		return fmt.Sprintf("Status %d", statusID)
	}
	return status.StatusName
}
