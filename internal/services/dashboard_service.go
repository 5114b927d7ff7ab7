package services

import (
	"gorm.io/gorm"

	apperrors "protrack/internal/errors"
	"protrack/internal/models"
)

// recentListSize is how many recent rows each dashboard list carries.
const recentListSize = 5

// dashboardService computes the per-user dashboard rollup on demand.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetDashboard assembles the user's dashboard from live queries. No counters
// are cached; every call reflects current data.
func (s *dashboardService) GetDashboard(userID uint) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.ActiveClients, s.db.Model(&models.Client{}).Where("user_id = ? AND is_active = ?", userID, true)},
		{&stats.TotalProjects, s.db.Model(&models.Project{}).Where("user_id = ?", userID)},
		{&stats.ActiveProjects, s.db.Model(&models.Project{}).Where("user_id = ? AND status = ?", userID, models.ProjectStatusActive)},
		{&stats.TotalInvoices, s.db.Model(&models.Invoice{}).Where("user_id = ?", userID)},
		{&stats.UnpaidInvoices, s.db.Model(&models.Invoice{}).Where("user_id = ? AND is_paid = ?", userID, false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	unbilled, err := s.unbilledHours(userID)
	if err != nil {
		return nil, err
	}
	stats.UnbilledHours = unbilled

	if err := s.revenue(userID, true, &stats.TotalRevenueCents); err != nil {
		return nil, err
	}
	if err := s.revenue(userID, false, &stats.PendingRevenueCents); err != nil {
		return nil, err
	}

	if stats.RecentClients, err = s.recentClients(userID); err != nil {
		return nil, err
	}
	if err := s.db.Preload("Client").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentListSize).
		Find(&stats.RecentProjects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Preload("Project").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(recentListSize).
		Find(&stats.RecentTimeEntries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stats, nil
}

// unbilledHours sums the duration of all unbilled time entries. Durations
// are computed in Go rather than SQL so the arithmetic stays identical
// across database engines.
func (s *dashboardService) unbilledHours(userID uint) (float64, error) {
	var entries []models.TimeEntry
	if err := s.db.Select("start_time", "end_time").
		Where("user_id = ? AND is_billed = ?", userID, false).
		Find(&entries).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var seconds int64
	for i := range entries {
		seconds += entries[i].DurationSeconds()
	}
	return float64(seconds) / 3600, nil
}

func (s *dashboardService) revenue(userID uint, paid bool, dest *int64) error {
	var total struct {
		Total int64
	}
	if err := s.db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount_cents), 0) AS total").
		Where("user_id = ? AND is_paid = ?", userID, paid).
		Scan(&total).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	*dest = total.Total
	return nil
}

// recentClients returns the newest clients with their project counts.
func (s *dashboardService) recentClients(userID uint) ([]RecentClient, error) {
	recent := make([]RecentClient, 0, recentListSize)
	if err := s.db.Model(&models.Client{}).
		Select("clients.id, clients.name, clients.contact_email, clients.created_at, COUNT(projects.id) AS project_count").
		Joins("LEFT JOIN projects ON projects.client_id = clients.id").
		Where("clients.user_id = ?", userID).
		Group("clients.id, clients.name, clients.contact_email, clients.created_at").
		Order("clients.created_at DESC").
		Limit(recentListSize).
		Scan(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recent, nil
}
