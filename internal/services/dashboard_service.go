package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
)

const dashboardRecent = 10

// dashboardService aggregates the landing page overview.
type dashboardService struct {
	db         *gorm.DB
	operations OperationServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, operations OperationServicer) DashboardServicer {
	return &dashboardService{db: db, operations: operations}
}

// Summary counts hosts and VMs by status and lists recent operations.
func (s *dashboardService) Summary(ctx context.Context, username string) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: time.Now()}
	var err error

	if summary.HostsByStatus, summary.Hosts, err = s.byStatus(ctx, &models.Host{}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if summary.VMsByStatus, summary.VMs, err = s.byStatus(ctx, &models.VM{}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if summary.RecentOperations, err = s.operations.Recent(ctx, "", dashboardRecent); err != nil {
		return nil, err
	}
	summary.MyOperations = []models.OperationLog{}
	if username != "" {
		if summary.MyOperations, err = s.operations.Recent(ctx, username, dashboardRecent); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *dashboardService) byStatus(ctx context.Context, model any) ([]StatusCount, int64, error) {
	var counts []StatusCount
	err := s.db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	if counts == nil {
		counts = []StatusCount{}
	}
	return counts, total, nil
}
