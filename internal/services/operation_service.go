package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/validator"
)

// operationService appends VM power operations reported by the control
// plane. The log is read through the operation_logs resource.
type operationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOperationService creates a new OperationServicer.
func NewOperationService(db *gorm.DB) OperationServicer {
	return &operationService{db: db, now: time.Now}
}

// Record appends one operation.
func (s *operationService) Record(ctx context.Context, in OperationInput) (*models.OperationLog, error) {
	sortKey, ok := validator.IPv4Number(in.VMIP)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "vm_ip must be an IPv4 address")
	}
	switch in.Action {
	case models.OperationStart, models.OperationShutdown, models.OperationReboot:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "action must be start, shutdown or reboot")
	}
	if in.Status == "" {
		in.Status = models.ChangeStatusSuccess
	}
	if in.Username == "" {
		in.Username = SystemActor
	}

	op := &models.OperationLog{
		Time:     s.now(),
		Username: in.Username,
		VMIP:     in.VMIP,
		VMIPSort: sortKey,
		Action:   in.Action,
		Status:   in.Status,
		Details:  in.Details,
	}
	if err := s.db.WithContext(ctx).Create(op).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("operation recorded",
		"username", op.Username,
		"vm_ip", op.VMIP,
		"action", op.Action,
		"status", op.Status,
	)
	return op, nil
}

// Recent returns the newest operations, optionally only those by username.
func (s *operationService) Recent(ctx context.Context, username string, limit int) ([]models.OperationLog, error) {
	if limit <= 0 {
		limit = 10
	}
	q := s.db.WithContext(ctx).Order("time DESC, id DESC").Limit(limit)
	if username != "" {
		q = q.Where("username = ?", username)
	}
	var ops []models.OperationLog
	if err := q.Find(&ops).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ops, nil
}
