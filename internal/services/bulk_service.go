package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/schema"
	"inventory/internal/uuid"
)

// maxBulkValueLen bounds the rendered bulk edit value.
const maxBulkValueLen = 1000

// BulkDelete removes every existing record among ids with its dependents.
// Ids that do not exist are counted as missing.
func (s *resourceService) BulkDelete(ctx context.Context, actor, name string, ids []int64) (*DeleteResult, error) {
	res, err := s.resource(name, schema.OpBulkDelete)
	if err != nil {
		return nil, err
	}
	if len(uniqueIDs(ids)) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no records selected")
	}
	return s.deleteRecords(ctx, actor, res, ids, "bulk_delete")
}

// BulkUpdate sets one field to one value on many records. The value is
// validated once; if it is rejected every existing target gets a failed
// change record and nothing is written. Targets already holding the value
// are skipped.
func (s *resourceService) BulkUpdate(ctx context.Context, actor, name string, req BulkUpdateRequest) (*BulkResult, error) {
	res, err := s.resource(name, schema.OpBulkEdit)
	if err != nil {
		return nil, err
	}
	f, ok := res.Field(req.Field)
	if !ok || !f.Editable {
		return nil, apperrors.WithMessage(apperrors.ErrFieldNotEditable,
			fmt.Sprintf("'%s' cannot be edited on %s", req.Field, res.Title))
	}

	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no records selected")
	}
	result := &BulkResult{Requested: len(ids)}

	targets, err := s.fetch(ctx, s.db, res, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	result.Missing = len(ids) - len(targets)
	found := recordIDs(targets)
	batch := uuid.New()
	raw := inputString(req.Value)
	if len(raw) > maxBulkValueLen {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("value must be at most %d characters", maxBulkValueLen))
	}

	value, display, msg, err := s.checkField(ctx, s.db, res, f, raw, found)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if msg == "" && f.Unique && !isEmpty(value) && len(targets) > 1 {
		msg = fmt.Sprintf("%s must be unique and cannot be set on %d records at once", f.Label, len(targets))
	}
	if msg != "" {
		for _, t := range targets {
			s.record(ctx, actor, "bulk_edit", res, t.Identity(res), models.ChangeStatusFailed, batch, FieldChange{
				Field:    f.Key,
				OldValue: auditValue(f, t.Values[f.Key]),
				NewValue: raw,
				Error:    msg,
			})
		}
		return nil, apperrors.Validation(apperrors.FieldError{Field: f.Key, Message: msg})
	}

	var changed []*Record
	for _, t := range targets {
		if equalValues(f, t.Values[f.Key], value) {
			result.Skipped++
			continue
		}
		changed = append(changed, t)
	}
	if len(changed) == 0 {
		return result, nil
	}

	set := map[string]any{f.Key: value}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(res.Table).Where("id IN ?", recordIDs(changed)).Updates(s.columnValues(res, set, false)).Error; err != nil {
			return err
		}
		values := make([]map[string]any, 0, len(changed)+1)
		for _, t := range changed {
			values = append(values, t.Values)
		}
		return s.recomputeCounters(tx, res, append(values, set)...)
	})
	if err != nil {
		logger.Get().Errorw("bulk update failed", "resource", res.Name, "field", f.Key, "error", err)
		for _, t := range changed {
			s.record(ctx, actor, "bulk_edit", res, t.Identity(res), models.ChangeStatusFailed, batch, FieldChange{
				Field:    f.Key,
				OldValue: auditValue(f, t.Values[f.Key]),
				NewValue: auditValue(f, value),
				Error:    err.Error(),
			})
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	for _, t := range changed {
		s.record(ctx, actor, "bulk_edit", res, t.Identity(res), models.ChangeStatusSuccess, batch, FieldChange{
			Field:      f.Key,
			OldValue:   auditValue(f, t.Values[f.Key]),
			NewValue:   auditValue(f, value),
			OldDisplay: t.Display[f.Key],
			NewDisplay: display,
		})
	}
	result.Changed = len(changed)
	logger.Get().Infow("bulk update applied",
		"resource", res.Name,
		"field", f.Key,
		"changed", result.Changed,
		"skipped", result.Skipped,
		"missing", result.Missing,
	)
	return result, nil
}
