package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/query"
	"inventory/internal/schema"
	"inventory/internal/uuid"
)

// Create validates input against every editable field of name and inserts
// one record.
func (s *resourceService) Create(ctx context.Context, actor, name string, input map[string]any) (*Record, error) {
	res, err := s.resource(name, schema.OpCreate)
	if err != nil {
		return nil, err
	}
	batch := uuid.New()

	p, err := s.prepare(ctx, s.db, res, input, false, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	identifier := inputIdentity(res, input)
	if p.failed() {
		s.record(ctx, actor, "create", res, identifier, models.ChangeStatusFailed, batch, map[string]any{
			"input":  auditInput(input),
			"errors": p.details,
		})
		return nil, apperrors.Validation(p.details...)
	}

	var id int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if id, err = s.insert(tx, res, p.values); err != nil {
			return err
		}
		return s.recomputeCounters(tx, res, p.values)
	})
	if err != nil {
		logger.Get().Errorw("create failed", "resource", res.Name, "identifier", identifier, "error", err)
		s.record(ctx, actor, "create", res, identifier, models.ChangeStatusFailed, batch, map[string]any{
			"input": auditInput(input),
			"error": err.Error(),
		})
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	rec, err := s.fetchOne(ctx, s.db, res, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "create", res, rec.Identity(res), models.ChangeStatusSuccess, batch, rec.detail(res))
	return rec, nil
}

// Update applies the fields present in input to record id. Nothing is
// written, and nothing is recorded, when no field actually changes.
func (s *resourceService) Update(ctx context.Context, actor, name string, id int64, input map[string]any) (*UpdateResult, error) {
	res, err := s.resource(name, schema.OpEdit)
	if err != nil {
		return nil, err
	}
	current, err := s.fetchOne(ctx, s.db, res, id)
	if err != nil {
		return nil, err
	}
	batch := uuid.New()
	identifier := current.Identity(res)

	p, err := s.prepare(ctx, s.db, res, input, true, []int64{id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if p.failed() {
		changes := make([]FieldChange, 0, len(p.details))
		for _, d := range p.details {
			f, _ := res.Field(d.Field)
			changes = append(changes, FieldChange{
				Field:    d.Field,
				OldValue: auditValue(f, current.Values[d.Field]),
				NewValue: input[d.Field],
				Error:    d.Message,
			})
		}
		s.record(ctx, actor, "update", res, identifier, models.ChangeStatusFailed, batch, map[string]any{
			"changes": changes,
		})
		return nil, apperrors.Validation(p.details...)
	}

	changed := map[string]any{}
	var changes []FieldChange
	for _, f := range res.EditableFields() {
		v, ok := p.values[f.Key]
		if !ok || equalValues(f, current.Values[f.Key], v) {
			continue
		}
		changed[f.Key] = v
		changes = append(changes, FieldChange{
			Field:      f.Key,
			OldValue:   auditValue(f, current.Values[f.Key]),
			NewValue:   auditValue(f, v),
			OldDisplay: current.Display[f.Key],
			NewDisplay: p.display[f.Key],
		})
	}
	if len(changed) == 0 {
		return &UpdateResult{Record: current, Changes: []FieldChange{}}, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(res.Table).Where("id = ?", id).Updates(s.columnValues(res, changed, false)).Error; err != nil {
			return err
		}
		return s.recomputeCounters(tx, res, current.Values, changed)
	})
	if err != nil {
		logger.Get().Errorw("update failed", "resource", res.Name, "id", id, "error", err)
		s.record(ctx, actor, "update", res, identifier, models.ChangeStatusFailed, batch, map[string]any{
			"changes": changes,
			"error":   err.Error(),
		})
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	rec, err := s.fetchOne(ctx, s.db, res, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "update", res, rec.Identity(res), models.ChangeStatusSuccess, batch, map[string]any{
		"changes": changes,
	})
	return &UpdateResult{Record: rec, Changes: changes}, nil
}

// Delete removes record id and its dependents.
func (s *resourceService) Delete(ctx context.Context, actor, name string, id int64) (*DeleteResult, error) {
	res, err := s.resource(name, schema.OpDelete)
	if err != nil {
		return nil, err
	}
	if _, err := s.fetchOne(ctx, s.db, res, id); err != nil {
		return nil, err
	}
	return s.deleteRecords(ctx, actor, res, []int64{id}, "delete")
}

// deleteRecords removes the existing rows among ids together with their
// dependents. Each dependent and each parent is recorded before the write
// transaction opens; a failed write adds failed entries afterwards.
func (s *resourceService) deleteRecords(ctx context.Context, actor string, res *schema.Resource, ids []int64, verb string) (*DeleteResult, error) {
	ids = uniqueIDs(ids)
	result := &DeleteResult{Requested: len(ids)}

	targets, err := s.fetch(ctx, s.db, res, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	result.Missing = len(ids) - len(targets)
	if len(targets) == 0 {
		return result, nil
	}
	found := recordIDs(targets)
	parents := make(map[int64]string, len(targets))
	for _, t := range targets {
		parents[t.ID] = t.Identity(res)
	}

	type dependentRows struct {
		res     *schema.Resource
		fk      string
		records []*Record
	}
	var dependents []dependentRows
	for _, d := range res.Dependents {
		child, err := s.registry.Get(d.Resource)
		if err != nil {
			return nil, err
		}
		rows, err := query.Fetch(ctx, s.db, child, query.Column(child, d.ForeignKey)+" IN ?", found)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		dependents = append(dependents, dependentRows{res: child, fk: d.ForeignKey, records: rowsToRecords(child, rows)})
	}

	batch := uuid.New()
	for _, dep := range dependents {
		for _, rec := range dep.records {
			detail := rec.detail(dep.res)
			if pid, ok := asInt64(rec.Values[dep.fk]); ok {
				detail["parent"] = parents[pid]
			}
			s.record(ctx, actor, verb, dep.res, rec.Identity(dep.res), models.ChangeStatusSuccess, batch, detail)
			result.Dependents++
		}
	}
	for _, t := range targets {
		s.record(ctx, actor, verb, res, t.Identity(res), models.ChangeStatusSuccess, batch, t.detail(res))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range dependents {
			stmt := "DELETE FROM " + dep.res.Table + " WHERE " + dep.fk + " IN ?"
			if err := tx.Exec(stmt, found).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM "+res.Table+" WHERE id IN ?", found).Error; err != nil {
			return err
		}
		values := make([]map[string]any, len(targets))
		for i, t := range targets {
			values[i] = t.Values
		}
		return s.recomputeCounters(tx, res, values...)
	})
	if err != nil {
		logger.Get().Errorw("delete failed", "resource", res.Name, "ids", found, "error", err)
		for _, t := range targets {
			s.record(ctx, actor, verb, res, t.Identity(res), models.ChangeStatusFailed, batch, map[string]any{
				"error": err.Error(),
			})
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	result.Deleted = len(targets)
	logger.Get().Infow("records deleted",
		"resource", res.Name,
		"deleted", result.Deleted,
		"dependents", result.Dependents,
		"missing", result.Missing,
	)
	return result, nil
}

// inputIdentity names a record that was never written, from its raw input.
func inputIdentity(res *schema.Resource, input map[string]any) string {
	if res.IdentityField == "" {
		return ""
	}
	return inputString(input[res.IdentityField])
}

// auditInput copies raw request input so it can be logged as given.
func auditInput(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out
}
