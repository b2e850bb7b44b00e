package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"inventory/internal/csvio"
	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/query"
	"inventory/internal/schema"
	"inventory/internal/uuid"
)

// transferService handles CSV import and export.
type transferService struct {
	*engine
	prefs PreferenceServicer
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(db *gorm.DB, registry *schema.Registry, builder *query.Builder, audit AuditServicer, prefs PreferenceServicer) TransferServicer {
	return &transferService{engine: newEngine(db, registry, builder, audit), prefs: prefs}
}

// Import creates one record per data row of a CSV file. Every row is
// validated before anything is written; the first bad row rejects the whole
// file without touching the store or the change log.
func (s *transferService) Import(ctx context.Context, actor, name, filename string, r io.Reader) (*ImportResult, error) {
	res, err := s.resource(name, schema.OpImport)
	if err != nil {
		return nil, err
	}

	header, rows, err := csvio.Read(r)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrImportFailed, "Could not read the file: "+err.Error())
	}

	columns := map[int]schema.Field{}
	present := map[string]bool{}
	for i, h := range header {
		f, ok := res.FieldByLabel(h)
		if !ok || !f.Editable {
			continue
		}
		if present[f.Key] {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed, fmt.Sprintf("Column '%s' appears more than once", h))
		}
		present[f.Key] = true
		columns[i] = f
	}
	var missing []string
	for _, f := range res.EditableFields() {
		if f.Required && !present[f.Key] {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
			"Missing required columns: "+strings.Join(missing, ", "))
	}

	seen := map[string]map[string]int{}
	var pending []map[string]any
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		input := make(map[string]any, len(columns))
		for i, f := range columns {
			input[f.Key] = row.Get(i)
		}

		p, err := s.prepare(ctx, s.db, res, input, false, nil)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if p.failed() {
			return nil, rowError(row.Line, p.details)
		}

		for _, f := range res.Fields {
			v, ok := p.values[f.Key]
			if !f.Unique || !ok || isEmpty(v) {
				continue
			}
			key := formatValue(f, v)
			if seen[f.Key] == nil {
				seen[f.Key] = map[string]int{}
			}
			if first, dup := seen[f.Key][key]; dup {
				return nil, rowError(row.Line, []apperrors.FieldError{{
					Field:   f.Key,
					Message: fmt.Sprintf("%s '%s' duplicates row %d", f.Label, key, first),
				}})
			}
			seen[f.Key][key] = row.Line
		}
		pending = append(pending, p.values)
	}
	if len(pending) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrImportFailed, "The file contains no records")
	}

	batch := uuid.New()
	ids := make([]int64, 0, len(pending))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, values := range pending {
			id, err := s.insert(tx, res, values)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return s.recomputeCounters(tx, res, pending...)
	})
	if err != nil {
		logger.Get().Errorw("import failed", "resource", res.Name, "file", filename, "error", err)
		s.record(ctx, actor, "import", res, filename, models.ChangeStatusFailed, batch, map[string]any{
			"file":  filename,
			"rows":  len(pending),
			"error": err.Error(),
		})
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	records, err := s.fetch(ctx, s.db, res, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, rec := range records {
		s.record(ctx, actor, "import", res, rec.Identity(res), models.ChangeStatusSuccess, batch, rec.detail(res))
	}

	logger.Get().Infow("import completed", "resource", res.Name, "file", filename, "created", len(ids))
	return &ImportResult{Created: len(ids), IDs: ids}, nil
}

func rowError(line int, details []apperrors.FieldError) *apperrors.AppError {
	msgs := make([]string, len(details))
	for i, d := range details {
		msgs[i] = d.Message
	}
	err := apperrors.WithMessage(apperrors.ErrImportFailed, fmt.Sprintf("Row %d: %s", line, strings.Join(msgs, "; ")))
	err.Details = details
	return err
}

// Export writes every record of name matching spec as CSV, in list order.
// The header carries field labels; relations are written by display value.
func (s *transferService) Export(ctx context.Context, actor, name string, spec query.Spec, columns []string, w io.Writer) (int, error) {
	res, err := s.resource(name, "")
	if err != nil {
		return 0, err
	}
	cols := s.prefs.VisibleColumns(ctx, actor, res, columns)

	q, err := s.builder.Build(ctx, res, spec)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rows, err := q.Rows(ctx, s.db, false)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cw := csvio.NewWriter(w)
	labels := make([]string, len(cols))
	for i, c := range cols {
		f, _ := res.Field(c)
		labels[i] = f.Label
	}
	if err := cw.Write(labels); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	line := make([]string, len(cols))
	for _, row := range rows {
		rec := rowToRecord(res, row)
		for i, c := range cols {
			line[i] = rec.Text(res, c)
		}
		if err := cw.Write(line); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if err := cw.Close(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}
