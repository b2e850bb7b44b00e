package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/query"
	"inventory/internal/schema"
)

// engine holds what the resource and transfer services share: the business
// pool, the schema registry, the query builder and the change log.
type engine struct {
	db       *gorm.DB
	registry *schema.Registry
	builder  *query.Builder
	audit    AuditServicer
	now      func() time.Time
}

func newEngine(db *gorm.DB, registry *schema.Registry, builder *query.Builder, audit AuditServicer) *engine {
	return &engine{db: db, registry: registry, builder: builder, audit: audit, now: time.Now}
}

// resource resolves name and checks that op is enabled on it. An empty op
// only resolves.
func (e *engine) resource(name string, op schema.Operation) (*schema.Resource, error) {
	res, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if op != "" && !res.Permissions.Allows(op) {
		return nil, apperrors.WithMessage(apperrors.ErrOperationDisabled,
			fmt.Sprintf("%s is not allowed for %s", op, res.Title))
	}
	return res, nil
}

func (e *engine) fetch(ctx context.Context, db *gorm.DB, res *schema.Resource, ids []int64) ([]*Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := query.Fetch(ctx, db, res, query.Column(res, "id")+" IN ?", ids)
	if err != nil {
		return nil, err
	}
	return rowsToRecords(res, rows), nil
}

func (e *engine) fetchOne(ctx context.Context, db *gorm.DB, res *schema.Resource, id int64) (*Record, error) {
	records, err := e.fetch(ctx, db, res, []int64{id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(records) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrRecordNotFound,
			fmt.Sprintf("%s record %d not found", res.Title, id))
	}
	return records[0], nil
}

// checkField validates one raw input value for f. It returns the value to
// store, the relation display value if any, and a user-facing message when
// the value is rejected. exclude lists ids ignored by the uniqueness check.
func (e *engine) checkField(ctx context.Context, db *gorm.DB, res *schema.Resource, f schema.Field, raw any, exclude []int64) (any, string, string, error) {
	v, msg := coerce(f, raw)
	if msg != "" {
		return nil, "", msg, nil
	}
	if isEmpty(v) {
		if f.Required {
			return nil, "", fmt.Sprintf("%s is required", f.Label), nil
		}
		return v, "", "", nil
	}

	var display string
	if f.Kind == schema.KindRelation {
		id, d, ok, err := e.resolveRelation(ctx, db, f, v.(string))
		if err != nil {
			return nil, "", "", err
		}
		if !ok {
			return nil, "", fmt.Sprintf("%s '%s' does not exist", f.Label, v), nil
		}
		v, display = id, d
	}

	if f.Unique {
		taken, err := e.taken(ctx, db, res, f, v, exclude)
		if err != nil {
			return nil, "", "", err
		}
		if taken {
			return nil, "", fmt.Sprintf("%s '%s' already exists", f.Label, formatValue(f, v)), nil
		}
	}
	return v, display, "", nil
}

// resolveRelation finds the related row by display value, then by id.
func (e *engine) resolveRelation(ctx context.Context, db *gorm.DB, f schema.Field, s string) (int64, string, bool, error) {
	var matches []struct {
		ID      int64
		Display string
	}
	sel := fmt.Sprintf("id, %s AS display", f.Relation.DisplayColumn)
	err := db.WithContext(ctx).Table(f.Relation.Table).Select(sel).
		Where(f.Relation.DisplayColumn+" = ?", s).Limit(1).Find(&matches).Error
	if err != nil {
		return 0, "", false, err
	}
	if len(matches) == 0 {
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			return 0, "", false, nil
		}
		err = db.WithContext(ctx).Table(f.Relation.Table).Select(sel).
			Where("id = ?", n).Limit(1).Find(&matches).Error
		if err != nil || len(matches) == 0 {
			return 0, "", false, err
		}
	}
	return matches[0].ID, matches[0].Display, true, nil
}

func (e *engine) taken(ctx context.Context, db *gorm.DB, res *schema.Resource, f schema.Field, v any, exclude []int64) (bool, error) {
	q := db.WithContext(ctx).Table(res.Table).Where(f.Key+" = ?", v)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// prepared is validated input ready to be written.
type prepared struct {
	values  map[string]any
	display map[string]string
	details []apperrors.FieldError
}

func (p *prepared) failed() bool { return len(p.details) > 0 }

func (p *prepared) reject(field, msg string) {
	p.details = append(p.details, apperrors.FieldError{Field: field, Message: msg})
}

// prepare validates input against the editable fields of res. With partial
// set only the keys present in input are considered, as for an update.
func (e *engine) prepare(ctx context.Context, db *gorm.DB, res *schema.Resource, input map[string]any, partial bool, exclude []int64) (*prepared, error) {
	p := &prepared{values: map[string]any{}, display: map[string]string{}}

	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "id" {
			continue
		}
		f, ok := res.Field(key)
		switch {
		case !ok:
			p.reject(key, fmt.Sprintf("'%s' is not a field of %s", key, res.Title))
		case !f.Editable:
			p.reject(key, fmt.Sprintf("%s cannot be edited", f.Label))
		}
	}

	for _, f := range res.EditableFields() {
		raw, present := input[f.Key]
		if partial && !present {
			continue
		}
		v, display, msg, err := e.checkField(ctx, db, res, f, raw, exclude)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			p.reject(f.Key, msg)
			continue
		}
		p.values[f.Key] = v
		if display != "" {
			p.display[f.Key] = display
		}
	}
	return p, nil
}

// columnValues adds shadow sort columns and timestamps to values.
func (e *engine) columnValues(res *schema.Resource, values map[string]any, creating bool) map[string]any {
	out := make(map[string]any, len(values)+3)
	for k, v := range values {
		out[k] = v
		f, _ := res.Field(k)
		if col, sv, ok := sortShadow(f, v); ok {
			out[col] = sv
		}
	}
	if res.Timestamps {
		now := e.now()
		out["updated_at"] = now
		if creating {
			out["created_at"] = now
		}
	}
	return out
}

// insert writes one row inside tx and returns its id, found again through
// the identity field since a map insert does not report the key.
func (e *engine) insert(tx *gorm.DB, res *schema.Resource, values map[string]any) (int64, error) {
	if err := tx.Table(res.Table).Create(e.columnValues(res, values, true)).Error; err != nil {
		return 0, err
	}
	var ids []int64
	q := tx.Table(res.Table)
	if res.IdentityField != "" {
		q = q.Where(res.IdentityField+" = ?", values[res.IdentityField])
	}
	if err := q.Order("id DESC").Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("insert into %s: row not found after create", res.Table)
	}
	return ids[0], nil
}

// recomputeCounters refreshes every counter column that counts child rows,
// for the parents referenced by any of values.
func (e *engine) recomputeCounters(tx *gorm.DB, child *schema.Resource, values ...map[string]any) error {
	for _, parent := range e.registry.List() {
		for _, c := range parent.Counters {
			if c.Resource != child.Name {
				continue
			}
			seen := map[int64]bool{}
			var ids []int64
			for _, v := range values {
				if id, ok := asInt64(v[c.ForeignKey]); ok && !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				continue
			}
			stmt := fmt.Sprintf(
				"UPDATE %[1]s SET %[2]s = (SELECT COUNT(*) FROM %[3]s WHERE %[3]s.%[4]s = %[1]s.id) WHERE %[1]s.id IN ?",
				parent.Table, c.Column, child.Table, c.ForeignKey)
			if err := tx.Exec(stmt, ids).Error; err != nil {
				return fmt.Errorf("recompute %s.%s: %w", parent.Table, c.Column, err)
			}
		}
	}
	return nil
}

// record writes one change log entry. It must not be called while a
// business transaction is open.
func (e *engine) record(ctx context.Context, actor, verb string, res *schema.Resource, identifier string, status models.ChangeStatus, batch string, detail any) {
	e.audit.Record(ctx, ChangeEntry{
		Actor:            actor,
		Verb:             verb,
		ObjectKind:       res.Name,
		ObjectIdentifier: identifier,
		Status:           status,
		BatchID:          batch,
		Detail:           detail,
	})
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
