package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/pagination"
	"inventory/internal/query"
	"inventory/internal/schema"
)

// resourceService handles schema-driven listing and mutation of records.
type resourceService struct {
	*engine
	prefs PreferenceServicer
}

// NewResourceService creates a new ResourceServicer. Reads and writes go
// through db; change records go through audit.
func NewResourceService(db *gorm.DB, registry *schema.Registry, builder *query.Builder, audit AuditServicer, prefs PreferenceServicer) ResourceServicer {
	return &resourceService{engine: newEngine(db, registry, builder, audit), prefs: prefs}
}

// Schemas returns every registered resource.
func (s *resourceService) Schemas() []*schema.Resource {
	return s.registry.List()
}

// Schema returns the schema for name.
func (s *resourceService) Schema(name string) (*schema.Resource, error) {
	return s.registry.Get(name)
}

// List returns one page of name matching spec, plus the columns to show.
func (s *resourceService) List(ctx context.Context, actor, name string, spec query.Spec, columns []string) (*ListResult, error) {
	res, err := s.resource(name, "")
	if err != nil {
		return nil, err
	}

	q, err := s.builder.Build(ctx, res, spec)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total, err := q.Count(ctx, s.db)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rows, err := q.Rows(ctx, s.db, true)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ListResult{
		Resource:      res.Name,
		Columns:       s.prefs.VisibleColumns(ctx, actor, res, columns),
		Search:        q.Search,
		Sort:          q.SortKey,
		Order:         q.Order,
		ActiveFilters: q.ActiveFilters,
		Page:          pagination.NewPageResponse(rowsToRecords(res, rows), q.Page.Page, q.Page.PageSize, total),
	}, nil
}

// Get returns one record by id.
func (s *resourceService) Get(ctx context.Context, name string, id int64) (*Record, error) {
	res, err := s.resource(name, "")
	if err != nil {
		return nil, err
	}
	return s.fetchOne(ctx, s.db, res, id)
}

// FilterOptions lists the distinct values of field among the rows matching
// spec. The field's own filter is left out so every value stays selectable.
// Null and empty values collapse into one leading NULL option.
func (s *resourceService) FilterOptions(ctx context.Context, name, field string, spec query.Spec) ([]FilterOption, error) {
	res, err := s.resource(name, "")
	if err != nil {
		return nil, err
	}
	f, ok := res.Field(field)
	if !ok || !f.Filterable {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("'%s' is not a filterable field of %s", field, res.Title))
	}

	filters := make(map[string]string, len(spec.Filters))
	for k, v := range spec.Filters {
		if k != field {
			filters[k] = v
		}
	}
	spec.Filters = filters

	q, err := s.builder.Build(ctx, res, spec)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sel := query.Column(res, f.Key) + " AS value"
	if f.Kind == schema.KindRelation {
		sel += fmt.Sprintf(", %s.%s AS label", query.RelationAlias(f), f.Relation.DisplayColumn)
	}
	var rows []map[string]any
	if err := q.Scope(s.db.WithContext(ctx)).Distinct(sel).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return buildOptions(f, rows), nil
}

func buildOptions(f schema.Field, rows []map[string]any) []FilterOption {
	hasNull := false
	seen := map[string]bool{}
	var opts []FilterOption
	for _, row := range rows {
		v := normalizeValue(f, row["value"])
		if isEmpty(v) {
			hasNull = true
			continue
		}
		value := formatValue(f, v)
		if seen[value] {
			continue
		}
		seen[value] = true
		label := value
		if f.Kind == schema.KindRelation {
			if l := formatValue(f, row["label"]); l != "" {
				label = l
			}
		}
		opts = append(opts, FilterOption{Value: value, Label: label})
	}

	sort.SliceStable(opts, func(i, j int) bool {
		a, b := strings.ToLower(opts[i].Label), strings.ToLower(opts[j].Label)
		if a != b {
			return a < b
		}
		return opts[i].Label < opts[j].Label
	})
	if hasNull {
		opts = append([]FilterOption{{Value: schema.NullSentinel, Label: "NULL"}}, opts...)
	}
	if opts == nil {
		opts = []FilterOption{}
	}
	return opts
}
