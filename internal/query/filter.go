package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventory/internal/logger"
	"inventory/internal/schema"
)

// SplitFilter splits a raw filter value on commas, trimming blanks. The
// null sentinel is reported separately from the literal values.
func SplitFilter(raw string) (values []string, hasNull bool) {
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		switch {
		case v == "":
		case v == schema.NullSentinel:
			hasNull = true
		default:
			values = append(values, v)
		}
	}
	return values, hasNull
}

// filterCondition builds the predicate for one filterable field. A nil
// condition with a nil error means the filter carried nothing usable.
func (b *Builder) filterCondition(ctx context.Context, res *schema.Resource, f schema.Field, raw string) (*condition, error) {
	values, hasNull := SplitFilter(raw)
	col := column(res, f.Key)

	var parts []string
	var args []any

	if hasNull {
		if f.TextLike() {
			parts = append(parts, fmt.Sprintf("(%s IS NULL OR %s = '')", col, col))
		} else {
			parts = append(parts, col+" IS NULL")
		}
	}

	switch f.Kind {
	case schema.KindRelation:
		ids, err := b.resolveRelation(ctx, f, values)
		if err != nil {
			return nil, err
		}
		switch {
		case len(ids) > 0:
			parts = append(parts, col+" IN ?")
			args = append(args, ids)
		case len(values) > 0 && !hasNull:
			// every value was unresolvable
			parts = append(parts, "1 = 0")
		}

	case schema.KindNumber:
		nums := parseNumbers(values)
		switch len(nums) {
		case 0:
		case 1:
			parts = append(parts, col+" = ?")
			args = append(args, nums[0])
		default:
			parts = append(parts, col+" IN ?")
			args = append(args, nums)
		}

	case schema.KindDatetime:
		for _, v := range values {
			t, err := time.ParseInLocation(schema.DatetimeLayout, v, time.Local)
			if err != nil {
				logger.Get().Warnw("ignoring unparseable datetime filter", "field", f.Key, "value", v)
				continue
			}
			// stored values carry sub-second precision, so match the whole second
			parts = append(parts, fmt.Sprintf("(%s >= ? AND %s < ?)", col, col))
			args = append(args, t, t.Add(time.Second))
		}

	default:
		switch len(values) {
		case 0:
		case 1:
			parts = append(parts, fmt.Sprintf("LOWER(%s) = ?", col))
			args = append(args, strings.ToLower(values[0]))
		default:
			lowered := make([]string, len(values))
			for i, v := range values {
				lowered[i] = strings.ToLower(v)
			}
			parts = append(parts, fmt.Sprintf("LOWER(%s) IN ?", col))
			args = append(args, lowered)
		}
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return &condition{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}, nil
}

// resolveRelation maps display values to ids. Values that match no display
// value are accepted as numeric ids; anything else is dropped.
func (b *Builder) resolveRelation(ctx context.Context, f schema.Field, values []string) ([]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}

	var matches []struct {
		ID      int64
		Display string
	}
	err := b.db.WithContext(ctx).
		Table(f.Relation.Table).
		Select(fmt.Sprintf("id, %s AS display", f.Relation.DisplayColumn)).
		Where(f.Relation.DisplayColumn+" IN ?", values).
		Scan(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("resolve %s filter: %w", f.Key, err)
	}

	byDisplay := make(map[string]int64, len(matches))
	for _, m := range matches {
		byDisplay[m.Display] = m.ID
	}

	seen := map[int64]bool{}
	var ids []int64
	for _, v := range values {
		id, ok := byDisplay[v]
		if !ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				logger.Get().Debugw("dropping unresolvable relation filter value", "field", f.Key, "value", v)
				continue
			}
			id = n
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseNumbers(values []string) []float64 {
	var out []float64
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
