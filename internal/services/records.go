package services

import (
	"strconv"

	"inventory/internal/query"
	"inventory/internal/schema"
)

// Record is one row of a resource keyed by field key. Display carries the
// resolved display value of each relation field.
type Record struct {
	ID      int64             `json:"id"`
	Values  map[string]any    `json:"values"`
	Display map[string]string `json:"display,omitempty"`
}

func rowToRecord(res *schema.Resource, row map[string]any) *Record {
	rec := &Record{Values: make(map[string]any, len(res.Fields))}
	for _, f := range res.Fields {
		v := normalizeValue(f, row[f.Key])
		rec.Values[f.Key] = v
		if f.Kind != schema.KindRelation {
			continue
		}
		if rec.Display == nil {
			rec.Display = map[string]string{}
		}
		rec.Display[f.Key] = formatValue(f, row[f.Key+query.DisplaySuffix])
	}
	rec.ID, _ = asInt64(rec.Values["id"])
	return rec
}

func rowsToRecords(res *schema.Resource, rows []map[string]any) []*Record {
	out := make([]*Record, len(rows))
	for i, row := range rows {
		out[i] = rowToRecord(res, row)
	}
	return out
}

// Text renders key the way a person reads it: relations by display value,
// datetimes in the fixed layout, absent values empty.
func (r *Record) Text(res *schema.Resource, key string) string {
	f, ok := res.Field(key)
	if !ok {
		return ""
	}
	if f.Kind == schema.KindRelation {
		if d := r.Display[key]; d != "" {
			return d
		}
	}
	return formatValue(f, r.Values[key])
}

// Identity is the human identifier written to the change log.
func (r *Record) Identity(res *schema.Resource) string {
	if res.IdentityField != "" {
		if s := r.Text(res, res.IdentityField); s != "" {
			return s
		}
	}
	return strconv.FormatInt(r.ID, 10)
}

// detail is the change log payload describing the full record.
func (r *Record) detail(res *schema.Resource) map[string]any {
	out := make(map[string]any, len(res.Fields))
	for _, f := range res.Fields {
		out[f.Key] = auditValue(f, r.Values[f.Key])
		if f.Kind == schema.KindRelation {
			out[f.Key+"_display"] = r.Display[f.Key]
		}
	}
	return out
}

func recordIDs(records []*Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
