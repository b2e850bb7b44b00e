package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"inventory/internal/logger"
	"inventory/internal/models"
)

// SystemActor is recorded when a change has no authenticated user.
const SystemActor = "system"

// ChangeEntry is one attempted mutation handed to the change log.
type ChangeEntry struct {
	Actor            string
	Verb             string
	ObjectKind       string
	ObjectIdentifier string
	Status           models.ChangeStatus
	BatchID          string
	Detail           any
}

// auditService writes change records through its own session. It must never
// be handed a business transaction.
type auditService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAuditService creates an AuditServicer writing through db. Pass a pool
// separate from the business pool where the driver allows it.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, now: time.Now}
}

// Record appends a change record. Failures are logged and swallowed so the
// business operation that triggered them is never affected.
func (s *auditService) Record(ctx context.Context, entry ChangeEntry) {
	log := logger.Get()

	detail := entry.Detail
	action, ok := NormalizeAction(entry.Verb)
	if !ok {
		// recorded as an update; the raw verb travels in the detail
		log.Warnw("recording change with unknown action as update",
			"verb", entry.Verb,
			"object_type", entry.ObjectKind,
			"object_identifier", entry.ObjectIdentifier,
		)
		action = models.ChangeActionUpdate
		detail = map[string]any{"verb": entry.Verb, "detail": entry.Detail}
	}

	actor := strings.TrimSpace(entry.Actor)
	if actor == "" {
		actor = SystemActor
	}
	status := entry.Status
	if status == "" {
		status = models.ChangeStatusSuccess
	}
	identifier := strings.TrimSpace(entry.ObjectIdentifier)
	if identifier == "" {
		identifier = "N/A"
	}

	record := &models.ChangeLog{
		Time:             s.now(),
		Username:         actor,
		Action:           action,
		Status:           status,
		ObjectType:       SingularKind(entry.ObjectKind),
		ObjectIdentifier: identifier,
		BatchID:          entry.BatchID,
		Detail:           serializeDetail(detail),
	}

	// the caller may already be cancelled when reporting a failure
	session := s.db.Session(&gorm.Session{NewDB: true, Context: context.WithoutCancel(ctx)})
	if err := session.Create(record).Error; err != nil {
		log.Errorw("failed to write change record",
			"error", err,
			"actor", actor,
			"action", action,
			"object_type", record.ObjectType,
			"object_identifier", identifier,
		)
		return
	}

	log.Infow("change recorded",
		"actor", actor,
		"action", action,
		"status", status,
		"object_type", record.ObjectType,
		"object_identifier", identifier,
	)
}

// NormalizeAction folds the verbs used across the engine onto the closed
// set stored in the change log. It reports false for verbs outside that set.
func NormalizeAction(verb string) (models.ChangeAction, bool) {
	switch strings.ToLower(strings.TrimSpace(verb)) {
	case "create", "created", "add", "added", "import", "imported":
		return models.ChangeActionCreate, true
	case "update", "updated", "edit", "edited", "bulk_edit", "bulk_update":
		return models.ChangeActionUpdate, true
	case "delete", "deleted", "remove", "removed", "bulk_delete":
		return models.ChangeActionDelete, true
	}
	return "", false
}

// SingularKind turns a resource name such as "vms" into its object type.
func SingularKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return "unknown"
	}
	return inflection.Singular(kind)
}

// serializeDetail marshals detail, replacing anything JSON cannot carry
// with a diagnostic placeholder instead of failing.
func serializeDetail(detail any) datatypes.JSON {
	if detail == nil {
		return datatypes.JSON("{}")
	}
	data, err := json.Marshal(detail)
	if err == nil {
		return datatypes.JSON(data)
	}

	data, err = json.Marshal(sanitize(reflect.ValueOf(detail), 0))
	if err != nil {
		logger.Get().Errorw("failed to serialize change detail", "error", err)
		data, _ = json.Marshal(map[string]string{"error": "Error serializing detail: " + err.Error()})
	}
	return datatypes.JSON(data)
}

const maxSanitizeDepth = 32

func placeholder(v reflect.Value) map[string]string {
	return map[string]string{"error": fmt.Sprintf("unserializable value of type %s", v.Type())}
}

// sanitize walks v and returns a JSON-safe copy.
func sanitize(v reflect.Value, depth int) any {
	if !v.IsValid() {
		return nil
	}
	if depth > maxSanitizeDepth {
		return map[string]string{"error": "detail nested too deeply"}
	}

	if v.Kind() != reflect.Interface && v.Kind() != reflect.Pointer {
		if m, ok := v.Interface().(json.Marshaler); ok {
			if _, err := m.MarshalJSON(); err == nil {
				return m
			}
			return placeholder(v)
		}
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return sanitize(v.Elem(), depth+1)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return placeholder(v)
		}
		return f
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value(), depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = sanitize(v.Index(i), depth+1)
		}
		return out
	case reflect.Struct:
		if _, err := json.Marshal(v.Interface()); err == nil {
			return v.Interface()
		}
		out := make(map[string]any, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			out[v.Type().Field(i).Name] = sanitize(v.Field(i), depth+1)
		}
		return out
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return placeholder(v)
	default:
		return v.Interface()
	}
}
