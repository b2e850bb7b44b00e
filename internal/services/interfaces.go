package services

import (
	"context"
	"io"
	"time"

	"inventory/internal/models"
	"inventory/internal/pagination"
	"inventory/internal/query"
	"inventory/internal/schema"
)

// AuditServicer defines the contract for the change log. Record never fails
// the caller.
type AuditServicer interface {
	Record(ctx context.Context, entry ChangeEntry)
}

// ListResult is one page of a resource listing plus the view state that
// produced it.
type ListResult struct {
	Resource      string                           `json:"resource"`
	Columns       []string                         `json:"columns"`
	Search        string                           `json:"search"`
	Sort          string                           `json:"sort"`
	Order         schema.Direction                 `json:"order"`
	ActiveFilters map[string]string                `json:"active_filters"`
	Page          pagination.PageResponse[*Record] `json:"page"`
}

// FilterOption is one selectable value for a field filter.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldChange is one field of an update, as written to the change log.
type FieldChange struct {
	Field      string `json:"field"`
	OldValue   any    `json:"old_value"`
	NewValue   any    `json:"new_value"`
	OldDisplay string `json:"old_display,omitempty"`
	NewDisplay string `json:"new_display,omitempty"`
	Error      string `json:"error,omitempty"`
}

// UpdateResult is the record after an update and the fields that changed.
type UpdateResult struct {
	Record  *Record       `json:"record"`
	Changes []FieldChange `json:"changes"`
}

// DeleteResult reports the outcome of a single or bulk delete.
type DeleteResult struct {
	Requested  int `json:"requested"`
	Deleted    int `json:"deleted"`
	Missing    int `json:"missing"`
	Dependents int `json:"dependents"`
}

// BulkUpdateRequest sets one field to one value on many records. Value takes
// the same raw forms as create and update input.
type BulkUpdateRequest struct {
	IDs   []int64
	Field string
	Value any
}

// BulkResult reports the outcome of a bulk edit.
type BulkResult struct {
	Requested int `json:"requested"`
	Changed   int `json:"changed"`
	Skipped   int `json:"skipped"`
	Missing   int `json:"missing"`
}

// ImportResult reports the records created from an uploaded file.
type ImportResult struct {
	Created int     `json:"created"`
	IDs     []int64 `json:"ids"`
}

// ResourceServicer defines the contract for schema-driven reads and writes.
type ResourceServicer interface {
	Schemas() []*schema.Resource
	Schema(name string) (*schema.Resource, error)
	List(ctx context.Context, actor, name string, spec query.Spec, columns []string) (*ListResult, error)
	Get(ctx context.Context, name string, id int64) (*Record, error)
	FilterOptions(ctx context.Context, name, field string, spec query.Spec) ([]FilterOption, error)
	Create(ctx context.Context, actor, name string, input map[string]any) (*Record, error)
	Update(ctx context.Context, actor, name string, id int64, input map[string]any) (*UpdateResult, error)
	Delete(ctx context.Context, actor, name string, id int64) (*DeleteResult, error)
	BulkDelete(ctx context.Context, actor, name string, ids []int64) (*DeleteResult, error)
	BulkUpdate(ctx context.Context, actor, name string, req BulkUpdateRequest) (*BulkResult, error)
}

// TransferServicer defines the contract for CSV import and export.
type TransferServicer interface {
	Import(ctx context.Context, actor, name, filename string, r io.Reader) (*ImportResult, error)
	Export(ctx context.Context, actor, name string, spec query.Spec, columns []string, w io.Writer) (int, error)
}

// View is a user's saved column choice for one resource.
type View struct {
	Resource string   `json:"resource"`
	Columns  []string `json:"columns"`
	Saved    bool     `json:"saved"`
}

// PreferenceStore persists visible columns keyed by (user, resource).
type PreferenceStore interface {
	Get(ctx context.Context, username, resource string) ([]string, bool, error)
	Put(ctx context.Context, username, resource string, columns []string) error
}

// PreferenceServicer defines the contract for per-user view preferences.
type PreferenceServicer interface {
	VisibleColumns(ctx context.Context, username string, res *schema.Resource, requested []string) []string
	GetView(ctx context.Context, username, name string) (*View, error)
	SaveView(ctx context.Context, username, name string, columns []string) (*View, error)
}

// OperationInput is a power operation reported by the control plane.
type OperationInput struct {
	Username string
	VMIP     string
	Action   models.OperationAction
	Status   models.ChangeStatus
	Details  string
}

// OperationServicer defines the contract for the VM operation log.
type OperationServicer interface {
	Record(ctx context.Context, in OperationInput) (*models.OperationLog, error)
	Recent(ctx context.Context, username string, limit int) ([]models.OperationLog, error)
}

// StatusCount is the number of rows in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardSummary is the landing page overview.
type DashboardSummary struct {
	Hosts            int64                 `json:"hosts"`
	VMs              int64                 `json:"vms"`
	HostsByStatus    []StatusCount         `json:"hosts_by_status"`
	VMsByStatus      []StatusCount         `json:"vms_by_status"`
	RecentOperations []models.OperationLog `json:"recent_operations"`
	MyOperations     []models.OperationLog `json:"my_operations"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// DashboardServicer defines the contract for the dashboard summary.
type DashboardServicer interface {
	Summary(ctx context.Context, username string) (*DashboardSummary, error)
}

// UserServicer defines the contract for console user bookkeeping.
type UserServicer interface {
	Touch(ctx context.Context, username string, role models.Role) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
