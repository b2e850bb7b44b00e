package schema

import "inventory/internal/models"

var (
	statusOptions = []string{string(models.StatusActive), string(models.StatusInactive)}
	virtOptions   = []string{
		string(models.VirtualizationKVM),
		string(models.VirtualizationPVE),
		string(models.VirtualizationOther),
	}
	roleOptions = []string{string(models.RoleAdmin), string(models.RoleManager), string(models.RoleOperator)}
)

func idField() Field {
	return Field{Key: "id", Label: "ID", Kind: KindNumber, Integer: true, Sortable: true}
}

func timestampFields() []Field {
	return []Field{
		{Key: "created_at", Label: "CREATED AT", Kind: KindDatetime, Sortable: true, Filterable: true, Searchable: true},
		{Key: "updated_at", Label: "UPDATED AT", Kind: KindDatetime, Sortable: true, Filterable: true, Searchable: true},
	}
}

func hostsResource() Resource {
	fields := []Field{
		idField(),
		{Key: "host_info", Label: "HOST INFO", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
			Editable: true, Required: true, Unique: true},
		{Key: "vm_count", Label: "VM COUNTS", Kind: KindNumber, Integer: true, Sortable: true, Filterable: true, Searchable: true},
		{Key: "status", Label: "STATUS", Kind: KindSelect, Options: statusOptions, Sortable: true, Filterable: true,
			Searchable: true, Editable: true, Required: true},
		{Key: "department", Label: "DEPARTMENT", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
			Editable: true, Required: true},
		{Key: "virtualization_type", Label: "TYPE", Kind: KindSelect, Options: virtOptions, Sortable: true,
			Filterable: true, Searchable: true, Editable: true, Required: true},
	}
	return Resource{
		Name:           "hosts",
		Title:          "Hosts",
		Table:          "hosts",
		IdentityField:  "host_info",
		Fields:         append(fields, timestampFields()...),
		DefaultColumns: []string{"host_info", "status", "department", "virtualization_type", "vm_count"},
		DefaultSort:    "host_info",
		DefaultOrder:   Asc,
		Dependents:     []Dependent{{Resource: "vms", ForeignKey: "host_id"}},
		Counters:       []Counter{{Column: "vm_count", Resource: "vms", ForeignKey: "host_id"}},
		Timestamps:     true,
	}
}

func vmsResource() Resource {
	fields := []Field{
		idField(),
		{Key: "vm_ip", Label: "IP ADDRESS", Kind: KindText, Format: FormatIPv4, SortColumn: "vm_ip_sort",
			Sortable: true, Filterable: true, Searchable: true, Editable: true, Required: true, Unique: true},
		{Key: "vm_user", Label: "USER", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
			Editable: true, Required: true},
		{Key: "os_type", Label: "OS TYPE", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
			Editable: true, Required: true},
		{Key: "domain_name", Label: "DOMAIN NAME", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
			Editable: true},
		{Key: "status", Label: "STATUS", Kind: KindSelect, Options: statusOptions, Sortable: true, Filterable: true,
			Searchable: true, Editable: true, Required: true},
		{Key: "host_id", Label: "HOST INFO", Kind: KindRelation, Sortable: true, Filterable: true, Searchable: true,
			Editable: true, Required: true,
			Relation: &Relation{Resource: "hosts", Table: "hosts", DisplayColumn: "host_info"}},
		{Key: "cpus", Label: "CPUS", Kind: KindNumber, Integer: true, NonNegative: true, Sortable: true,
			Filterable: true, Searchable: true, Editable: true},
		{Key: "memory_gb", Label: "MEMORY(GB)", Kind: KindNumber, NonNegative: true, Sortable: true,
			Filterable: true, Searchable: true, Editable: true},
		{Key: "disk_gb", Label: "DISK(GB)", Kind: KindNumber, NonNegative: true, Sortable: true,
			Filterable: true, Searchable: true, Editable: true},
	}
	return Resource{
		Name:           "vms",
		Title:          "VMs",
		Table:          "vms",
		IdentityField:  "vm_ip",
		Fields:         append(fields, timestampFields()...),
		DefaultColumns: []string{"vm_ip", "vm_user", "os_type", "status", "host_id", "domain_name"},
		DefaultSort:    "vm_ip",
		DefaultOrder:   Asc,
		Timestamps:     true,
	}
}

func usersResource() Resource {
	return Resource{
		Name:          "users",
		Title:         "Users",
		Table:         "users",
		IdentityField: "username",
		Fields: []Field{
			{Key: "id", Label: "ID", Kind: KindNumber, Integer: true, Sortable: true, Searchable: true},
			{Key: "username", Label: "USERNAME", Kind: KindText, Sortable: true, Filterable: true, Searchable: true,
				Unique: true},
			{Key: "role", Label: "ROLE", Kind: KindSelect, Options: roleOptions, Sortable: true, Filterable: true,
				Searchable: true, Editable: true, Required: true},
			{Key: "created_at", Label: "CREATED AT", Kind: KindDatetime, Sortable: true, Filterable: true, Searchable: true},
			{Key: "last_login", Label: "LAST LOGIN AT", Kind: KindDatetime, Sortable: true, Filterable: true, Searchable: true},
		},
		DefaultColumns: []string{"username", "role", "created_at", "last_login"},
		DefaultSort:    "id",
		DefaultOrder:   Asc,
		Permissions:    Permissions{NoCreate: true, NoBulkEdit: true, NoBulkDelete: true, NoImport: true},
		Timestamps:     true,
	}
}

var readOnly = Permissions{
	NoCreate: true, NoEdit: true, NoDelete: true,
	NoBulkEdit: true, NoBulkDelete: true, NoImport: true,
}

func changeLogsResource() Resource {
	return Resource{
		Name:  "change_logs",
		Title: "Change Logs",
		Table: "change_logs",
		Fields: []Field{
			{Key: "id", Label: "ID", Kind: KindNumber, Integer: true, Sortable: true, Searchable: true},
			{Key: "time", Label: "TIME", Kind: KindDatetime, Sortable: true, Filterable: true, Searchable: true},
			{Key: "username", Label: "USER", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "action", Label: "ACTION", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "status", Label: "STATUS", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "object_type", Label: "OBJECT TYPE", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "object_identifier", Label: "OBJECT IDENTIFIER", Kind: KindText, Sortable: true, Filterable: true,
				Searchable: true},
			{Key: "batch_id", Label: "BATCH", Kind: KindText, Filterable: true},
			{Key: "detail", Label: "DETAILS", Kind: KindJSON, Searchable: true},
		},
		DefaultColumns: []string{"time", "username", "action", "status", "object_type", "object_identifier", "detail"},
		DefaultSort:    "id",
		DefaultOrder:   Desc,
		Permissions:    readOnly,
	}
}

func operationLogsResource() Resource {
	return Resource{
		Name:  "operation_logs",
		Title: "Operation Logs",
		Table: "operation_logs",
		Fields: []Field{
			{Key: "id", Label: "ID", Kind: KindNumber, Integer: true, Sortable: true},
			{Key: "time", Label: "TIME", Kind: KindDatetime, Sortable: true, Filterable: true},
			{Key: "username", Label: "USER", Kind: KindText, Sortable: true, Filterable: true},
			{Key: "vm_ip", Label: "VM IP", Kind: KindText, Format: FormatIPv4, SortColumn: "vm_ip_sort",
				Sortable: true, Filterable: true, Searchable: true},
			{Key: "action", Label: "ACTION", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "status", Label: "STATUS", Kind: KindText, Sortable: true, Filterable: true, Searchable: true},
			{Key: "details", Label: "DETAILS", Kind: KindText},
		},
		DefaultColumns: []string{"time", "vm_ip", "username", "action", "status", "details"},
		DefaultSort:    "id",
		DefaultOrder:   Desc,
		Permissions:    readOnly,
	}
}

func inventoryResources() []Resource {
	return []Resource{
		hostsResource(),
		vmsResource(),
		usersResource(),
		changeLogsResource(),
		operationLogsResource(),
	}
}
