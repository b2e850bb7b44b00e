package schema

import (
	"fmt"
	"sync"

	apperrors "inventory/internal/errors"
)

// Registry maps resource names to their schema. It is built once and never
// modified afterwards, so lookups need no locking.
type Registry struct {
	resources map[string]*Resource
	order     []string
}

// NewRegistry validates the resources and indexes them by name.
func NewRegistry(resources ...Resource) (*Registry, error) {
	reg := &Registry{resources: make(map[string]*Resource, len(resources))}
	for i := range resources {
		res := resources[i]
		if res.Name == "" || res.Table == "" {
			return nil, fmt.Errorf("schema: resource %d has no name or table", i)
		}
		if _, dup := reg.resources[res.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate resource %q", res.Name)
		}
		if err := validateResource(&res); err != nil {
			return nil, err
		}
		reg.resources[res.Name] = &res
		reg.order = append(reg.order, res.Name)
	}

	for _, name := range reg.order {
		res := reg.resources[name]
		for _, f := range res.Relations() {
			if _, ok := reg.resources[f.Relation.Resource]; !ok {
				return nil, fmt.Errorf("schema: %s.%s references unknown resource %q", name, f.Key, f.Relation.Resource)
			}
		}
		for _, d := range res.Dependents {
			if _, ok := reg.resources[d.Resource]; !ok {
				return nil, fmt.Errorf("schema: %s has unknown dependent %q", name, d.Resource)
			}
		}
	}
	return reg, nil
}

func validateResource(res *Resource) error {
	seen := make(map[string]bool, len(res.Fields))
	for _, f := range res.Fields {
		if seen[f.Key] {
			return fmt.Errorf("schema: %s has duplicate field %q", res.Name, f.Key)
		}
		seen[f.Key] = true
		if f.Kind == KindRelation && f.Relation == nil {
			return fmt.Errorf("schema: %s.%s is a relation without a target", res.Name, f.Key)
		}
		if f.Kind == KindSelect && len(f.Options) == 0 {
			return fmt.Errorf("schema: %s.%s is a select without options", res.Name, f.Key)
		}
		// text order puts 10.0.0.10 before 10.0.0.2
		if f.Format == FormatIPv4 && f.Sortable && f.SortColumn == "" {
			return fmt.Errorf("schema: %s.%s sorts addresses without a numeric sort column", res.Name, f.Key)
		}
	}
	if res.IdentityField != "" && !seen[res.IdentityField] {
		return fmt.Errorf("schema: %s identity field %q is not declared", res.Name, res.IdentityField)
	}
	for _, c := range res.DefaultColumns {
		if !seen[c] {
			return fmt.Errorf("schema: %s default column %q is not declared", res.Name, c)
		}
	}
	if res.DefaultSort != "" {
		f, ok := res.Field(res.DefaultSort)
		if !ok || !f.Sortable {
			return fmt.Errorf("schema: %s default sort %q is not sortable", res.Name, res.DefaultSort)
		}
	}
	if res.DefaultOrder == "" {
		res.DefaultOrder = Asc
	}
	return nil
}

// MustRegistry is NewRegistry for static tables; it panics on a bad schema.
func MustRegistry(resources ...Resource) *Registry {
	reg, err := NewRegistry(resources...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the schema for name or an UNKNOWN_RESOURCE error.
func (r *Registry) Get(name string) (*Resource, error) {
	res, ok := r.resources[name]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownResource, fmt.Sprintf("Unknown resource '%s'", name))
	}
	return res, nil
}

// List returns the resources in registration order.
func (r *Registry) List() []*Resource {
	out := make([]*Resource, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.resources[name])
	}
	return out
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the inventory registry: hosts, vms, users, change_logs and
// operation_logs.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustRegistry(inventoryResources()...)
	})
	return defaultRegistry
}
