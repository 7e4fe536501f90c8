// Package access holds the access-control core: the static permission table,
// the authorizer that consults it, and the ownership scope applied to queries.
package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// Resource names a guarded collection or view.
type Resource string

const (
	ResourceDashboard    Resource = "dashboard"
	ResourceTransactions Resource = "transactions"
	ResourceBudgets      Resource = "budgets"
	ResourceClients      Resource = "clients"
	ResourceInvoices     Resource = "invoices"
	ResourceAudit        Resource = "audit"
)

// Action names an operation on a Resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
	ActionDetail Action = "detail"
)

// Key identifies one table entry.
type Key struct {
	Resource Resource
	Action   Action
}

func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Action)
}

// Table maps resource → action → allowed roles. A Table is built once at
// startup and only read afterwards.
type Table struct {
	entries map[Key]map[domain.Role]struct{}
}

// NewTable builds a Table from a nested literal.
func NewTable(def map[Resource]map[Action][]domain.Role) *Table {
	t := &Table{entries: make(map[Key]map[domain.Role]struct{})}
	for res, actions := range def {
		for act, roles := range actions {
			set := make(map[domain.Role]struct{}, len(roles))
			for _, r := range roles {
				set[r] = struct{}{}
			}
			t.entries[Key{Resource: res, Action: act}] = set
		}
	}
	return t
}

// Allows reports whether role may perform action on resource. A missing entry
// is an empty set.
func (t *Table) Allows(res Resource, act Action, role domain.Role) bool {
	_, ok := t.entries[Key{Resource: res, Action: act}][role]
	return ok
}

// Has reports whether the table carries an explicit entry for the key.
func (t *Table) Has(k Key) bool {
	_, ok := t.entries[k]
	return ok
}

// Require returns an error naming every key without an explicit entry.
// The router calls it with the keys it registered so a missing entry fails at
// startup instead of denying at request time.
func (t *Table) Require(keys ...Key) error {
	var missing []string
	for _, k := range keys {
		if !t.Has(k) {
			missing = append(missing, k.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("permission table: no entry for %s", strings.Join(missing, ", "))
}

var (
	everyone   = []domain.Role{domain.RoleAdmin, domain.RoleClientMgmt, domain.RoleSelfEmployed, domain.RoleSalary, domain.RoleAccountant, domain.RoleViewer}
	writers    = []domain.Role{domain.RoleAdmin, domain.RoleClientMgmt, domain.RoleSelfEmployed, domain.RoleSalary}
	exporters  = []domain.Role{domain.RoleAdmin, domain.RoleClientMgmt, domain.RoleSelfEmployed, domain.RoleAccountant}
	billing    = []domain.Role{domain.RoleAdmin, domain.RoleClientMgmt, domain.RoleSelfEmployed}
	billReader = []domain.Role{domain.RoleAdmin, domain.RoleClientMgmt, domain.RoleSelfEmployed, domain.RoleAccountant}
	adminOnly  = []domain.Role{domain.RoleAdmin}
)

// DefaultTable returns the permission matrix served by the API.
func DefaultTable() *Table {
	return NewTable(map[Resource]map[Action][]domain.Role{
		ResourceDashboard: {
			ActionView: everyone,
		},
		ResourceTransactions: {
			ActionView:   everyone,
			ActionCreate: writers,
			ActionUpdate: writers,
			ActionDelete: adminOnly,
			ActionExport: exporters,
			ActionImport: billing,
		},
		ResourceBudgets: {
			ActionView:   everyone,
			ActionCreate: writers,
			ActionUpdate: writers,
			ActionDelete: adminOnly,
			ActionExport: exporters,
		},
		ResourceClients: {
			ActionView:   billReader,
			ActionDetail: billReader,
			ActionCreate: billing,
			ActionUpdate: billing,
			ActionDelete: adminOnly,
		},
		ResourceInvoices: {
			ActionView:   billReader,
			ActionDetail: billReader,
			ActionCreate: billing,
			ActionUpdate: billing,
			ActionDelete: adminOnly,
		},
		ResourceAudit: {
			ActionView: adminOnly,
		},
	})
}
