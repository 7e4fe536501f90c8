package access

import (
	"context"
	"time"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// DeniedReason is recorded on every denied decision.
const DeniedReason = "insufficient permissions"

// Recorder receives one audit record per decision. Implementations must not
// fail the caller; errors stay on the operational channel.
type Recorder interface {
	Record(ctx context.Context, rec domain.AuditRecord)
}

// Request describes a single authorization question.
type Request struct {
	Identity domain.Identity
	Resource Resource
	Action   Action
	IP       string
	Path     string
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorizer checks requests against a Table and audits every outcome.
type Authorizer struct {
	table    *Table
	recorder Recorder
	now      func() time.Time
	observe  func(Request, Decision)
}

// Option customises an Authorizer.
type Option func(*Authorizer)

// WithObserver registers a hook called after each decision (metrics).
func WithObserver(fn func(Request, Decision)) Option {
	return func(a *Authorizer) { a.observe = fn }
}

// NewAuthorizer wires a permission table to an audit recorder.
func NewAuthorizer(table *Table, recorder Recorder, opts ...Option) *Authorizer {
	a := &Authorizer{table: table, recorder: recorder, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table exposes the underlying permission table for startup validation.
func (a *Authorizer) Table() *Table {
	return a.table
}

// Authorize allows the request iff the caller's role is in the table entry.
// Exactly one audit record is handed to the recorder before it returns.
func (a *Authorizer) Authorize(ctx context.Context, req Request) Decision {
	d := Decision{Allowed: a.table.Allows(req.Resource, req.Action, req.Identity.Role)}
	status := domain.AuditAllowed
	if !d.Allowed {
		d.Reason = DeniedReason
		status = domain.AuditDenied
	}

	a.recorder.Record(ctx, domain.AuditRecord{
		UserID:    req.Identity.UserID,
		Role:      req.Identity.Role,
		IP:        req.IP,
		Path:      req.Path,
		Resource:  string(req.Resource),
		Action:    string(req.Action),
		Status:    status,
		Reason:    d.Reason,
		Timestamp: a.now().UTC(),
	})

	if a.observe != nil {
		a.observe(req, d)
	}
	return d
}
