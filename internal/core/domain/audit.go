package domain

import "time"

// AuditStatus is the outcome of an authorization decision.
type AuditStatus string

const (
	AuditAllowed AuditStatus = "allowed"
	AuditDenied  AuditStatus = "denied"
)

// AuditRecord is written once per authorization decision and never mutated.
type AuditRecord struct {
	ID        string      `json:"_id" bson:"_id"`
	UserID    string      `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Role      Role        `json:"role,omitempty" bson:"role,omitempty"`
	IP        string      `json:"ip" bson:"ip"`
	Path      string      `json:"path" bson:"path"`
	Resource  string      `json:"resource" bson:"resource"`
	Action    string      `json:"action" bson:"action"`
	Status    AuditStatus `json:"status" bson:"status"`
	Reason    string      `json:"reason" bson:"reason"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}
