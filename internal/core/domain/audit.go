package domain

import "time"

// AuditEventType classifies an authentication audit record.
type AuditEventType string

const (
	AuditAccountRegistered AuditEventType = "account_registered"
	AuditLoginSucceeded    AuditEventType = "login_succeeded"
	AuditLoginFailed       AuditEventType = "login_failed"
	AuditLoginThrottled    AuditEventType = "login_throttled"
	AuditAccountDeleted    AuditEventType = "account_deleted"
)

// AuditEvent records an authentication-relevant action.
type AuditEvent struct {
	Type      AuditEventType
	Login     string
	AccountID int32     // zero when unknown
	ActorID   *int32    // set for operations performed by an authenticated caller
	Partition Partition
	At        time.Time
}
