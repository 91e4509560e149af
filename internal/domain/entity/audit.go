package entity

import "time"

// AuditEntry is one append-only row in the action log. Entries are never
// mutated or deleted once written.
type AuditEntry struct {
	UID     string         `firestore:"uid" json:"uid"`
	Action  string         `firestore:"accion" json:"accion"`
	Details map[string]any `firestore:"detalles" json:"detalles"`
	Date    time.Time      `firestore:"fecha" json:"fecha"`
}
