package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry represents an audit log entry for a sensitive dashboard action
// (report export, notification dispatch, manual check-in).
type Entry struct {
	ID           string
	Actor        string
	Role         string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     json.RawMessage
	IP           string
	UserAgent    string
	CreatedAt    time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}
