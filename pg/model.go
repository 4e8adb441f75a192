package pg

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

var _ bun.BeforeAppendModelHook = (*BaseModel)(nil)

// BaseModel carries created/updated timestamps for embedding in entities.
// The append hook keeps them current, so entities never set these by hand.
type BaseModel struct {
	CreatedAt time.Time `bun:",nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero" json:"updated_at"`
}

// BeforeAppendModel stamps the timestamps right before a query is built:
// inserts set both fields, updates touch only UpdatedAt.
func (m *BaseModel) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now()

	switch query.(type) {
	case *bun.InsertQuery:
		m.CreatedAt = now
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}

	return nil
}
