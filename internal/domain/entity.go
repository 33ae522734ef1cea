package domain

// Base carries the identity and timestamp columns shared by every table.
// Timestamps are unix seconds; UpdatedAt stays 0 until the first update.
type Base struct {
	ID        int64 `json:"id"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// EntityID returns the surrogate primary key.
func (b *Base) EntityID() int64 { return b.ID }

// SetEntityID assigns the surrogate primary key after an insert.
func (b *Base) SetEntityID(id int64) { b.ID = id }

// StampCreated records the creation time unless one is already set.
func (b *Base) StampCreated(now int64) {
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
}

// StampUpdated records the modification time.
func (b *Base) StampUpdated(now int64) { b.UpdatedAt = now }

func baseColumns() []string { return []string{"id", "created_at", "updated_at"} }
