package storage

import (
	"context"
	"errors"
)

// DefaultKey is the slot key used by the editor since its first release.
const DefaultKey = "btp-planning-data"

// ErrSlotEmpty is returned by Get when nothing has been stored yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single durable key-value cell holding one serialized snapshot.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, data []byte) error
	// Delete removes the value. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}
