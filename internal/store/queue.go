package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
)

// Sender replays one pending op against the remote service. It must be
// idempotent under retry: a failed flush leaves already-sent ops in the
// queue and they will be sent again.
type Sender func(ctx context.Context, op model.PendingOp) error

// QueueStore is the append-only queue of item mutations performed while
// offline, persisted so it survives restarts.
type QueueStore struct {
	kv *kv.Store
}

func NewQueueStore(s *kv.Store) *QueueStore {
	return &QueueStore{kv: s}
}

// Load returns the queued ops in insertion order, empty when the slot is
// absent or corrupt.
func (q *QueueStore) Load() []model.PendingOp {
	return kv.Read(q.kv, keyQueue, []model.PendingOp{})
}

// Save overwrites the persisted queue.
func (q *QueueStore) Save(ops []model.PendingOp) {
	if ops == nil {
		ops = []model.PendingOp{}
	}
	kv.Write(q.kv, keyQueue, ops)
}

// Enqueue appends one op and persists.
func (q *QueueStore) Enqueue(op model.PendingOp) {
	q.Save(append(q.Load(), op))
}

// Flush replays every queued op through send in insertion order, one at a
// time. The queue is cleared only after every op succeeds; any failure is
// returned with the queue left intact so the caller can retry the whole
// flush later.
func (q *QueueStore) Flush(ctx context.Context, send Sender) error {
	ops := q.Load()
	if len(ops) == 0 {
		return nil
	}
	for _, op := range ops {
		if err := send(ctx, op); err != nil {
			return fmt.Errorf("send pending %s op: %w", op.Kind, err)
		}
	}
	q.Save(nil)
	return nil
}
