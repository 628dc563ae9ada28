package oms

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"github.com/joripage/matching-engine/pkg/oms/model"
)

// reportQueue buffers order reports for the gateway. A single drain goroutine
// preserves the order reports were enqueued in, so clients never see an
// execution report ahead of the New that admitted the order.
type reportQueue struct {
	mu      sync.Mutex
	pending deque.Deque[model.Order]
	signal  chan struct{}
	deliver func(ctx context.Context, order model.Order)
}

func newReportQueue(deliver func(ctx context.Context, order model.Order)) *reportQueue {
	return &reportQueue{
		signal:  make(chan struct{}, 1),
		deliver: deliver,
	}
}

func (q *reportQueue) enqueue(order model.Order) {
	q.mu.Lock()
	q.pending.PushBack(order)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *reportQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.signal:
		}

		for {
			q.mu.Lock()
			if q.pending.Len() == 0 {
				q.mu.Unlock()
				break
			}
			order := q.pending.PopFront()
			q.mu.Unlock()

			q.deliver(ctx, order)
		}
	}
}
