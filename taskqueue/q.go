// Package taskqueue runs items through a fixed pool of workers.
package taskqueue

import "sync"

type WorkerFunc[T any] func(*Q[T], T) error

type I[T any] struct {
	job  WorkerFunc[T]
	item T
}

type Q[T any] struct {
	c      chan I[T]
	wg     sync.WaitGroup
	worker WorkerFunc[T]

	errMu sync.Mutex
	err   error
}

func NewQ[T any](workerCount int, chanSize int, worker WorkerFunc[T]) (q *Q[T]) {
	if worker == nil {
		panic("worker cannot be nil")
	}
	if workerCount <= 0 {
		panic("workerCount must be at least 1")
	}

	q = &Q[T]{
		c:      make(chan I[T], chanSize),
		worker: worker,
	}

	for n := 0; n < workerCount; n++ {
		go func() {
			for i := range q.c {
				q.runJob(i)
			}
		}()
	}

	return
}

func (q *Q[T]) runJob(i I[T]) {
	defer q.wg.Done()
	// once a job has failed the rest are drained without running
	if q.Err() != nil {
		return
	}
	if err := i.job(q, i.item); err != nil {
		q.errMu.Lock()
		if q.err == nil {
			q.err = err
		}
		q.errMu.Unlock()
	}
}

func (q *Q[T]) SubmitItem(item T) {
	q.wg.Add(1)
	q.c <- I[T]{q.worker, item}
}

func (q *Q[T]) SubmitJob(item T, job WorkerFunc[T]) {
	q.wg.Add(1)
	q.c <- I[T]{job, item}
}

// Err returns the first error any job returned.
func (q *Q[T]) Err() error {
	q.errMu.Lock()
	defer q.errMu.Unlock()
	return q.err
}

// Wait blocks until every submitted job has finished and returns the first
// error.
func (q *Q[T]) Wait() error {
	q.wg.Wait()
	return q.Err()
}

func (q *Q[T]) Close() {
	close(q.c)
}
