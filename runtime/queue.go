package runtime

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// TaskQueue is a FIFO queue of callback labels.
type TaskQueue struct {
	name string
	q    *linkedlistqueue.Queue
}

// NewTaskQueue creates an empty, named queue. The name is used for tracing.
func NewTaskQueue(name string) *TaskQueue {
	return &TaskQueue{name: name, q: linkedlistqueue.New()}
}

// Enqueue appends a label.
func (tq *TaskQueue) Enqueue(label string) {
	tq.q.Enqueue(label)
	tracer().P("queue", tq.name).Debugf("enqueue %s, length %d", label, tq.q.Size())
}

// Dequeue removes and returns the head label.
func (tq *TaskQueue) Dequeue() (string, bool) {
	v, ok := tq.q.Dequeue()
	if !ok {
		return "", false
	}
	tracer().P("queue", tq.name).Debugf("dequeue %s, length %d", v, tq.q.Size())
	return v.(string), true
}

// Peek returns the head label without removing it.
func (tq *TaskQueue) Peek() (string, bool) {
	v, ok := tq.q.Peek()
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of queued labels.
func (tq *TaskQueue) Len() int {
	return tq.q.Size()
}

// Empty is a predicate for an empty queue.
func (tq *TaskQueue) Empty() bool {
	return tq.q.Empty()
}

// Labels returns a copy of the queued labels, head first.
func (tq *TaskQueue) Labels() []string {
	values := tq.q.Values()
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.(string)
	}
	return labels
}
