package events

import "sync"

type notification struct {
	Kind    string
	Message string
	prev    *notification
}

type buffer struct {
	lock sync.Mutex
	head *notification
	tail *notification
	size int
}

func newBuffer() *buffer {
	return &buffer{}
}

func (b *buffer) PushBack(n *notification) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.head == nil {
		b.head = n
		b.tail = n
	} else {
		b.tail.prev = n
		b.tail = n
	}
	b.size++
}

// PopAll unlinks and returns the whole buffer in insertion order.
func (b *buffer) PopAll() []*notification {
	b.lock.Lock()
	defer b.lock.Unlock()

	out := make([]*notification, 0, b.size)
	for n := b.head; n != nil; n = n.prev {
		out = append(out, n)
	}
	b.head = nil
	b.tail = nil
	b.size = 0
	return out
}

func (b *buffer) Size() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.size
}
