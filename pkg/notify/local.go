package notify

import "sync"

type local struct {
	subs   map[int]func(c *Change)
	nextID int
	closed bool
	sync.RWMutex
}

// NewLocal returns an in-process Interface. Subscribers are called
// synchronously from Publish and must not block.
func NewLocal() Interface {
	return &local{
		subs: make(map[int]func(c *Change)),
	}
}

func (l *local) Publish(c *Change) error {
	l.RLock()
	defer l.RUnlock()

	for _, fn := range l.subs {
		fn(c)
	}

	return nil
}

func (l *local) Subscribe(fn func(c *Change)) (func(), error) {
	l.Lock()
	defer l.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	id := l.nextID
	l.nextID++
	l.subs[id] = fn

	return func() {
		l.Lock()
		delete(l.subs, id)
		l.Unlock()
	}, nil
}

func (l *local) Close() {
	l.Lock()
	l.closed = true
	l.subs = make(map[int]func(c *Change))
	l.Unlock()
}
