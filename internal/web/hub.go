package web

import "sync"

// resourceHub fans a "something changed" signal out to every open stream for
// one tree. Subscribers re-render on their own; the signal carries no data.
type resourceHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newResourceHub() *resourceHub {
	return &resourceHub{subs: map[chan struct{}]struct{}{}}
}

func (h *resourceHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *resourceHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *resourceHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// broadcaster owns one hub per tree id.
type broadcaster struct {
	mu   sync.Mutex
	hubs map[string]*resourceHub
}

func newBroadcaster() *broadcaster {
	return &broadcaster{hubs: map[string]*resourceHub{}}
}

func (b *broadcaster) hubFor(treeID string) *resourceHub {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.hubs[treeID]
	if h == nil {
		h = newResourceHub()
		b.hubs[treeID] = h
	}
	return h
}

func (b *broadcaster) broadcast(treeID string) {
	b.hubFor(treeID).broadcast()
}

// broadcastAll is used when the database changed underneath us and we can't
// tell which tree was touched.
func (b *broadcaster) broadcastAll() {
	b.mu.Lock()
	hubs := make([]*resourceHub, 0, len(b.hubs))
	for _, h := range b.hubs {
		hubs = append(hubs, h)
	}
	b.mu.Unlock()
	for _, h := range hubs {
		h.broadcast()
	}
}
