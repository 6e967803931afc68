package offline

import (
	"context"
	"sync"
	"time"
)

// HealthChecker answers whether the server is reachable right now.
type HealthChecker interface {
	Health(ctx context.Context) error
}

const defaultProbeInterval = 10 * time.Second

// Prober derives a connectivity signal by polling the server's health
// endpoint. It implements Signal: subscribers hear every flip between
// reachable and unreachable.
type Prober struct {
	checker  HealthChecker
	interval time.Duration

	mu          sync.Mutex
	online      bool
	seeded      bool
	subscribers map[int]func(online bool)
	nextID      int

	stopCh    chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewProber builds a prober over checker. interval <= 0 falls back to the
// 10 second default.
func NewProber(checker HealthChecker, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &Prober{
		checker:     checker,
		interval:    interval,
		subscribers: make(map[int]func(online bool)),
		stopCh:      make(chan struct{}),
	}
}

// Start performs one immediate probe to seed the state, then keeps probing
// in the background until Close.
func (p *Prober) Start() {
	p.startOnce.Do(func() {
		p.probe()
		p.wg.Add(1)
		go p.loop()
	})
}

// Close stops the probe loop.
func (p *Prober) Close() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
	})
}

// Online reports the result of the most recent probe.
func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Subscribe registers fn for connectivity flips. The returned function
// removes the subscription.
func (p *Prober) Subscribe(fn func(online bool)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

func (p *Prober) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.probe()
		case <-p.stopCh:
			return
		}
	}
}

func (p *Prober) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	online := p.checker.Health(ctx) == nil

	p.mu.Lock()
	// The first probe establishes the baseline; only later flips count as
	// transitions.
	changed := p.seeded && online != p.online
	p.seeded = true
	p.online = online
	var fns []func(online bool)
	if changed {
		fns = make([]func(online bool), 0, len(p.subscribers))
		for _, fn := range p.subscribers {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}
