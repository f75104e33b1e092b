package starlark

import (
	"sync"

	"go.starlark.net/starlark"
)

const defaultPoolSize = 10

// ThreadPool recycles Starlark threads between tag evaluations. The
// starlark templater shares one pool across every file it renders, so the
// pool is safe for concurrent use.
type ThreadPool struct {
	mu   sync.Mutex
	idle []*starlark.Thread
	max  int
}

// NewThreadPool creates a pool keeping at most max idle threads.
func NewThreadPool(max int) *ThreadPool {
	if max <= 0 {
		max = defaultPoolSize
	}
	return &ThreadPool{idle: make([]*starlark.Thread, 0, max), max: max}
}

// Get returns an idle thread, or a new one, named after file.
func (p *ThreadPool) Get(file string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.idle)
	if n == 0 {
		return newThread(file)
	}
	th := p.idle[n-1]
	p.idle = p.idle[:n-1]
	th.Name = file
	return th
}

// Put hands a thread back. It is dropped when the pool is full.
func (p *ThreadPool) Put(th *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) >= p.max {
		return
	}
	th.Name = ""
	p.idle = append(p.idle, th)
}

// Idle reports how many threads are waiting for reuse.
func (p *ThreadPool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

func newThread(file string) *starlark.Thread {
	return &starlark.Thread{
		Name: file,
		// print() in a tag has nowhere to go
		Print: func(*starlark.Thread, string) {},
	}
}
