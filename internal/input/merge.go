package input

import (
	"context"
	"errors"
	"sync"
)

// MultiSource fans several sources into one channel. Keys() closes when
// every source has closed or Stop was called.
type MultiSource struct {
	sources []Source
	ch      chan Key
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func Merge(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources, ch: make(chan Key), done: make(chan struct{})}
}

// Start starts every source. On failure the ones already started are stopped.
func (m *MultiSource) Start(ctx context.Context) error {
	for i, src := range m.sources {
		if err := src.Start(ctx); err != nil {
			for _, started := range m.sources[:i] {
				_ = started.Stop()
			}
			return err
		}
	}
	for _, src := range m.sources {
		m.wg.Add(1)
		go m.forward(src.Keys())
	}
	go func() {
		m.wg.Wait()
		close(m.ch)
	}()
	return nil
}

func (m *MultiSource) forward(keys <-chan Key) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			select {
			case m.ch <- key:
			case <-m.done:
				return
			}
		}
	}
}

func (m *MultiSource) Stop() error {
	m.once.Do(func() { close(m.done) })
	var errs []error
	for _, src := range m.sources {
		errs = append(errs, src.Stop())
	}
	return errors.Join(errs...)
}

func (m *MultiSource) Keys() <-chan Key { return m.ch }
