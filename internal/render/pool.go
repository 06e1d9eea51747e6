package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererKey identifies renderers that produce identical output
type rendererKey struct {
	opts Options
	wrap int
}

// rendererPool lends glamour renderers out one caller at a time; a TermRenderer
// must not render concurrently.
type rendererPool struct {
	mu    sync.Mutex
	pools map[rendererKey]*sync.Pool
}

var renderers = newRendererPool()

func newRendererPool() *rendererPool {
	return &rendererPool{pools: make(map[rendererKey]*sync.Pool)}
}

func (p *rendererPool) poolFor(key rendererKey) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[key]; ok {
		return pool
	}
	pool := &sync.Pool{
		New: func() interface{} {
			renderer, err := newRenderer(key)
			if err != nil {
				return nil
			}
			return renderer
		},
	}
	p.pools[key] = pool
	return pool
}

// borrow returns a renderer for key; the error comes from building a fresh one
// when the pool cannot
func (p *rendererPool) borrow(key rendererKey) (*glamour.TermRenderer, error) {
	if renderer, ok := p.poolFor(key).Get().(*glamour.TermRenderer); ok && renderer != nil {
		return renderer, nil
	}
	return newRenderer(key)
}

func (p *rendererPool) giveBack(key rendererKey, renderer *glamour.TermRenderer) {
	if renderer == nil {
		return
	}
	p.poolFor(key).Put(renderer)
}

// size is the number of distinct option sets seen so far
func (p *rendererPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools)
}

func newRenderer(key rendererKey) (*glamour.TermRenderer, error) {
	opts := key.opts

	styleOpt := glamour.WithStylePath(opts.Style)
	if IsStandardStyle(opts.Style) {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	rendererOpts := []glamour.TermRendererOption{
		styleOpt,
		glamour.WithWordWrap(key.wrap),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}
