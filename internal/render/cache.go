package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle bounds the idle renderers kept per option set
const maxIdle = 4

// renderers hands out glamour renderers one caller at a time, since a
// TermRenderer must not be used concurrently. Returned renderers are kept
// idle per Options and reused by the next borrow.
type renderers struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var shared = &renderers{idle: make(map[Options][]*glamour.TermRenderer)}

func (r *renderers) borrow(opts Options) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	if free := r.idle[opts]; len(free) > 0 {
		tr := free[len(free)-1]
		r.idle[opts] = free[:len(free)-1]
		r.mu.Unlock()
		return tr, nil
	}
	r.mu.Unlock()

	return newTermRenderer(opts)
}

func (r *renderers) giveBack(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.idle[opts]) < maxIdle {
		r.idle[opts] = append(r.idle[opts], tr)
	}
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.Emoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.KeepNewlines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	tr, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return nil, fmt.Errorf("markdown style %q: %w", opts.Style, err)
	}
	return tr, nil
}

// Reset drops every idle renderer.
func Reset() {
	shared.mu.Lock()
	shared.idle = make(map[Options][]*glamour.TermRenderer)
	shared.mu.Unlock()
}

// IdleSets returns how many option sets currently have idle renderers.
func IdleSets() int {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	n := 0
	for _, free := range shared.idle {
		if len(free) > 0 {
			n++
		}
	}
	return n
}
