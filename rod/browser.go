package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// restarted. Chrome memory grows with every page even after the page closes.
const DefaultMaxPages = 75

// browser owns one headless Chrome process and restarts it after maxPages
// renders.
type browser struct {
	mu       sync.Mutex
	current  *rod.Browser
	launcher *launcher.Launcher
	rendered int
	maxPages int
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return b, l, nil
}

func newBrowser(maxPages int) (*browser, error) {
	b, l, err := launch()
	if err != nil {
		return nil, err
	}
	return &browser{current: b, launcher: l, maxPages: maxPages}, nil
}

// acquire returns the browser to render the next page with, restarting it
// first when the page budget is spent. A failed restart keeps the old one.
func (b *browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil, errClosed
	}
	if b.maxPages > 0 && b.rendered >= b.maxPages {
		if next, l, err := launch(); err == nil {
			_ = b.current.Close()
			b.launcher.Kill()
			b.current, b.launcher, b.rendered = next, l, 0
		}
	}
	b.rendered++
	return b.current, nil
}

// pid returns the launcher process id, or zero once closed.
func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.current != nil {
		err = b.current.Close()
		b.current = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}
