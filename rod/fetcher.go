// Package rod implements docchat.Fetcher with headless Chrome for
// documentation sites that render their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 30 * time.Second

var errClosed = docchat.Errorf(docchat.EINVALID, "fetcher closed")

// Ensure Fetcher implements docchat.Fetcher at compile time.
var _ docchat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *browser
	timeout  time.Duration
	maxPages int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser restarts.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser, downloading it if needed.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}

	b, err := newBrowser(f.maxPages)
	if err != nil {
		return nil, docchat.Errorf(docchat.EUNAVAILABLE, "start browser: %v", err)
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to url, waits for the page to load and returns the
// rendered HTML with open shadow roots serialized inline.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := f.browser.acquire()
	if err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", docchat.Errorf(docchat.EUNAVAILABLE, "open page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	res, err := page.Eval(serializeDOM)
	if err != nil {
		return "", fetchError(ctx, url, err)
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.browser.close()
}

// LauncherPID returns the browser launcher's process id, or zero once the
// fetcher is closed.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// fetchError keeps context errors unwrapped so callers can tell a timeout
// from a failed page.
func fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(err, ctxErr) || errors.Is(ctxErr, context.DeadlineExceeded)) {
		return ctxErr
	}
	return docchat.Errorf(docchat.EUNAVAILABLE, "render %s: %v", url, err)
}

// serializeDOM returns the document HTML, inlining open shadow roots as
// template elements so links inside web components are visible.
const serializeDOM = `() => {
	const voids = new Set(['area', 'base', 'br', 'col', 'embed', 'hr', 'img', 'input', 'link', 'meta', 'source', 'track', 'wbr']);
	const raw = new Set(['script', 'style']);
	const serialize = (node) => {
		if (node.nodeType === Node.TEXT_NODE) {
			if (node.parentNode && raw.has(node.parentNode.nodeName.toLowerCase())) {
				return node.textContent;
			}
			return node.textContent.replace(/&/g, '&amp;').replace(/</g, '&lt;').replace(/>/g, '&gt;');
		}
		if (node.nodeType !== Node.ELEMENT_NODE) {
			return '';
		}
		const tag = node.tagName.toLowerCase();
		let attrs = '';
		for (const a of node.attributes) {
			attrs += ' ' + a.name + '="' + a.value.replace(/&/g, '&amp;').replace(/"/g, '&quot;') + '"';
		}
		if (voids.has(tag)) {
			return '<' + tag + attrs + '>';
		}
		let inner = '';
		if (node.shadowRoot) {
			inner += '<template shadowrootmode="open">';
			for (const c of node.shadowRoot.childNodes) inner += serialize(c);
			inner += '</template>';
		}
		const children = tag === 'template' ? node.content.childNodes : node.childNodes;
		for (const c of children) inner += serialize(c);
		return '<' + tag + attrs + '>' + inner + '</' + tag + '>';
	};
	return '<!DOCTYPE html>' + serialize(document.documentElement);
}`
