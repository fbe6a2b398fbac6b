package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/docchat"
	"golang.org/x/time/rate"
)

var _ docchat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a request rate per host using one token bucket
// per host with a burst of 1. Hosts are limited independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each host.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
	}
}

// Wait implements docchat.DomainLimiter.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = l
	}
	return l
}

// waitURL waits on the limiter for rawURL's host. A nil limiter or an
// unparseable URL never waits.
func waitURL(ctx context.Context, l docchat.DomainLimiter, rawURL string) error {
	if l == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return l.Wait(ctx, u.Host)
}
