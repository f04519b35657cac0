// Package proxy provides rotating outbound egress selection. The pool is
// partitioned into disjoint bands so the quote, swap and discovery paths
// never contend for the same egress identities.
package proxy

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// Band index ranges within the pool. Requests fall back to a direct
// connection when the pool is too short to populate a band.
const (
	quoteBandStart     = 0
	quoteBandEnd       = 20
	swapBandStart      = 20
	swapBandEnd        = 40
	discoveryBandStart = 40
	discoveryBandEnd   = 50
)

// Pool holds the full proxy list. Selection methods return freshly shuffled
// bands so consecutive retrievals spread load differently. The pool performs
// no network calls itself.
type Pool struct {
	proxies []*url.URL
}

// NewPool parses the given proxy URLs. Unparseable entries are dropped.
func NewPool(proxyURLs []string) *Pool {
	p := &Pool{}
	for _, raw := range proxyURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		p.proxies = append(p.proxies, u)
	}
	return p
}

// Len returns the number of usable proxies.
func (p *Pool) Len() int { return len(p.proxies) }

// Band is a shuffled slice of egress identities. Pick is round-robin by
// logical request index; a nil result means "go direct".
type Band []*url.URL

// Pick selects the proxy for the i-th logical request of a batch.
func (b Band) Pick(i int) *url.URL {
	if len(b) == 0 {
		return nil
	}
	return b[i%len(b)]
}

// QuoteBand returns the band used for quote fetches.
func (p *Pool) QuoteBand() Band { return p.band(quoteBandStart, quoteBandEnd) }

// SwapBand returns the band used for execution-transaction fetches.
func (p *Pool) SwapBand() Band { return p.band(swapBandStart, swapBandEnd) }

// DiscoveryBand returns the band used for recent-token polls.
func (p *Pool) DiscoveryBand() Band { return p.band(discoveryBandStart, discoveryBandEnd) }

// band copies and shuffles the [start, end) slice of the pool, clamped to
// the pool size.
func (p *Pool) band(start, end int) Band {
	if start >= len(p.proxies) {
		return nil
	}
	if end > len(p.proxies) {
		end = len(p.proxies)
	}

	band := make(Band, end-start)
	copy(band, p.proxies[start:end])
	rand.Shuffle(len(band), func(i, j int) {
		band[i], band[j] = band[j], band[i]
	})
	return band
}

// HTTPClient builds an HTTP client routed through the given proxy. A nil
// proxy yields a direct client.
func HTTPClient(proxyURL *url.URL, timeout time.Duration) *http.Client {
	c := &http.Client{Timeout: timeout}
	if proxyURL != nil {
		c.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return c
}
