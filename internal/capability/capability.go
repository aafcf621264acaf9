package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	t "siteforge/internal/types"
)

// Discoverer returns the capability set for one platform instance.
type Discoverer interface {
	Discover(ctx context.Context, instanceID string) (*t.CapabilitySet, error)
}

const cacheTTL = 10 * time.Minute

type cached struct {
	set *t.CapabilitySet
	at  time.Time
}

// Client fetches capability sets from the platform provider and caches them
// per instance. The discovered set is read-only ground truth for a run.
type Client struct {
	base  string
	httpc *http.Client

	mu    sync.Mutex
	cache *lru.Cache[string, cached]
}

func NewClient(baseURL string) (*Client, error) {
	c, err := lru.New[string, cached](128)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:  baseURL,
		httpc: &http.Client{Timeout: 30 * time.Second},
		cache: c,
	}, nil
}

func (c *Client) Discover(ctx context.Context, instanceID string) (*t.CapabilitySet, error) {
	c.mu.Lock()
	if e, ok := c.cache.Get(instanceID); ok && time.Since(e.at) < cacheTTL {
		c.mu.Unlock()
		return e.set, nil
	}
	c.mu.Unlock()

	url := fmt.Sprintf("%s/instances/%s/capabilities", c.base, instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capability discovery: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capability discovery: status %d for instance %s", resp.StatusCode, instanceID)
	}

	var set t.CapabilitySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("capability discovery: decode: %w", err)
	}
	if len(set.AvailableBlocks) == 0 {
		return nil, fmt.Errorf("capability discovery: instance %s reports no blocks", instanceID)
	}

	c.mu.Lock()
	c.cache.Add(instanceID, cached{set: &set, at: time.Now()})
	c.mu.Unlock()
	return &set, nil
}

// Static wraps a fixed capability set; used by tests and offline runs.
type Static struct{ Set *t.CapabilitySet }

func (s Static) Discover(ctx context.Context, instanceID string) (*t.CapabilitySet, error) {
	return s.Set, nil
}
