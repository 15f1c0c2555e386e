package llm

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrAllKeysInvalid means every configured credential was rejected during
// one probe sequence. Batch-fatal for the caller.
var ErrAllKeysInvalid = errors.New("all API keys are invalid or rate-limited")

const (
	keyTTL       = 20 * time.Minute
	probeTimeout = 5 * time.Second
)

// Prober validates a single API key against the completion service.
type Prober interface {
	Ping(ctx context.Context, apiKey string) error
}

// KeyPool caches which of the configured API keys is currently usable.
// A validated key is trusted for keyTTL before being re-probed, trading a
// bounded staleness window for skipping a validation round-trip per batch.
type KeyPool struct {
	keys   []string
	prober Prober

	mu        sync.Mutex
	active    string
	checkedAt time.Time
	now       func() time.Time
}

func NewKeyPool(keys []string, prober Prober) *KeyPool {
	return &KeyPool{
		keys:   keys,
		prober: prober,
		now:    time.Now,
	}
}

// ActiveKey returns the cached key if it was validated less than the TTL
// ago, otherwise probes the configured keys sequentially and caches the
// first one the completion service accepts. The list is probed once per
// invocation; total rejection resets the cache and returns
// ErrAllKeysInvalid.
func (p *KeyPool) ActiveKey(ctx context.Context, forceRefresh bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != "" && !forceRefresh && p.now().Sub(p.checkedAt) < keyTTL {
		return p.active, nil
	}

	for _, key := range p.keys {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.prober.Ping(probeCtx, key)
		cancel()
		if err == nil {
			p.active = key
			p.checkedAt = p.now()
			log.Printf("Using API key: %s*****", maskKey(key))
			return key, nil
		}
		log.Printf("API key %s**** is invalid or rate-limited, checking next... (%v)", maskKey(key), err)
	}

	p.active = ""
	p.checkedAt = time.Time{}
	log.Println("All API keys are invalid or rate-limited.")
	return "", ErrAllKeysInvalid
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8]
}
