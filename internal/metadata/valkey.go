package metadata

import (
	"context"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyCache implements Cache on a Valkey server so cached genre lists
// survive restarts.
type ValkeyCache struct {
	c valkey.Client
}

// NewValkeyCache connects to addr. The client dials eagerly, so an
// unreachable server fails here.
func NewValkeyCache(addr, password string) (*ValkeyCache, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Username = "default"
		opts.Password = password
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &ValkeyCache{c: client}, nil
}

func (v *ValkeyCache) Get(ctx context.Context, key string) (string, bool) {
	res := v.c.Do(ctx, v.c.B().Get().Key(key).Build())
	if err := res.Error(); err != nil {
		return "", false
	}
	str, err := res.ToString()
	if err != nil {
		return "", false
	}
	return str, true
}

func (v *ValkeyCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl > 0 {
		return v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).ExSeconds(int64(ttl/time.Second)).Build()).Error()
	}
	return v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).Build()).Error()
}

func (v *ValkeyCache) Delete(ctx context.Context, key string) error {
	return v.c.Do(ctx, v.c.B().Del().Key(key).Build()).Error()
}

// Close releases the client connections.
func (v *ValkeyCache) Close() {
	v.c.Close()
}
