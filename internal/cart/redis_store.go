package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shopsmith/storefront/internal/models"
)

// RedisPort persists the cart as a JSON blob under the fixed StorageKey.
// No TTL: the cart survives until it is overwritten or cleared.
type RedisPort struct {
	client *redis.Client
}

func NewRedisPort(client *redis.Client) *RedisPort {
	return &RedisPort{client: client}
}

func (r *RedisPort) Load(ctx context.Context) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, StorageKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}

		return nil, fmt.Errorf("loading cart from redis: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing persisted cart: %w", err)
	}

	return items, nil
}

func (r *RedisPort) Save(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}

	if err := r.client.Set(ctx, StorageKey, data, 0).Err(); err != nil {
		return fmt.Errorf("saving cart to redis: %w", err)
	}

	return nil
}
