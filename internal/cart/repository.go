package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Repository stores carts as JSON blobs in Redis, one key per user.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

func (r *Repository) key(userID uuid.UUID) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// Get loads the user's cart, returning an empty cart when none exists.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return &Cart{UserID: userID, Items: []Item{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the whole cart back. Last writer wins.
func (r *Repository) Save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(c.UserID), data, r.ttl).Err()
}

// Clear removes the user's cart, typically after an order was placed from it.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}
