package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	roomsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, roomsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		roomsTTL: roomsTTL,
	}
}

// AcquireRoomLock serializes create/confirm for a single room. The TTL
// bounds how long a crashed holder can block the room.
func (c *RedisCache) AcquireRoomLock(ctx context.Context, roomID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, roomLockKey(roomID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseRoomLock(ctx context.Context, roomID int64) error {
	return c.client.Del(ctx, roomLockKey(roomID)).Err()
}

func (c *RedisCache) GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, availableRoomsKey(checkIn, checkOut)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *RedisCache) SetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availableRoomsKey(checkIn, checkOut), payload, c.roomsTTL).Err()
}

// InvalidateAvailableRooms drops every cached availability listing. Called
// after any booking mutation; date-range keys make targeted eviction more
// trouble than it is worth at this scale.
func (c *RedisCache) InvalidateAvailableRooms(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:rooms:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("lock:room:%d", roomID)
}

func availableRoomsKey(checkIn, checkOut time.Time) string {
	return fmt.Sprintf("cache:rooms:%s:%s", checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
}
