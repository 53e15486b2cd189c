package persist

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"haishublog/internal/store"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotKey = "haishublog:snapshot"

// RedisPersister 把整个快照作为一个 JSON value 存在单个 key 下
type RedisPersister struct {
	client *redis.Client
	key    string
}

func NewRedisPersister(addr string) (*RedisPersister, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Println("Redis connected successfully")

	return &RedisPersister{client: client, key: defaultSnapshotKey}, nil
}

func (p *RedisPersister) Save(snap *store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.client.Set(ctx, p.key, data, 0).Err()
}

func (p *RedisPersister) Load() (*store.Snapshot, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := p.client.Get(ctx, p.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (p *RedisPersister) Close() error {
	return p.client.Close()
}
