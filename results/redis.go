package results

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/simple-rl/types"
)

// RedisRecorder pushes the results to redis so that they can be followed
// from outside the process. Episode records are pushed as json to the list
// <prefix>:episodes:<agent> and times are stored in the hash <prefix>:times.
type RedisRecorder struct {
	Prefix string

	ctx    context.Context
	client *redis.Client
}

var _ types.Recorder = &RedisRecorder{}

// NewRedisRecorder connects to addr and clears the keys of an earlier run
// with the same prefix
func NewRedisRecorder(ctx context.Context, addr, prefix string) (*RedisRecorder, error) {
	r, err := OpenRedisResults(ctx, addr, prefix)
	if err != nil {
		return nil, err
	}
	client := r.client
	keys, err := client.Keys(ctx, prefix+":*").Result()
	if err != nil {
		client.Close()
		return nil, err
	}
	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			client.Close()
			return nil, err
		}
	}
	return r, nil
}

// OpenRedisResults connects to addr to read the results stored under prefix
func OpenRedisResults(ctx context.Context, addr, prefix string) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisRecorder{
		Prefix: prefix,
		ctx:    ctx,
		client: client,
	}, nil
}

func (r *RedisRecorder) EpisodesKey(agent string) string {
	return r.Prefix + ":episodes:" + agent
}

func (r *RedisRecorder) TimesKey() string {
	return r.Prefix + ":times"
}

func (r *RedisRecorder) StatusKey() string {
	return r.Prefix + ":status"
}

func encodeRecord(rec types.EpisodeRecord) (string, error) {
	bs, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func (r *RedisRecorder) Record(rec types.EpisodeRecord) error {
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return r.client.RPush(r.ctx, r.EpisodesKey(rec.Agent), val).Err()
}

func (r *RedisRecorder) RecordTime(agent string, elapsed time.Duration) error {
	return r.client.HSet(r.ctx, r.TimesKey(), agent, elapsed.Seconds()).Err()
}

// Finalize marks the run as finished and closes the connection
func (r *RedisRecorder) Finalize() error {
	err := r.client.Set(r.ctx, r.StatusKey(), "finished", 0).Err()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// Episodes reads back the records of the agent
func (r *RedisRecorder) Episodes(agent string) ([]types.EpisodeRecord, error) {
	vals, err := r.client.LRange(r.ctx, r.EpisodesKey(agent), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]types.EpisodeRecord, len(vals))
	for i, v := range vals {
		if err := json.Unmarshal([]byte(v), &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Agents lists the agents with stored records
func (r *RedisRecorder) Agents() ([]string, error) {
	pattern := r.EpisodesKey("*")
	keys, err := r.client.Keys(r.ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	agents := make([]string, len(keys))
	for i, k := range keys {
		agents[i] = strings.TrimPrefix(k, r.EpisodesKey(""))
	}
	sort.Strings(agents)
	return agents, nil
}

// Status is "finished" once the run completed, empty otherwise
func (r *RedisRecorder) Status() (string, error) {
	status, err := r.client.Get(r.ctx, r.StatusKey()).Result()
	if err == redis.Nil {
		return "", nil
	}
	return status, err
}

// Times reads back the recorded times in seconds
func (r *RedisRecorder) Times() (map[string]float64, error) {
	vals, err := r.client.HGetAll(r.ctx, r.TimesKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(vals))
	for agent, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		out[agent] = f
	}
	return out, nil
}

// Close closes the connection without marking the run finished
func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
