package audit

import (
	"context"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const StreamRedisKey = "graph_audit_events"

// RedisLog appends events to a Redis stream so that external consumers can
// tail the mutation history.
type RedisLog struct {
	redisClient *redis.Client
	maxLen      int64
}

func NewRedisLog(redisConnection *redis.Client, maxLen int64) *RedisLog {
	return &RedisLog{
		redisClient: redisConnection,
		maxLen:      maxLen,
	}
}

func (l *RedisLog) Append(event Event) {
	ctx := context.Background()
	err := l.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamRedisKey,
		MaxLen: l.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":    event.Kind,
			"actor":   event.Actor,
			"subject": event.Subject,
			"value":   event.Value,
			"time":    event.Time.UnixMilli(),
		},
	}).Err()
	if err != nil {
		log.Errorf("Error appending audit event to stream: %v", err)
	}
}
