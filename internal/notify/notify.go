// Package notify pushes per-user processing events over redis pub/sub.
// Delivery is fire-and-forget: a subscriber that is not listening simply
// misses the event and falls back to polling.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	EventProcessed        = "resume_processed"
	EventProcessingFailed = "resume_processing_failed"
)

// Event is the payload published on user channels.
type Event struct {
	Type           string   `json:"type"`
	ResumeID       string   `json:"resume_id"`
	Status         string   `json:"status"`
	ProcessingTime *float64 `json:"processing_time,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, userID string, ev Event)
}

type RedisNotifier struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewRedisNotifier(rdb *redis.Client, log *logrus.Logger) *RedisNotifier {
	if log == nil {
		log = logrus.New()
	}
	return &RedisNotifier{rdb: rdb, log: log}
}

// UserChannel is the pub/sub channel carrying one user's resume events.
func UserChannel(userID string) string {
	return "user:" + userID + ":resumes"
}

func (n *RedisNotifier) Notify(ctx context.Context, userID string, ev Event) {
	if userID == "" {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.WithError(err).Warn("failed to marshal notification")
		return
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), string(payload)).Err(); err != nil {
		n.log.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"resume_id": ev.ResumeID,
		}).Warn("failed to publish notification")
	}
}
