package gradestream

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
)

const maxStreamLength = 10000

var _ secondary.GradePublisher = (*Publisher)(nil)

// Publisher appends grade events to a Redis stream.
type Publisher struct {
	redisClient *redis.Client
	stream      string
	logger      primary.Logger
}

func NewPublisher(redisClient *redis.Client, stream string, logger primary.Logger) *Publisher {
	return &Publisher{
		redisClient: redisClient,
		stream:      stream,
		logger:      logger,
	}
}

// PublishGrade adds one entry per event; the stream is trimmed to roughly
// maxStreamLength entries.
func (p *Publisher) PublishGrade(ctx context.Context, event *domain.GradeEvent) error {
	id, err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLength,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"report_id":   event.ReportID.String(),
			"template_id": event.TemplateID,
			"user_id":     event.UserID,
			"language":    event.Language.String(),
			"pass_rate":   event.PassRate,
			"passed":      event.Passed,
			"total":       event.Total,
			"created_at":  event.CreatedAt.Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish grade event: %w", err)
	}

	p.logger.Debug("Published grade event", "stream", p.stream, "entryId", id, "reportId", event.ReportID)
	return nil
}
