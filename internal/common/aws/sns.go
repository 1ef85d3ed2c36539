// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sponsormatch-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	EventMatchesGenerated = "matches.generated"
	EventMatchAccepted    = "match.accepted"
)

var ErrEventPublishFailed = errors.New("EVENT_PUBLISH_FAILED")

// SNSService is the subset of the SNS client used for publishing.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// NewSNSClient builds an SNS client from the default credential chain.
func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

// Event is the envelope of every published message.
type Event struct {
	Type       string      `json:"eventType"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type MatchesGeneratedPayload struct {
	EntityType models.EntityType `json:"entityType"`
	EntityID   string            `json:"entityId"`
	MatchCount int               `json:"matchCount"`
	MatchIDs   []string          `json:"matchIds"`
	TopScore   int               `json:"topScore"`
}

type MatchAcceptedPayload struct {
	MatchID     string `json:"matchId"`
	BrandID     string `json:"brandId"`
	OrganizerID string `json:"organizerId"`
	Score       int    `json:"score"`
}

// EventPublisher sends match domain events to one SNS topic. A publisher
// without a topic drops every event.
type EventPublisher struct {
	client   SNSService
	topicARN string
	now      func() time.Time
}

func NewEventPublisher(client SNSService, topicARN string) *EventPublisher {
	return &EventPublisher{
		client:   client,
		topicARN: topicARN,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *EventPublisher) Enabled() bool {
	return p != nil && p.client != nil && p.topicARN != ""
}

func (p *EventPublisher) PublishMatchesGenerated(ctx context.Context, entityType models.EntityType, entityID string, matches []models.MatchView) error {
	payload := MatchesGeneratedPayload{
		EntityType: entityType,
		EntityID:   entityID,
		MatchCount: len(matches),
		MatchIDs:   make([]string, len(matches)),
	}
	for i, m := range matches {
		payload.MatchIDs[i] = m.ID
		if m.Score > payload.TopScore {
			payload.TopScore = m.Score
		}
	}
	return p.publish(ctx, EventMatchesGenerated, entityID, payload)
}

func (p *EventPublisher) PublishMatchAccepted(ctx context.Context, m *models.Match) error {
	return p.publish(ctx, EventMatchAccepted, m.ID, MatchAcceptedPayload{
		MatchID:     m.ID,
		BrandID:     m.BrandID,
		OrganizerID: m.OrganizerID,
		Score:       m.Score,
	})
}

func (p *EventPublisher) publish(ctx context.Context, eventType, subject string, payload interface{}) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now(), Payload: payload})
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrEventPublishFailed, eventType, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
			"subject":   {DataType: aws.String("String"), StringValue: aws.String(subject)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEventPublishFailed, eventType, err)
	}
	return nil
}
