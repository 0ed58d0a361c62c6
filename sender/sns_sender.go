package sender

import (
	"context"
	"encoding/json"

	"github.com/blossom2016/stripeConnect/models"
	aws_pkg "github.com/blossom2016/stripeConnect/pkg/aws"
)

// SNSSender publishes notifications as JSON to an SNS topic.
type SNSSender struct {
	publisher aws_pkg.SNSPublisher
	topicArn  string
}

func NewSNSSender(publisher aws_pkg.SNSPublisher, topicArn string) *SNSSender {
	return &SNSSender{publisher: publisher, topicArn: topicArn}
}

func (s *SNSSender) Name() string { return "sns" }

func (s *SNSSender) Notify(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, s.topicArn, payload)
}
