// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS rejects subjects longer than this.
const maxSubjectRunes = 100

// TopicAPI is the slice of the SNS client the notifier needs.
type TopicAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes messages to one topic.
type Notifier struct {
	api      TopicAPI
	topicARN string
}

func NewNotifier(api TopicAPI, topicARN string) *Notifier {
	return &Notifier{api: api, topicARN: topicARN}
}

func NewSNSNotifier(ctx context.Context, region, topicARN string) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewNotifier(sns.NewFromConfig(cfg), topicARN), nil
}

// Publish sends message to the topic and returns the SNS message id.
func (n *Notifier) Publish(ctx context.Context, subject, message string) (string, error) {
	if n.topicARN == "" {
		return "", fmt.Errorf("sns: no topic configured")
	}
	out, err := n.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(truncateSubject(subject)),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("sns publish to %s: %w", n.topicARN, err)
	}
	return aws.ToString(out.MessageId), nil
}

func truncateSubject(s string) string {
	if utf8.RuneCountInString(s) <= maxSubjectRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxSubjectRunes])
}
