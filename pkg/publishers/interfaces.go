package publishers

import "context"

// Publisher sends lead changes to a downstream sink (SQS, SNS, HTTP, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt LeadChange) error
}
