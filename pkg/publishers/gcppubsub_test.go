package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project", clientOptions(&GCPPubSubPublisherConfig{Endpoint: server.Addr})...)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	if _, err := client.CreateTopic(ctx, "leads"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:        "pubsub",
		Type:      TypeGCPPubSub,
		GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "test-project", Topic: "leads", Endpoint: server.Addr},
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubPublisher: %v", err)
	}
	defer closePublisher(pub)

	if err := pub.Publish(ctx, sampleChange()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["locale"] != "en-in" {
		t.Fatalf("attributes = %v", msgs[0].Attributes)
	}
	var got LeadChange
	if err := json.Unmarshal(msgs[0].Data, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.EventID != "e2" || got.PreviousEventID != "e1" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestClientOptions(t *testing.T) {
	if got := clientOptions(&GCPPubSubPublisherConfig{}); len(got) != 0 {
		t.Fatalf("expected default options, got %d", len(got))
	}
	if got := clientOptions(&GCPPubSubPublisherConfig{CredentialsFile: "/etc/sa.json"}); len(got) != 1 {
		t.Fatalf("expected credentials option, got %d", len(got))
	}
	if got := clientOptions(&GCPPubSubPublisherConfig{Endpoint: "localhost:8085", CredentialsFile: "/etc/sa.json"}); len(got) != 3 {
		t.Fatalf("expected emulator options, got %d", len(got))
	}
}
