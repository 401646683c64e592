package broker

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewProducer_WritesToConfiguredTopic(t *testing.T) {
	p := NewProducer(&Config{Brokers: []string{"k1:9092"}, Topic: "sales.events"})
	defer p.Close()

	assert.Equal(t, "sales.events", p.writer.Topic)
	assert.Equal(t, "k1:9092", p.writer.Addr.String())
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
}

func TestNewConsumer_UsesGroup(t *testing.T) {
	c := NewConsumer(&Config{Brokers: []string{"k1:9092"}, Topic: "stock.events", GroupID: "pos"})
	defer c.Close()

	cfg := c.reader.Config()
	assert.Equal(t, "stock.events", cfg.Topic)
	assert.Equal(t, "pos", cfg.GroupID)
}
