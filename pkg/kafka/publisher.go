package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/timechallenge/backend/pkg/pubsub"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type publisher struct {
	clientID    string
	brokerAddrs []string
	producer    sarama.SyncProducer
}

func NewPublisher(clientID string, brokerAddrs []string) (*publisher, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	// Messages with the same key land on the same partition, so events of a
	// user are consumed in order.
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokerAddrs, config)
	if err != nil {
		return nil, err
	}

	return &publisher{
		clientID:    clientID,
		brokerAddrs: brokerAddrs,
		producer:    producer,
	}, nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.producer.Close()
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(pack.Msg),
		Key:       sarama.ByteEncoder(pack.Key),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(m)
	if err != nil {
		return fmt.Errorf("cannot publish to %s: %w", topic, err)
	}

	xcontext.Logger(ctx).Debugf("Published message to %s[%d]@%d", topic, partition, offset)

	return nil
}
