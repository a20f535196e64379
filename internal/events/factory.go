package events

import (
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yourusername/spatial-quiz-api/internal/config"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// Bus - издатель событий и подписчик для монитора.
// Subscriber равен nil, если события выключены.
type Bus struct {
	Publisher  EventPublisher
	Subscriber message.Subscriber
	Topic      string
}

// Close закрывает издателя и подписчика
func (b *Bus) Close() error {
	err := b.Publisher.Close()
	if b.Subscriber != nil {
		if subErr := b.Subscriber.Close(); subErr != nil && err == nil {
			err = subErr
		}
	}
	return err
}

// NewBus создаёт шину событий по конфигурации: gochannel, kafka или mock
func NewBus(cfg config.EventsConfig, log *logger.Logger) (*Bus, error) {
	if !cfg.Enabled {
		log.Info("Event publishing disabled, using mock publisher")
		return &Bus{Publisher: NewMockEventPublisher(), Topic: cfg.Topic}, nil
	}

	wmLogger := NewWatermillLogger(log)

	switch cfg.Publisher {
	case "kafka":
		log.Info("Creating Kafka event bus", "brokers", cfg.KafkaBrokers, "topic", cfg.Topic)
		pub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, err
		}
		sub, err := kafka.NewSubscriber(kafka.SubscriberConfig{
			Brokers:       cfg.KafkaBrokers,
			Unmarshaler:   kafka.DefaultMarshaler{},
			ConsumerGroup: "spatial-quiz-monitor",
		}, wmLogger)
		if err != nil {
			pub.Close()
			return nil, err
		}
		return &Bus{Publisher: NewWatermillPublisher(pub, cfg.Topic, log), Subscriber: sub, Topic: cfg.Topic}, nil
	case "mock":
		log.Info("Using mock event publisher")
		return &Bus{Publisher: NewMockEventPublisher(), Topic: cfg.Topic}, nil
	default:
		if cfg.Publisher != "gochannel" {
			log.Warn("Unknown event publisher type, falling back to gochannel", "publisher", cfg.Publisher)
		}
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, wmLogger)
		return &Bus{Publisher: NewWatermillPublisher(ch, cfg.Topic, log), Subscriber: ch, Topic: cfg.Topic}, nil
	}
}
