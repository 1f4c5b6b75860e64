package worker

import (
	"crypto/tls"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/scram"

	"recommender/internal/config"
)

// saslMechanism returns nil when no Kafka credentials are configured.
func saslMechanism(cfg *config.Config) (sasl.Mechanism, error) {
	if cfg.KafkaUsername == "" && cfg.KafkaPassword == "" {
		return nil, nil
	}
	return scram.Mechanism(scram.SHA256, cfg.KafkaUsername, cfg.KafkaPassword)
}

func newDialer(cfg *config.Config) (*kafka.Dialer, error) {
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	if mechanism == nil {
		return kafka.DefaultDialer, nil
	}
	return &kafka.Dialer{
		SASLMechanism: mechanism,
		TLS:           &tls.Config{},
	}, nil
}

func newTransport(cfg *config.Config) (*kafka.Transport, error) {
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	if mechanism == nil {
		return &kafka.Transport{}, nil
	}
	return &kafka.Transport{
		SASL: mechanism,
		TLS:  &tls.Config{},
	}, nil
}
