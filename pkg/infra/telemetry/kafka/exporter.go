package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/breaker"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const (
	ExporterName = "kafka"
	EventType    = "xss_attack"
)

type Config struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// Event is the message published for every recorded attack.
type Event struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	AttackType   string    `json:"attack_type"`
	RiskScore    int       `json:"risk_score"`
	MatchedRules []string  `json:"matched_rules"`
	Payload      string    `json:"payload"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewEvent(entry *attacklog.AttackLog) Event {
	return Event{
		Type:         EventType,
		ID:           entry.ID.String(),
		AttackType:   entry.AttackType,
		RiskScore:    entry.RiskScore,
		MatchedRules: entry.MatchedRules,
		Payload:      entry.Payload,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Timestamp:    entry.Timestamp,
	}
}

type Exporter struct {
	cfg      Config
	producer producer
	breaker  breaker.CircuitBreaker
}

func ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid kafka config: %w", err)
	}
	if conf.Host == "" {
		return errors.New("kafka host is required")
	}
	if conf.Port == "" {
		return errors.New("kafka port is required")
	}
	if conf.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}

func NewExporter(settings map[string]interface{}, cb breaker.CircuitBreaker) (*Exporter, error) {
	if err := ValidateConfig(settings); err != nil {
		return nil, err
	}
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", conf.Host, conf.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newExporter(conf, p, cb), nil
}

func newExporter(conf Config, p producer, cb breaker.CircuitBreaker) *Exporter {
	return &Exporter{
		cfg:      conf,
		producer: p,
		breaker:  cb,
	}
}

func (p *Exporter) Name() string {
	return ExporterName
}

func (p *Exporter) Export(ctx context.Context, entry *attacklog.AttackLog) error {
	if p.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	data, err := json.Marshal(NewEvent(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if p.breaker == nil {
		return p.produce(ctx, entry.ID.String(), data)
	}
	return p.breaker.Execute(func() error {
		return p.produce(ctx, entry.ID.String(), data)
	})
}

func (p *Exporter) produce(ctx context.Context, key string, data []byte) error {
	// buffered so a late delivery report never blocks the producer
	deliveryChan := make(chan kafka.Event, 1)

	err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("delivery not confirmed: %w", ctx.Err())
	}
}

func (p *Exporter) Close() {
	if p.producer != nil {
		p.producer.Flush(5000)
		p.producer.Close()
	}
}
