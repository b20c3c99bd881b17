package events

import (
	"context"
	"encoding/json"
	"fmt"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/pkg/config"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter lo implementa *otelkafka.Writer. Se escribe mensaje a mensaje para que cada
// publicación lleve su propio span de productor.
type MessageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher publica DocumentConfirmed como JSON, con el id del documento como clave
// (todos los eventos de un documento caen en la misma partición).
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter crea el writer base. La confirmación espera a la publicación, así que el lote
// se cierra en BatchTimeout y no en el segundo por defecto de kafka-go.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           cfg.BatchTimeout,
		BatchSize:              cfg.BatchSize,
		AllowAutoTopicCreation: true,
	}
}

// NewTracedWriter envuelve el writer con otelkafka usando el proveedor y propagador globales.
func NewTracedWriter(base *kafka.Writer, serviceName string) (*otelkafka.Writer, error) {
	return otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(otel.GetTracerProvider()),
		otelkafka.WithPropagator(otel.GetTextMapPropagator()),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				attribute.String("messaging.destination.name", base.Topic),
				attribute.String("messaging.kafka.client_id", serviceName),
			},
		),
	)
}

// NewKafkaPublisher construye el publicador sobre un writer ya configurado.
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishDocumentConfirmed serializa el evento y lo escribe. El writer añade el contexto de traza a las cabeceras.
func (p *KafkaPublisher) PublishDocumentConfirmed(ctx context.Context, evt inventory.DocumentConfirmed) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.DocumentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("document.confirmed")},
		},
	}
	if err := p.writer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("publicar documento %s: %w", evt.DocumentID, err)
	}
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
