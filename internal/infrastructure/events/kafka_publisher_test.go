package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/pkg/config"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessage(_ context.Context, msg kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msg)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_PublicaJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)
	evt := inventory.DocumentConfirmed{
		DocumentID:  "D1",
		Kind:        entity.DocumentKindSale,
		ConfirmedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Changes: []inventory.BalanceChange{
			{WarehouseID: "W1", ProductID: "P", UnitMeasure: "kg", Line: 1, Quantity: decimal.NewFromInt(-3), BalanceAfter: decimal.NewFromInt(7)},
		},
	}

	require.NoError(t, p.PublishDocumentConfirmed(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "D1", string(msg.Key))
	assert.Equal(t, "document.confirmed", header(msg, "event_type"))

	var got inventory.DocumentConfirmed
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, entity.DocumentKindSale, got.Kind)
	require.Len(t, got.Changes, 1)
	assert.True(t, got.Changes[0].BalanceAfter.Equal(decimal.NewFromInt(7)))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_ErrorDelWriter(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	err := NewKafkaPublisher(w).PublishDocumentConfirmed(context.Background(), inventory.DocumentConfirmed{DocumentID: "D9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "D9")
}

func TestNewKafkaWriter_LoteCorto(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{
		Brokers:      []string{"k1:9092"},
		Topic:        "mp.documents",
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	})

	assert.Equal(t, "mp.documents", w.Topic)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, 100, w.BatchSize)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestNewTracedWriter(t *testing.T) {
	base := NewKafkaWriter(config.KafkaConfig{
		Brokers:      []string{"k1:9092"},
		Topic:        "mp.documents",
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	})

	w, err := NewTracedWriter(base, "materias-primas")
	require.NoError(t, err)
	require.NotNil(t, w)

	var _ MessageWriter = w
	assert.NoError(t, w.Close())
}
