package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mimi-order/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// KitchenTicket is the message the kitchen display consumes.
type KitchenTicket struct {
	OrderID  string              `json:"order_id"`
	ShortID  string              `json:"short_id"`
	Type     models.OrderType    `json:"type"`
	TableNo  string              `json:"table_no,omitempty"`
	PickupAt string              `json:"pickup_at,omitempty"`
	Memo     string              `json:"memo,omitempty"`
	Items    []KitchenTicketItem `json:"items"`
	PlacedAt time.Time           `json:"placed_at"`
}

type KitchenTicketItem struct {
	Name   string   `json:"name"`
	Qty    int      `json:"qty"`
	Spice  string   `json:"spice"`
	Extras []string `json:"extras,omitempty"`
}

func NewKitchenTicket(o models.Order) KitchenTicket {
	t := KitchenTicket{
		OrderID:  o.ID,
		ShortID:  o.ShortID(),
		Type:     o.Type,
		TableNo:  o.TableNo,
		PickupAt: o.PickupAt,
		Memo:     o.Memo,
		PlacedAt: o.CreatedAt,
	}
	for _, l := range o.Items {
		it := KitchenTicketItem{Name: l.Name, Qty: l.Qty, Spice: l.Spice.Label()}
		for _, e := range l.Extras {
			it.Extras = append(it.Extras, e.Name)
		}
		t.Items = append(t.Items, it)
	}
	return t
}

// RoutingKey is "kitchen.<order type>".
func RoutingKey(o models.Order) string {
	return "kitchen." + string(o.Type)
}

// confirmation is the broker's answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// publisher publishes with a per-message confirmation.
type publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
}

// amqpPublisher adapts a channel in confirm mode to publisher.
type amqpPublisher struct {
	ch *amqp.Channel
}

func (p amqpPublisher) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("amqp channel not in confirm mode")
	}
	return dc, nil
}

// Kitchen publishes a ticket per order to a topic exchange and waits for
// the broker's confirm of that publish.
type Kitchen struct {
	conn     *amqp.Connection
	ch       publisher
	exchange string
	timeout  time.Duration
}

func DialKitchen(url, exchange string) (*Kitchen, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}
	return &Kitchen{conn: conn, ch: amqpPublisher{ch: ch}, exchange: exchange, timeout: 5 * time.Second}, nil
}

func (k *Kitchen) OrderSubmitted(ctx context.Context, o models.Order) error {
	body, err := json.Marshal(NewKitchenTicket(o))
	if err != nil {
		return fmt.Errorf("marshal kitchen ticket: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	conf, err := k.ch.Publish(ctx, k.exchange, RoutingKey(o), amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     o.ID,
		CorrelationId: o.ShortID(),
		Timestamp:     time.Now().UTC(),
		Headers:       amqp.Table{"x-source": "mimi-order"},
	})
	if err != nil {
		return fmt.Errorf("publish kitchen ticket: %w", err)
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("kitchen ticket %s confirm: %w", o.ShortID(), err)
	}
	if !acked {
		return fmt.Errorf("kitchen ticket %s: publish NACK from broker", o.ShortID())
	}
	return nil
}

func (k *Kitchen) Close() error {
	if k.conn == nil {
		return nil
	}
	return k.conn.Close()
}
