// Package realtime difunde los cambios de stock a las pantallas abiertas. RedisHub reparte
// entre instancias por pub/sub; LocalHub reparte dentro del proceso.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// DefaultChannel canal de Redis de los cambios de stock.
const DefaultChannel = "stock.changed"

// subscriberBuffer cambios pendientes por suscriptor antes de descartar.
const subscriberBuffer = 64

// Hub publica cambios y permite suscribirse a ellos.
type Hub interface {
	PublishChange(ctx context.Context, change entity.StockChange) error
	Subscribe(ctx context.Context) (<-chan entity.StockChange, func(), error)
}

// RedisHub usa pub/sub de Redis.
type RedisHub struct {
	rdb     *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisHub construye el hub sobre rdb.
func NewRedisHub(rdb *redis.Client, channel string, log *logger.Logger) *RedisHub {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisHub{rdb: rdb, channel: channel, log: log.Component("realtime")}
}

// PublishChange publica el cambio como JSON.
func (h *RedisHub) PublishChange(ctx context.Context, change entity.StockChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := h.rdb.Publish(ctx, h.channel, data).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe devuelve un canal con los cambios hasta que ctx termine o se llame a cancel.
func (h *RedisHub) Subscribe(ctx context.Context) (<-chan entity.StockChange, func(), error) {
	sub := h.rdb.Subscribe(ctx, h.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", h.channel, err)
	}
	out := make(chan entity.StockChange, subscriberBuffer)
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change entity.StockChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					h.log.Warn().Err(err).Msg("cambio ilegible descartado")
					continue
				}
				select {
				case out <- change:
				default:
					h.log.Warn().Str("product_id", change.ProductID).Msg("suscriptor lento, cambio descartado")
				}
			}
		}
	}()
	return out, cancel, nil
}

// LocalHub reparte cambios entre suscriptores del mismo proceso.
type LocalHub struct {
	mu   sync.Mutex
	subs map[chan entity.StockChange]struct{}
}

// NewLocalHub construye el hub.
func NewLocalHub() *LocalHub {
	return &LocalHub{subs: map[chan entity.StockChange]struct{}{}}
}

// PublishChange entrega el cambio sin bloquear; los suscriptores llenos lo pierden.
func (h *LocalHub) PublishChange(_ context.Context, change entity.StockChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

// Subscribe registra un suscriptor hasta que ctx termine o se llame a cancel.
func (h *LocalHub) Subscribe(ctx context.Context) (<-chan entity.StockChange, func(), error) {
	ch := make(chan entity.StockChange, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}
