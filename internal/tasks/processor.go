package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/ids"
)

const (
	latestPricelistKey = "pricelists/latest.csv"
	csvContentType     = "text/csv; charset=utf-8"
)

type PricelistRenderer interface {
	Render(ctx context.Context) ([]byte, error)
}

type StatsRefresher interface {
	RefreshStats(ctx context.Context) (int64, error)
}

type ObjectWriter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type Processor struct {
	logger    zerolog.Logger
	pricelist PricelistRenderer
	customers StatsRefresher
	store     ObjectWriter
	now       func() time.Time
}

func NewProcessor(logger zerolog.Logger, pricelist PricelistRenderer, customers StatsRefresher, store ObjectWriter) *Processor {
	return &Processor{
		logger:    logger,
		pricelist: pricelist,
		customers: customers,
		store:     store,
		now:       time.Now,
	}
}

// Handle runs one stream entry. A returned error leaves the entry pending so
// it is retried after the claim interval.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := decodePayload(msg.Values)
	if err != nil {
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping malformed task")
		return nil
	}

	log := p.logger.With().
		Str("message_id", msg.ID).
		Str("task_id", task.ID).
		Str("type", task.Type).
		Logger()

	switch task.Type {
	case TypePricelist:
		return p.handlePricelist(log.WithContext(ctx))
	case TypeCustomerStats:
		return p.handleCustomerStats(log.WithContext(ctx))
	default:
		log.Warn().Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handlePricelist(ctx context.Context) error {
	data, err := p.pricelist.Render(ctx)
	if err != nil {
		return fmt.Errorf("render pricelist: %w", err)
	}

	key := snapshotKey(p.now())
	if err := p.store.Put(ctx, key, data, csvContentType); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	if err := p.store.Put(ctx, latestPricelistKey, data, csvContentType); err != nil {
		return fmt.Errorf("store latest: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("key", key).
		Int("bytes", len(data)).
		Msg("pricelist snapshot stored")
	return nil
}

func (p *Processor) handleCustomerStats(ctx context.Context) error {
	updated, err := p.customers.RefreshStats(ctx)
	if err != nil {
		return fmt.Errorf("refresh customer stats: %w", err)
	}
	zerolog.Ctx(ctx).Info().Int64("customers", updated).Msg("customer stats refreshed")
	return nil
}

func snapshotKey(at time.Time) string {
	return fmt.Sprintf("pricelists/%s/%s.csv", at.UTC().Format("2006/01/02"), ids.New())
}
