package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/application/pricing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
)

const (
	materialsKey = "materials:%s"
	genKey       = "materials-gen:%s"
	cacheName    = "materials"
)

var (
	_ inventory.LedgerCache     = (*LedgerCache)(nil)
	_ pricing.CacheInvalidator = (*LedgerCache)(nil)
)

// LedgerCache guarda la lista de materiales de un dueño codificada en msgpack.
// Cada invalidación incrementa una generación por dueño; una lista leída de la BD
// solo se guarda si la generación no cambió desde antes de la lectura.
type LedgerCache struct {
	client *Client
	ttl    time.Duration
}

// NewLedgerCache crea el cache de materiales.
func NewLedgerCache(client *Client, ttl time.Duration) *LedgerCache {
	return &LedgerCache{client: client, ttl: ttl}
}

// Los decimales viajan como texto para no perder escala.
type ledgerCacheData struct {
	ID             string    `msgpack:"id"`
	MaterialName   string    `msgpack:"n"`
	Stock          string    `msgpack:"s"`
	Unit           string    `msgpack:"u"`
	CostPerUnit    string    `msgpack:"c"`
	LastPurchaseAt time.Time `msgpack:"lp"`
	Version        int64     `msgpack:"v"`
	CreatedAt      time.Time `msgpack:"ca"`
	UpdatedAt      time.Time `msgpack:"ua"`
}

// GetMaterials devuelve (entradas, true) en un acierto; (nil, false, nil) si no hay llave.
func (c *LedgerCache) GetMaterials(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, bool, error) {
	key := fmt.Sprintf(materialsKey, ownerID)
	raw, err := c.client.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss(cacheName)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entries, err := decodeEntries(ownerID, raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache de materiales corrupto")
		_ = c.client.Delete(ctx, key)
		metrics.RecordCacheMiss(cacheName)
		return nil, false, nil
	}
	metrics.RecordCacheHit(cacheName)
	return entries, true, nil
}

// Generation devuelve la generación actual del dueño.
func (c *LedgerCache) Generation(ctx context.Context, ownerID string) (int64, error) {
	return c.client.GetInt64(ctx, fmt.Sprintf(genKey, ownerID))
}

// SetMaterials guarda la lista si la generación sigue siendo gen. Una invalidación
// concurrente descarta la escritura.
func (c *LedgerCache) SetMaterials(ctx context.Context, ownerID string, entries []*entity.MaterialLedgerEntry, gen int64) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	stored, err := c.client.SetIfCounter(ctx, fmt.Sprintf(materialsKey, ownerID), raw, c.ttl, fmt.Sprintf(genKey, ownerID), gen)
	if err != nil {
		return err
	}
	if !stored {
		log.Debug().Str("owner_id", ownerID).Int64("gen", gen).Msg("Cache de materiales descartado por invalidación concurrente")
	}
	return nil
}

// Invalidate borra la lista del dueño y avanza su generación.
func (c *LedgerCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.DeleteAndIncr(ctx, fmt.Sprintf(materialsKey, ownerID), fmt.Sprintf(genKey, ownerID))
}

func encodeEntries(entries []*entity.MaterialLedgerEntry) ([]byte, error) {
	data := make([]ledgerCacheData, 0, len(entries))
	for _, e := range entries {
		data = append(data, ledgerCacheData{
			ID:             e.ID,
			MaterialName:   e.MaterialName,
			Stock:          e.Stock.String(),
			Unit:           e.Unit.String(),
			CostPerUnit:    e.CostPerUnit.String(),
			LastPurchaseAt: e.LastPurchaseAt,
			Version:        e.Version,
			CreatedAt:      e.CreatedAt,
			UpdatedAt:      e.UpdatedAt,
		})
	}
	return msgpack.Marshal(data)
}

func decodeEntries(ownerID string, raw []byte) ([]*entity.MaterialLedgerEntry, error) {
	var data []ledgerCacheData
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	out := make([]*entity.MaterialLedgerEntry, 0, len(data))
	for _, d := range data {
		stock, err := decimal.NewFromString(d.Stock)
		if err != nil {
			return nil, fmt.Errorf("stock %q: %w", d.MaterialName, err)
		}
		cost, err := decimal.NewFromString(d.CostPerUnit)
		if err != nil {
			return nil, fmt.Errorf("costo %q: %w", d.MaterialName, err)
		}
		out = append(out, &entity.MaterialLedgerEntry{
			ID:             d.ID,
			OwnerID:        ownerID,
			MaterialName:   d.MaterialName,
			Stock:          stock,
			Unit:           entity.Unit(d.Unit),
			CostPerUnit:    cost,
			LastPurchaseAt: d.LastPurchaseAt,
			Version:        d.Version,
			CreatedAt:      d.CreatedAt,
			UpdatedAt:      d.UpdatedAt,
		})
	}
	return out, nil
}
