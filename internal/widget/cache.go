package widget

import (
	"errors"
	"fmt"
	"log"

	"github.com/lox/lockweather/internal/aqi"
	"github.com/lox/lockweather/internal/metrics"
	"github.com/lox/lockweather/internal/store"
	"github.com/lox/lockweather/internal/weather"
)

const (
	SchemaLegacy = "legacy"
	SchemaV2     = "v2"
)

// ErrNoSnapshot is returned by AnnotateAQI when nothing is cached for the id.
var ErrNoSnapshot = errors.New("no cached snapshot")

// ErrInvalidAQI is returned by AnnotateAQI for lines ParseText rejects.
var ErrInvalidAQI = errors.New("unrecognized AQI text")

// Cache holds the last good snapshot per location. A blob that fails to
// decode never replaces what is already cached.
type Cache struct {
	store  *store.Store
	parser weather.Parser
}

func NewCache(st *store.Store, parser weather.Parser) *Cache {
	return &Cache{store: st, parser: parser}
}

// Update serializes info and caches it. A snapshot whose blob would not
// decode again is rejected and the cached one is kept.
func (c *Cache) Update(info *weather.Info) error {
	blob := info.Serialize()
	if _, err := c.parser.ParseInfo(blob); err != nil {
		return fmt.Errorf("encode snapshot %s: %w", info.ID, err)
	}
	return c.put(info.ID, SchemaLegacy, blob)
}

func (c *Cache) UpdateV2(info *weather.InfoV2) error {
	blob := info.Serialize()
	if _, err := c.parser.ParseInfoV2(blob); err != nil {
		return fmt.Errorf("encode v2 snapshot %s: %w", info.ID, err)
	}
	return c.put(info.ID, SchemaV2, blob)
}

// Restore decodes a legacy blob and caches it. On a decode error the cache is
// left untouched.
func (c *Cache) Restore(blob string) (*weather.Info, error) {
	info, err := c.parser.ParseInfo(blob)
	recordDecode(SchemaLegacy, err)
	if err != nil {
		return nil, err
	}
	if err := c.put(info.ID, SchemaLegacy, blob); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Cache) RestoreV2(blob string) (*weather.InfoV2, error) {
	info, err := c.parser.ParseInfoV2(blob)
	recordDecode(SchemaV2, err)
	if err != nil {
		return nil, err
	}
	if err := c.put(info.ID, SchemaV2, blob); err != nil {
		return nil, err
	}
	return info, nil
}

// Current returns the cached legacy snapshot for id, or nil when there is
// none or the cached blob no longer decodes.
func (c *Cache) Current(id string) (*weather.Info, error) {
	rec, err := c.store.GetSnapshot(id, SchemaLegacy)
	if err != nil || rec == nil {
		return nil, err
	}
	info, err := c.parser.ParseInfo(rec.Blob)
	recordDecode(SchemaLegacy, err)
	if err != nil {
		log.Printf("widget: cached snapshot %s unreadable: %v", id, err)
		return nil, nil
	}
	return info, nil
}

func (c *Cache) CurrentV2(id string) (*weather.InfoV2, error) {
	rec, err := c.store.GetSnapshot(id, SchemaV2)
	if err != nil || rec == nil {
		return nil, err
	}
	info, err := c.parser.ParseInfoV2(rec.Blob)
	recordDecode(SchemaV2, err)
	if err != nil {
		log.Printf("widget: cached v2 snapshot %s unreadable: %v", id, err)
		return nil, nil
	}
	return info, nil
}

// AnnotateAQI parses a provider AQI line and attaches it to the cached legacy
// snapshot for id. A snapshot that already carries AQI keeps it.
func (c *Cache) AnnotateAQI(id, line string) (*weather.Info, error) {
	compact, ok := aqi.ParseText(line)
	if !ok {
		metrics.AQIParses.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidAQI, line)
	}
	metrics.AQIParses.WithLabelValues(metrics.ResultOK).Inc()

	info, err := c.Current(id)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, id)
	}
	if !info.SetAQI(compact) {
		log.Printf("widget: snapshot %s already has AQI %q, keeping it", id, info.AQI())
		return info, nil
	}
	if err := c.Update(info); err != nil {
		return nil, err
	}
	return info, nil
}

// Snapshots lists what is cached, newest first.
func (c *Cache) Snapshots() ([]store.SnapshotRecord, error) {
	return c.store.ListSnapshots()
}

func (c *Cache) put(id, schema, blob string) error {
	err := c.store.PutSnapshot(store.SnapshotRecord{ID: id, Schema: schema, Blob: blob})
	if err != nil {
		metrics.StoreWrites.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("store %s snapshot %s: %w", schema, id, err)
	}
	metrics.StoreWrites.WithLabelValues(metrics.ResultOK).Inc()
	return nil
}

func recordDecode(schema string, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultInvalid
	}
	metrics.SnapshotDecodes.WithLabelValues(schema, result).Inc()
}
