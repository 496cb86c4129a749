// Package availability кеширует сетку доступности корта на дату в Redis
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

const (
	keyPrefix     = "quickcourt:availability"
	defaultTTL    = time.Minute
	generationTTL = 48 * time.Hour
)

// ErrCache возвращается при ошибке работы с Redis
var ErrCache = errors.New("availability.cache: redis error")

// Client подмножество команд go-redis, которое использует кеш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Cache кеш доступности.
// Сетка хранится под поколением (корт, дата). Invalidate увеличивает поколение,
// поэтому сетка, посчитанная до инвалидации, пишется под старый ключ и больше не читается.
type Cache struct {
	client Client
	ttl    time.Duration
}

// NewCache создает кеш. ttl <= 0 заменяется значением по умолчанию.
func NewCache(client Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

type cachedSlot struct {
	Start     string `json:"s"`
	End       string `json:"e"`
	Available bool   `json:"a"`
}

// Generation возвращает текущее поколение сетки корта на дату. Отсутствие ключа означает 0.
func (c *Cache) Generation(ctx context.Context, courtID int64, date time.Time) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(courtID, date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Generation - %w", ErrCache, err)
	}
	return gen, nil
}

// Get возвращает сетку указанного поколения. found=false, если записи нет.
func (c *Cache) Get(ctx context.Context, courtID int64, date time.Time, generation int64) ([]domain.AvailabilitySlot, bool, error) {
	data, err := c.client.Get(ctx, Key(courtID, date, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get - %w", ErrCache, err)
	}

	var cached []cachedSlot
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("%w: Get - decode: %v", ErrCache, err)
	}

	slots := make([]domain.AvailabilitySlot, 0, len(cached))
	for _, s := range cached {
		slots = append(slots, domain.AvailabilitySlot{
			StartTime: types.TimeString(s.Start),
			EndTime:   types.TimeString(s.End),
			Available: s.Available,
		})
	}
	return slots, true, nil
}

// Set сохраняет сетку под поколением, прочитанным до загрузки бронирований
func (c *Cache) Set(ctx context.Context, courtID int64, date time.Time, generation int64, slots []domain.AvailabilitySlot) error {
	cached := make([]cachedSlot, 0, len(slots))
	for _, s := range slots {
		cached = append(cached, cachedSlot{Start: s.StartTime.String(), End: s.EndTime.String(), Available: s.Available})
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCache, err)
	}

	if err := c.client.Set(ctx, Key(courtID, date, generation), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - %w", ErrCache, err)
	}
	return nil
}

// Invalidate переводит сетку корта на дату в новое поколение
func (c *Cache) Invalidate(ctx context.Context, courtID int64, date time.Time) error {
	key := GenerationKey(courtID, date)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - %w", ErrCache, err)
	}
	if err := c.client.Expire(ctx, key, generationTTL).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - expire: %w", ErrCache, err)
	}
	return nil
}

// Key ключ сетки корта на дату в заданном поколении
func Key(courtID int64, date time.Time, generation int64) string {
	return fmt.Sprintf("%s:%d:%s:%d", keyPrefix, courtID, date.Format(domain.DateFormat), generation)
}

// GenerationKey ключ счетчика поколений корта на дату
func GenerationKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("%s:gen:%d:%s", keyPrefix, courtID, date.Format(domain.DateFormat))
}

// Nop кеш-заглушка, когда Redis отключен: всегда промах
type Nop struct{}

func (Nop) Generation(context.Context, int64, time.Time) (int64, error) { return 0, nil }

func (Nop) Get(context.Context, int64, time.Time, int64) ([]domain.AvailabilitySlot, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, int64, time.Time, int64, []domain.AvailabilitySlot) error { return nil }

func (Nop) Invalidate(context.Context, int64, time.Time) error { return nil }
