package listing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"seek_immo_v1_202610/internal/api/dto"
)

// 缓存 key
const (
	KeyTypesLogement    = "types_logement"
	KeyTypesTransaction = "types_transaction"
	KeyStatuts          = "statuts"
	KeyEquipements      = "equipements"
	KeyMeubles          = "meubles"
	KeyPays             = "pays"
	KeyVilles           = "villes"
	KeyBiensDisponibles = "biens_disponibles"
)

// LookupCache 按列表名读穿缓存，变更后显式 Invalidate
type LookupCache struct {
	src   LookupSource
	biens AvailableSource

	mu    sync.RWMutex
	items map[string]any
}

// NewLookupCache biens 为空时 BiensDisponibles 不可用
func NewLookupCache(src LookupSource, biens AvailableSource) *LookupCache {
	return &LookupCache{src: src, biens: biens, items: map[string]any{}}
}

func cached[T any](c *LookupCache, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return v.(T), nil
	}

	val, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.items[key] = val
	c.mu.Unlock()
	return val, nil
}

// Invalidate 删除指定列表；"villes" 会清掉所有国家的城市列表
func (c *LookupCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, name)
	prefix := name + ":"
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

// Cached 是否已缓存
func (c *LookupCache) Cached(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}

func (c *LookupCache) TypesLogement(ctx context.Context) ([]dto.Option, error) {
	return cached(c, ctx, KeyTypesLogement, c.src.TypesLogement)
}

func (c *LookupCache) TypesTransaction(ctx context.Context) ([]dto.Option, error) {
	return cached(c, ctx, KeyTypesTransaction, c.src.TypesTransaction)
}

func (c *LookupCache) Statuts(ctx context.Context) ([]dto.Option, error) {
	return cached(c, ctx, KeyStatuts, c.src.Statuts)
}

func (c *LookupCache) Equipements(ctx context.Context) ([]dto.OptionGroup, error) {
	return cached(c, ctx, KeyEquipements, c.src.Equipements)
}

func (c *LookupCache) Meubles(ctx context.Context) ([]dto.OptionGroup, error) {
	return cached(c, ctx, KeyMeubles, c.src.Meubles)
}

func (c *LookupCache) Pays(ctx context.Context) ([]dto.Option, error) {
	return cached(c, ctx, KeyPays, c.src.Pays)
}

func (c *LookupCache) Villes(ctx context.Context, paysID int64) ([]dto.Option, error) {
	key := fmt.Sprintf("%s:%d", KeyVilles, paysID)
	return cached(c, ctx, key, func(ctx context.Context) ([]dto.Option, error) {
		return c.src.Villes(ctx, paysID)
	})
}

func (c *LookupCache) BiensDisponibles(ctx context.Context) ([]dto.BienVO, error) {
	if c.biens == nil {
		return nil, fmt.Errorf("source des biens disponibles non configurée")
	}
	return cached(c, ctx, KeyBiensDisponibles, c.biens.BiensDisponibles)
}
