package leasing

import (
	"context"
	"log"
	"strings"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/listing"
)

// LeaseView 房源当前租约及可用操作
type LeaseView struct {
	Bien        *dto.BienVO  `json:"bien"`
	Bail        *dto.BailVO  `json:"bail,omitempty"`
	State       string       `json:"state"`
	Transitions []Transition `json:"transitions"`
}

// Orchestrator 租约状态编排。每次操作先本地校验，成功后重新拉取租约，不做乐观更新
type Orchestrator struct {
	biens BienReader
	baux  BailGateway
	cache Invalidator
}

// NewOrchestrator cache 可为空
func NewOrchestrator(biens BienReader, baux BailGateway, cache Invalidator) *Orchestrator {
	return &Orchestrator{biens: biens, baux: baux, cache: cache}
}

// View 房源的租约视图
func (o *Orchestrator) View(ctx context.Context, bienID int64) (*LeaseView, error) {
	bien, err := o.biens.GetBien(ctx, bienID)
	if err != nil {
		return nil, err
	}
	bail, err := o.baux.GetActiveBailByBien(ctx, bienID)
	if err != nil {
		return nil, err
	}
	return &LeaseView{
		Bien:        bien,
		Bail:        bail,
		State:       StateOf(bail).String(),
		Transitions: AllowedTransitions(bien, bail),
	}, nil
}

// End 终止无结束日期的租约
func (o *Orchestrator) End(ctx context.Context, bailID int64) (*dto.BailVO, error) {
	return o.apply(ctx, bailID, TransitionEnd, func(b *dto.BailVO) error {
		_, err := o.baux.TerminerBail(ctx, b.ID)
		return err
	})
}

// Rescind 提前解除有结束日期的租约
func (o *Orchestrator) Rescind(ctx context.Context, bailID int64, motif string) (*dto.BailVO, error) {
	motif = strings.TrimSpace(motif)
	return o.apply(ctx, bailID, TransitionRescind, func(b *dto.BailVO) error {
		_, err := o.baux.ResilierBail(ctx, b.ID, motif)
		return err
	})
}

// Extend 延长租约，新日期须晚于开始日期和当前结束日期
func (o *Orchestrator) Extend(ctx context.Context, bailID int64, dateFin time.Time) (*dto.BailVO, error) {
	return o.apply(ctx, bailID, TransitionExtend, func(b *dto.BailVO) error {
		if dateFin.IsZero() || !dateFin.After(b.DateDebutBail) {
			return ErrDateFinInvalide
		}
		if b.DateFinBail != nil && !dateFin.After(*b.DateFinBail) {
			return ErrDateFinInvalide
		}
		_, err := o.baux.ProlongerBail(ctx, b.ID, dateFin)
		return err
	})
}

func (o *Orchestrator) apply(ctx context.Context, bailID int64, t Transition, call func(*dto.BailVO) error) (*dto.BailVO, error) {
	bail, err := o.baux.GetBail(ctx, bailID)
	if err != nil {
		return nil, err
	}
	// 只依赖租约本身，不需要房源
	if !Allowed(nil, bail, t) {
		return nil, ErrTransitionNotAllowed
	}
	if err := call(bail); err != nil {
		log.Printf("[Leasing] %s 失败: bail=%d err=%v", t, bailID, err)
		return nil, err
	}

	// 以服务端为准
	fresh, err := o.baux.GetBail(ctx, bailID)
	if err != nil {
		return nil, err
	}
	if o.cache != nil && t != TransitionExtend {
		o.cache.Invalidate(listing.KeyBiensDisponibles)
	}
	log.Printf("[Leasing] %s 成功: bail=%d statut=%s", t, bailID, fresh.Statut)
	return fresh, nil
}
