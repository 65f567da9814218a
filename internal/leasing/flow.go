package leasing

import (
	"context"
	"fmt"
	"log"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/listing"
	"seek_immo_v1_202610/internal/model"
)

// FlowState 创建租约流程的阶段
type FlowState int

const (
	FlowContractReady FlowState = iota
	FlowGenerationFailed
	FlowValidated
	FlowDismissed
)

func (s FlowState) String() string {
	switch s {
	case FlowGenerationFailed:
		return "generation_failed"
	case FlowValidated:
		return "validated"
	case FlowDismissed:
		return "dismissed"
	}
	return "contract_ready"
}

// StartRequest 创建流程输入。LocataireID 为 0 时按 Locataire 新建租客
type StartRequest struct {
	LocataireID int64                 `json:"locataire_id"`
	Locataire   *dto.LocataireRequest `json:"locataire,omitempty"`
	Bail        dto.CreateBailRequest `json:"bail"`
}

// Flow 一次 "租客 -> 租约 -> 合同" 创建流程
type Flow struct {
	State     FlowState        `json:"-"`
	StateName string           `json:"state"`
	Locataire *dto.LocataireVO `json:"locataire"`
	Bail      *dto.BailVO      `json:"bail"`
	Contrat   *dto.ContratVO   `json:"contrat,omitempty"`
	Message   string           `json:"message,omitempty"`

	// 本流程新建的租客，回滚时删除
	createdLocataire bool
	err              error
}

// Err 合同生成失败的原因
func (f *Flow) Err() error {
	return f.err
}

func (f *Flow) setState(s FlowState) {
	f.State = s
	f.StateName = s.String()
}

// ContractFlow 创建租约并生成合同；用户放弃时做补偿回滚
type ContractFlow struct {
	locataires LocataireGateway
	baux       BailGateway
	contrats   ContratGateway
	cache      Invalidator
}

// NewContractFlow cache 可为空
func NewContractFlow(locataires LocataireGateway, baux BailGateway, contrats ContratGateway, cache Invalidator) *ContractFlow {
	return &ContractFlow{locataires: locataires, baux: baux, contrats: contrats, cache: cache}
}

// Start 新建租客、创建租约并立即生成合同。
// 合同生成失败不返回错误，流程停在 FlowGenerationFailed，等待用户放弃
func (c *ContractFlow) Start(ctx context.Context, req *StartRequest) (*Flow, error) {
	f := &Flow{}

	switch {
	case req.LocataireID > 0:
		f.Locataire = &dto.LocataireVO{ID: req.LocataireID}
	case req.Locataire != nil:
		loc, err := c.locataires.CreateLocataire(ctx, req.Locataire)
		if err != nil {
			return nil, err
		}
		f.Locataire = loc
		f.createdLocataire = true
	default:
		return nil, ErrLocataireRequis
	}

	bailReq := req.Bail
	bailReq.LocataireID = f.Locataire.ID
	bail, err := c.baux.CreateBail(ctx, &bailReq)
	if err != nil {
		// 租约没建成，新建的租客不能留下
		if f.createdLocataire {
			if derr := c.locataires.DeleteLocataire(ctx, f.Locataire.ID); derr != nil {
				log.Printf("[Rollback] 删除租客失败: locataire=%d err=%v", f.Locataire.ID, derr)
			}
		}
		return nil, err
	}
	f.Bail = bail
	c.invalidate()

	contrat, err := c.contrats.GenerateContrat(ctx, bail.ID)
	if err != nil {
		log.Printf("[Leasing] 合同生成失败: bail=%d err=%v", bail.ID, err)
		f.err = err
		f.Message = UserMessage(err)
		f.setState(FlowGenerationFailed)
		return f, nil
	}
	f.Contrat = contrat
	f.setState(FlowContractReady)
	return f, nil
}

// Validate 激活合同并发送给租客，一次调用完成
func (c *ContractFlow) Validate(ctx context.Context, f *Flow) error {
	if f.State != FlowContractReady || f.Contrat == nil {
		return ErrFlowState
	}
	contrat, err := c.contrats.EnvoyerContrat(ctx, f.Contrat.ID)
	if err != nil {
		return err
	}
	f.Contrat = contrat
	f.Message = ""
	f.setState(FlowValidated)
	log.Printf("[Leasing] 合同已激活并发送: bail=%d contrat=%d", f.Bail.ID, contrat.ID)
	return nil
}

// Dismiss 未确认合同就关闭：先取消租约再删除租客。
// 回滚失败只记录日志，始终返回 nil，调用方可以直接离开
func (c *ContractFlow) Dismiss(ctx context.Context, f *Flow) error {
	if f.State == FlowValidated || f.State == FlowDismissed {
		return nil
	}

	if f.Bail != nil {
		if _, err := c.baux.AnnulerBail(ctx, f.Bail.ID); err != nil {
			log.Printf("[Rollback] 取消租约失败: bail=%d err=%v", f.Bail.ID, err)
		}
	}
	if f.createdLocataire && f.Locataire != nil {
		if err := c.locataires.DeleteLocataire(ctx, f.Locataire.ID); err != nil {
			log.Printf("[Rollback] 删除租客失败: locataire=%d err=%v", f.Locataire.ID, err)
		}
	}

	f.setState(FlowDismissed)
	c.invalidate()
	log.Printf("[Rollback] 租约创建流程已放弃: bail=%v", bailRef(f.Bail))
	return nil
}

// Resend 查看已生效租约时只允许重新发送合同
func (c *ContractFlow) Resend(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	contrat, err := c.contrats.GetContratByBail(ctx, bailID)
	if err != nil {
		return nil, err
	}
	if contrat.Statut != model.ContratActif {
		return nil, ErrContratInactif
	}
	return c.contrats.RenvoyerContrat(ctx, contrat.ID)
}

func (c *ContractFlow) invalidate() {
	if c.cache != nil {
		c.cache.Invalidate(listing.KeyBiensDisponibles)
	}
}

func bailRef(b *dto.BailVO) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprint(b.ID)
}
