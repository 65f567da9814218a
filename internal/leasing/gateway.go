package leasing

import (
	"context"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
)

// BailGateway 租约远端接口。内嵌模式由 service.BailService 实现，远程模式由 seekapi.Client 实现
type BailGateway interface {
	GetBail(ctx context.Context, id int64) (*dto.BailVO, error)
	GetActiveBailByBien(ctx context.Context, bienID int64) (*dto.BailVO, error)
	CreateBail(ctx context.Context, req *dto.CreateBailRequest) (*dto.BailVO, error)
	TerminerBail(ctx context.Context, id int64) (*dto.BailVO, error)
	ResilierBail(ctx context.Context, id int64, motif string) (*dto.BailVO, error)
	ProlongerBail(ctx context.Context, id int64, dateFin time.Time) (*dto.BailVO, error)
	AnnulerBail(ctx context.Context, id int64) (*dto.BailVO, error)
}

// LocataireGateway 租客远端接口，删除只在回滚时使用
type LocataireGateway interface {
	CreateLocataire(ctx context.Context, req *dto.LocataireRequest) (*dto.LocataireVO, error)
	DeleteLocataire(ctx context.Context, id int64) error
}

// ContratGateway 合同远端接口
type ContratGateway interface {
	GetContratByBail(ctx context.Context, bailID int64) (*dto.ContratVO, error)
	GenerateContrat(ctx context.Context, bailID int64) (*dto.ContratVO, error)
	EnvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error)
	RenvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error)
}

// BienReader 读取房源
type BienReader interface {
	GetBien(ctx context.Context, id int64) (*dto.BienVO, error)
}

// Invalidator 租约变化后清理可出租房源缓存
type Invalidator interface {
	Invalidate(name string)
}
