package listing

import (
	"context"

	"seek_immo_v1_202610/internal/api/dto"
)

// ListingGateway 房源远端接口。内嵌模式由 service.BienService 实现，远程模式由 seekapi.Client 实现
type ListingGateway interface {
	GetBien(ctx context.Context, id int64) (*dto.BienVO, error)
	CreateBien(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error)
	UpdateBien(ctx context.Context, id int64, p *dto.BienPayload) (*dto.BienVO, error)
	SubmitRevision(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error)
	BiensDisponibles(ctx context.Context) ([]dto.BienVO, error)
}

// LookupSource 参考数据接口
type LookupSource interface {
	TypesLogement(ctx context.Context) ([]dto.Option, error)
	TypesTransaction(ctx context.Context) ([]dto.Option, error)
	Statuts(ctx context.Context) ([]dto.Option, error)
	Equipements(ctx context.Context) ([]dto.OptionGroup, error)
	Meubles(ctx context.Context) ([]dto.OptionGroup, error)
	Pays(ctx context.Context) ([]dto.Option, error)
	Villes(ctx context.Context, paysID int64) ([]dto.Option, error)
}

// AvailableSource 可出租房源列表
type AvailableSource interface {
	BiensDisponibles(ctx context.Context) ([]dto.BienVO, error)
}
