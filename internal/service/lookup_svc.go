package service

import (
	"context"
	"fmt"
	"log"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// LookupService 参考数据服务
type LookupService struct {
	repo repository.LookupRepository
}

// NewLookupService 创建参考数据服务
func NewLookupService(repo repository.LookupRepository) *LookupService {
	return &LookupService{repo: repo}
}

// ==================== 查询 ====================

func (s *LookupService) TypesLogement(ctx context.Context) ([]dto.Option, error) {
	items, err := s.repo.ListTypesLogement(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询房源类型失败: %w", err)
	}
	opts := make([]dto.Option, len(items))
	for i, it := range items {
		opts[i] = dto.Option{ID: it.ID, Libelle: it.Libelle}
	}
	return opts, nil
}

func (s *LookupService) TypesTransaction(ctx context.Context) ([]dto.Option, error) {
	items, err := s.repo.ListTypesTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询交易类型失败: %w", err)
	}
	opts := make([]dto.Option, len(items))
	for i, it := range items {
		opts[i] = dto.Option{ID: it.ID, Code: it.Code, Libelle: it.Libelle}
	}
	return opts, nil
}

func (s *LookupService) Statuts(ctx context.Context) ([]dto.Option, error) {
	items, err := s.repo.ListStatuts(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询房源状态失败: %w", err)
	}
	opts := make([]dto.Option, len(items))
	for i, it := range items {
		opts[i] = dto.Option{ID: it.ID, Code: it.Code, Libelle: it.Libelle}
	}
	return opts, nil
}

func (s *LookupService) Equipements(ctx context.Context) ([]dto.OptionGroup, error) {
	cats, err := s.repo.ListEquipements(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询设施失败: %w", err)
	}
	groups := make([]dto.OptionGroup, len(cats))
	for i, c := range cats {
		opts := make([]dto.Option, len(c.Equipements))
		for j, e := range c.Equipements {
			opts[j] = dto.Option{ID: e.ID, Libelle: e.Libelle}
		}
		groups[i] = dto.OptionGroup{ID: c.ID, Libelle: c.Libelle, Options: opts}
	}
	return groups, nil
}

func (s *LookupService) Meubles(ctx context.Context) ([]dto.OptionGroup, error) {
	cats, err := s.repo.ListMeubles(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询家具失败: %w", err)
	}
	groups := make([]dto.OptionGroup, len(cats))
	for i, c := range cats {
		opts := make([]dto.Option, len(c.Meubles))
		for j, m := range c.Meubles {
			opts[j] = dto.Option{ID: m.ID, Libelle: m.Libelle}
		}
		groups[i] = dto.OptionGroup{ID: c.ID, Libelle: c.Libelle, Options: opts}
	}
	return groups, nil
}

func (s *LookupService) Pays(ctx context.Context) ([]dto.Option, error) {
	items, err := s.repo.ListPays(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询国家失败: %w", err)
	}
	opts := make([]dto.Option, len(items))
	for i, it := range items {
		opts[i] = dto.Option{ID: it.ID, Code: it.Code, Libelle: it.Nom}
	}
	return opts, nil
}

func (s *LookupService) Villes(ctx context.Context, paysID int64) ([]dto.Option, error) {
	items, err := s.repo.ListVilles(ctx, paysID)
	if err != nil {
		return nil, fmt.Errorf("查询城市失败: %w", err)
	}
	opts := make([]dto.Option, len(items))
	for i, it := range items {
		opts[i] = dto.Option{ID: it.ID, Libelle: it.Nom}
	}
	return opts, nil
}

// ==================== 初始化 ====================

// SeedDefaults 参考数据为空时写入默认值
func (s *LookupService) SeedDefaults(ctx context.Context) error {
	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("检查参考数据失败: %w", err)
	}
	if !empty {
		return nil
	}

	if err := s.repo.Seed(ctx, DefaultLookups()); err != nil {
		return fmt.Errorf("写入参考数据失败: %w", err)
	}
	log.Printf("[LookupService] 参考数据初始化完成")
	return nil
}

// DefaultLookups 默认参考数据（塞内加尔）
func DefaultLookups() *repository.LookupSeed {
	return &repository.LookupSeed{
		TypesLogement: []model.TypeLogement{
			{Libelle: "Appartement"}, {Libelle: "Maison"}, {Libelle: "Villa"},
			{Libelle: "Studio"}, {Libelle: "Chambre"}, {Libelle: "Bureau"},
			{Libelle: "Local commercial"}, {Libelle: "Terrain"},
		},
		TypesTransaction: []model.TypeTransaction{
			{Code: model.TransactionLocation, Libelle: "Location"},
			{Code: model.TransactionVente, Libelle: "Vente"},
		},
		Statuts: []model.StatutBien{
			{Code: model.StatutLibre, Libelle: "Libre"},
			{Code: model.StatutOccupe, Libelle: "Occupé"},
			{Code: model.StatutBientotLibre, Libelle: "Bientôt libre"},
		},
		Equipements: []model.CategorieEquipement{
			{Libelle: "Confort", Equipements: []model.Equipement{
				{Libelle: "Climatisation"}, {Libelle: "Chauffe-eau"}, {Libelle: "Ventilateur"},
			}},
			{Libelle: "Sécurité", Equipements: []model.Equipement{
				{Libelle: "Gardien"}, {Libelle: "Caméras"}, {Libelle: "Portail automatique"},
			}},
			{Libelle: "Énergie & eau", Equipements: []model.Equipement{
				{Libelle: "Groupe électrogène"}, {Libelle: "Surpresseur"}, {Libelle: "Panneaux solaires"},
			}},
		},
		Meubles: []model.CategorieMeuble{
			{Libelle: "Salon", Meubles: []model.Meuble{
				{Libelle: "Canapé"}, {Libelle: "Table basse"}, {Libelle: "Télévision"},
			}},
			{Libelle: "Chambre", Meubles: []model.Meuble{
				{Libelle: "Lit"}, {Libelle: "Armoire"}, {Libelle: "Commode"},
			}},
			{Libelle: "Cuisine", Meubles: []model.Meuble{
				{Libelle: "Réfrigérateur"}, {Libelle: "Cuisinière"}, {Libelle: "Micro-ondes"},
			}},
		},
		Pays: []model.Pays{
			{Code: "SN", Nom: "Sénégal"},
		},
		Villes: map[string][]string{
			"SN": {
				"Dakar", "Diourbel", "Fatick", "Kaffrine", "Kaolack", "Kédougou", "Kolda",
				"Louga", "Matam", "Saint-Louis", "Sédhiou", "Tambacounda", "Thiès", "Ziguinchor",
			},
		},
	}
}
