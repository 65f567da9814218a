package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// LocataireService 租客服务
type LocataireService struct {
	uow *repository.SeekUnitOfWork
}

// NewLocataireService 创建租客服务
func NewLocataireService(uow *repository.SeekUnitOfWork) *LocataireService {
	return &LocataireService{uow: uow}
}

// CreateLocataire 创建租客
func (s *LocataireService) CreateLocataire(ctx context.Context, req *dto.LocataireRequest) (*dto.LocataireVO, error) {
	if strings.TrimSpace(req.Nom) == "" {
		return nil, ValidationError("Le nom du locataire est requis")
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Telephone) == "" {
		return nil, ValidationError("Un email ou un téléphone est requis")
	}

	loc := &model.Locataire{
		Nom:           strings.TrimSpace(req.Nom),
		Prenom:        strings.TrimSpace(req.Prenom),
		Email:         strings.TrimSpace(req.Email),
		Telephone:     strings.TrimSpace(req.Telephone),
		PieceIdentite: req.PieceIdentite,
	}
	if err := s.uow.Locataires.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("创建租客失败: %w", err)
	}
	return toLocataireVO(loc), nil
}

// GetLocataire 获取租客
func (s *LocataireService) GetLocataire(ctx context.Context, id int64) (*dto.LocataireVO, error) {
	loc, err := s.uow.Locataires.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "查询租客失败")
	}
	return toLocataireVO(loc), nil
}

// ListLocataires 租客列表
func (s *LocataireService) ListLocataires(ctx context.Context, page, pageSize int) (*dto.PageResult[dto.LocataireVO], error) {
	locs, total, err := s.uow.Locataires.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询租客列表失败: %w", err)
	}
	items := make([]dto.LocataireVO, len(locs))
	for i := range locs {
		items[i] = *toLocataireVO(&locs[i])
	}
	return &dto.PageResult[dto.LocataireVO]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// DeleteLocataire 删除租客，有生效租约时拒绝
func (s *LocataireService) DeleteLocataire(ctx context.Context, id int64) error {
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		if _, err := tx.Locataires.GetByID(ctx, id); err != nil {
			return err
		}
		count, err := tx.Baux.CountActiveByLocataire(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrLocataireOccupe
		}
		return tx.Locataires.Delete(ctx, id)
	})
	if err != nil {
		return wrapTxErr(err, "删除租客失败")
	}
	log.Printf("[LocataireService] 租客已删除: id=%d", id)
	return nil
}

func toLocataireVO(l *model.Locataire) *dto.LocataireVO {
	return &dto.LocataireVO{
		ID:            l.ID,
		Nom:           l.Nom,
		Prenom:        l.Prenom,
		Email:         l.Email,
		Telephone:     l.Telephone,
		PieceIdentite: l.PieceIdentite,
	}
}
