package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// BailService 租约服务
type BailService struct {
	uow *repository.SeekUnitOfWork
	now func() time.Time
}

// NewBailService 创建租约服务
func NewBailService(uow *repository.SeekUnitOfWork) *BailService {
	return &BailService{uow: uow, now: time.Now}
}

// ==================== 查询 ====================

// GetBail 获取租约
func (s *BailService) GetBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	bail, err := s.uow.Baux.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "查询租约失败")
	}
	return toBailVO(bail), nil
}

// ListBaux 租约列表
func (s *BailService) ListBaux(ctx context.Context, req *dto.ListBauxRequest) (*dto.PageResult[dto.BailVO], error) {
	baux, total, err := s.uow.Baux.List(ctx, repository.BailFilter{
		BienID:      req.BienID,
		LocataireID: req.LocataireID,
		Statut:      req.Statut,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("查询租约列表失败: %w", err)
	}

	items := make([]dto.BailVO, len(baux))
	for i := range baux {
		items[i] = *toBailVO(&baux[i])
	}
	return &dto.PageResult[dto.BailVO]{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// GetActiveBailByBien 房源当前生效的租约，没有时返回 nil
func (s *BailService) GetActiveBailByBien(ctx context.Context, bienID int64) (*dto.BailVO, error) {
	bail, err := s.uow.Baux.GetActiveByBien(ctx, bienID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询生效租约失败: %w", err)
	}
	return toBailVO(bail), nil
}

// ==================== 创建 ====================

// CreateBail 创建租约。金额从房源复制，房源行加锁保证同一房源只有一份生效租约
func (s *BailService) CreateBail(ctx context.Context, req *dto.CreateBailRequest) (*dto.BailVO, error) {
	if err := validateCreateBail(req); err != nil {
		return nil, err
	}

	bail := &model.Bail{
		BienID:             req.BienID,
		LocataireID:        req.LocataireID,
		TypeBail:           req.TypeBail,
		DateDebutBail:      req.DateDebutBail,
		DateFinBail:        req.DateFinBail,
		Renouvellement:     req.Renouvellement,
		CautionVersee:      req.CautionVersee,
		JourLimitePaiement: req.JourLimitePaiement,
		Statut:             model.BailActif,
	}

	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		if _, err := tx.Locataires.GetByID(ctx, req.LocataireID); err != nil {
			return err
		}

		bien, err := tx.Biens.GetForUpdate(ctx, req.BienID)
		if err != nil {
			return err
		}
		if !bien.IsLocation() {
			return ErrNotLocation
		}
		if bien.StatutAnnonce != model.AnnoncePublie {
			return ErrBienNonPublie
		}
		if bien.IsOccupied() {
			return ErrBienOccupe
		}
		if err := ensureNoActiveLease(ctx, tx, bien.ID); err != nil {
			return err
		}

		// 条款从房源复制，之后不再联动
		bail.MontantLoyer = bien.Prix
		if bien.Caution != nil {
			bail.MontantCaution = *bien.Caution
		}
		bail.FrequencePaiement = bien.Frequence
		if bail.FrequencePaiement == "" {
			bail.FrequencePaiement = model.FrequenceMensuelle
		}

		if err := tx.Baux.Create(ctx, bail); err != nil {
			return err
		}
		return tx.Biens.UpdateFields(ctx, bien.ID, map[string]interface{}{"occupation": model.OccupationLoue})
	})
	if err != nil {
		return nil, wrapTxErr(err, "创建租约失败")
	}

	log.Printf("[BailService] 租约已创建: id=%d bien=%d locataire=%d loyer=%.0f", bail.ID, bail.BienID, bail.LocataireID, bail.MontantLoyer)
	return s.GetBail(ctx, bail.ID)
}

func validateCreateBail(req *dto.CreateBailRequest) error {
	switch {
	case req.BienID <= 0:
		return ValidationError("Le bien est requis")
	case req.LocataireID <= 0:
		return ValidationError("Le locataire est requis")
	case !model.IsValidTypeBail(req.TypeBail):
		return ValidationError("Le type de bail est requis")
	case req.DateDebutBail.IsZero():
		return ValidationError("La date de début est requise")
	}
	if req.DateFinBail != nil && !req.DateFinBail.After(req.DateDebutBail) {
		return ValidationError("La date de fin doit être postérieure à la date de début")
	}
	if j := req.JourLimitePaiement; j != nil && (*j < 1 || *j > 28) {
		return ValidationError("Le jour limite de paiement doit être compris entre 1 et 28")
	}
	return nil
}

// ==================== 状态流转 ====================

// TerminerBail 结束无固定期限的租约，房源恢复空置
func (s *BailService) TerminerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	return s.close(ctx, id, model.BailTermine, "", func(b *model.Bail) error {
		if b.HasEndDate() {
			return ErrInvalidStatus
		}
		return nil
	})
}

// ResilierBail 提前解除有结束日期的租约，房源恢复空置。理由可为空
func (s *BailService) ResilierBail(ctx context.Context, id int64, motif string) (*dto.BailVO, error) {
	motif = strings.TrimSpace(motif)
	return s.close(ctx, id, model.BailResilie, motif, func(b *model.Bail) error {
		if !b.HasEndDate() {
			return ErrInvalidStatus
		}
		return nil
	})
}

// AnnulerBail 撤销刚创建的租约（合同流程回滚时使用）
func (s *BailService) AnnulerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	return s.close(ctx, id, model.BailAnnule, "", nil)
}

// close 生效租约 -> 终态，释放房源并归档合同
func (s *BailService) close(ctx context.Context, id int64, statut, motif string, guard func(*model.Bail) error) (*dto.BailVO, error) {
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bail, err := tx.Baux.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// 先锁房源再检查租约状态
		if _, err := tx.Biens.GetForUpdate(ctx, bail.BienID); err != nil {
			return err
		}
		if !bail.IsActif() {
			return ErrInvalidStatus
		}
		if guard != nil {
			if err := guard(bail); err != nil {
				return err
			}
		}

		now := s.now()
		fields := map[string]interface{}{
			"statut":       statut,
			"date_cloture": now,
		}
		if motif != "" {
			fields["motif_resiliation"] = motif
		}
		if err := tx.Baux.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if err := tx.Contrats.ArchiveByBail(ctx, id); err != nil {
			return err
		}
		return tx.Biens.UpdateFields(ctx, bail.BienID, map[string]interface{}{"occupation": model.OccupationLibre})
	})
	if err != nil {
		return nil, wrapTxErr(err, "更新租约状态失败")
	}

	log.Printf("[BailService] 租约已关闭: id=%d statut=%s", id, statut)
	return s.GetBail(ctx, id)
}

// ProlongerBail 延长租约，不影响房源占用状态
func (s *BailService) ProlongerBail(ctx context.Context, id int64, dateFin time.Time) (*dto.BailVO, error) {
	if dateFin.IsZero() {
		return nil, ValidationError("La nouvelle date de fin est requise")
	}

	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bail, err := tx.Baux.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !bail.IsActif() {
			return ErrInvalidStatus
		}
		if !dateFin.After(bail.DateDebutBail) {
			return ValidationError("La date de fin doit être postérieure à la date de début")
		}
		if bail.DateFinBail != nil && !dateFin.After(*bail.DateFinBail) {
			return ValidationError("La nouvelle date de fin doit être postérieure à l'actuelle")
		}
		return tx.Baux.UpdateFields(ctx, id, map[string]interface{}{"date_fin_bail": dateFin})
	})
	if err != nil {
		return nil, wrapTxErr(err, "延长租约失败")
	}

	log.Printf("[BailService] 租约已延长: id=%d fin=%s", id, dateFin.Format("2006-01-02"))
	return s.GetBail(ctx, id)
}

// ==================== 转换 ====================

func toBailVO(b *model.Bail) *dto.BailVO {
	vo := &dto.BailVO{
		ID:                 b.ID,
		BienID:             b.BienID,
		LocataireID:        b.LocataireID,
		TypeBail:           b.TypeBail,
		DateDebutBail:      b.DateDebutBail,
		DateFinBail:        b.DateFinBail,
		MontantLoyer:       b.MontantLoyer,
		MontantCaution:     b.MontantCaution,
		FrequencePaiement:  b.FrequencePaiement,
		Renouvellement:     b.Renouvellement,
		CautionVersee:      b.CautionVersee,
		JourLimitePaiement: b.JourLimitePaiement,
		Statut:             b.Statut,
		MotifResiliation:   b.MotifResiliation,
		DateCloture:        b.DateCloture,
	}
	if b.Locataire != nil {
		vo.LocataireNom = b.Locataire.NomComplet()
	}
	return vo
}
