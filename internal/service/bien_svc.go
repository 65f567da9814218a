package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/middleware"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// BienService 房源服务
type BienService struct {
	uow      *repository.SeekUnitOfWork
	lookups  repository.LookupRepository
	storage  StorageProvider
	notifier Notifier
}

// NewBienService 创建房源服务
func NewBienService(
	uow *repository.SeekUnitOfWork,
	lookups repository.LookupRepository,
	storage StorageProvider,
	notifier Notifier,
) *BienService {
	return &BienService{
		uow:      uow,
		lookups:  lookups,
		storage:  storage,
		notifier: notifier,
	}
}

// revisionContent 修订落库内容：字段 + 最终图片顺序
type revisionContent struct {
	Payload   dto.BienPayload `json:"payload"`
	PhotoURLs []string        `json:"photo_urls"`
}

// ==================== 查询 ====================

// GetBien 获取房源详情
func (s *BienService) GetBien(ctx context.Context, id int64) (*dto.BienVO, error) {
	bien, err := s.uow.Biens.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "查询房源失败")
	}
	return toBienVO(bien), nil
}

// ListBiens 房源列表
func (s *BienService) ListBiens(ctx context.Context, req *dto.ListBiensRequest) (*dto.PageResult[dto.BienVO], error) {
	filter := repository.BienFilter{
		StatutAnnonce: req.Statut,
		Occupation:    req.Occupation,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	biens, total, err := s.uow.Biens.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询房源列表失败: %w", err)
	}

	items := make([]dto.BienVO, len(biens))
	for i := range biens {
		items[i] = *toBienVO(&biens[i])
	}
	return &dto.PageResult[dto.BienVO]{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// BiensDisponibles 可出租的房源（出租类、已发布、空置）
func (s *BienService) BiensDisponibles(ctx context.Context) ([]dto.BienVO, error) {
	biens, err := s.uow.Biens.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询可出租房源失败: %w", err)
	}
	items := make([]dto.BienVO, len(biens))
	for i := range biens {
		items[i] = *toBienVO(&biens[i])
	}
	return items, nil
}

// ==================== 创建 / 修改 ====================

// CreateBien 创建房源。Brouillon=true 保存为草稿，否则提交审核
func (s *BienService) CreateBien(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
	if len(p.ExistingPhotos) > 0 {
		return nil, ValidationError("Un nouveau bien ne peut pas référencer de photos existantes")
	}
	if err := s.validatePayload(ctx, p, p.Brouillon); err != nil {
		return nil, err
	}

	uploaded, err := s.uploadPhotos(ctx, p.Photos)
	if err != nil {
		return nil, err
	}

	bien := &model.Bien{
		ProprietaireID: middleware.GetAuditUserID(ctx),
		StatutAnnonce:  statutFor(p.Brouillon),
		Occupation:     model.OccupationLibre,
	}
	applyPayload(bien, p)

	err = s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		if err := tx.Biens.Create(ctx, bien); err != nil {
			return err
		}
		if err := tx.Biens.ReplacePhotos(ctx, bien.ID, buildPhotos(orderPhotos(uploaded, nil, false))); err != nil {
			return err
		}
		return tx.Biens.ReplaceMeubles(ctx, bien.ID, buildMeubles(p.Meubles))
	})
	if err != nil {
		s.discardUploads(ctx, uploaded)
		return nil, fmt.Errorf("创建房源失败: %w", err)
	}

	log.Printf("[BienService] 房源已创建: id=%d statut=%s photos=%d", bien.ID, bien.StatutAnnonce, len(uploaded))
	return s.GetBien(ctx, bien.ID)
}

// UpdateBien 修改草稿或被驳回的房源
func (s *BienService) UpdateBien(ctx context.Context, id int64, p *dto.BienPayload) (*dto.BienVO, error) {
	current, err := s.uow.Biens.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "查询房源失败")
	}
	if err := current.CanUpdate(); err != nil {
		return nil, wrapBiz(ErrInvalidStatus, err)
	}
	if err := checkExistingPhotos(current, p.ExistingPhotos); err != nil {
		return nil, err
	}
	if err := s.validatePayload(ctx, p, p.Brouillon); err != nil {
		return nil, err
	}

	uploaded, err := s.uploadPhotos(ctx, p.Photos)
	if err != nil {
		return nil, err
	}
	urls := orderPhotos(uploaded, p.ExistingPhotos, p.MainPhotoExisting)

	err = s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bien, err := tx.Biens.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		// 加锁后再次检查状态
		if err := bien.CanUpdate(); err != nil {
			return wrapBiz(ErrInvalidStatus, err)
		}

		applyPayload(bien, p)
		bien.StatutAnnonce = statutFor(p.Brouillon)
		bien.MotifRejet = ""

		if err := tx.Biens.Update(ctx, bien); err != nil {
			return err
		}
		if err := tx.Biens.ReplacePhotos(ctx, id, buildPhotos(urls)); err != nil {
			return err
		}
		return tx.Biens.ReplaceMeubles(ctx, id, buildMeubles(p.Meubles))
	})
	if err != nil {
		s.discardUploads(ctx, uploaded)
		return nil, wrapTxErr(err, "修改房源失败")
	}

	s.discardUploads(ctx, removedPhotos(current.PhotoURLs(), urls))
	log.Printf("[BienService] 房源已修改: id=%d statut=%s", id, statutFor(p.Brouillon))
	return s.GetBien(ctx, id)
}

// ==================== 修订 ====================

// SubmitRevision 提交已发布房源的修改申请，线上内容保持不变直到审核通过
func (s *BienService) SubmitRevision(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error) {
	current, err := s.uow.Biens.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "查询房源失败")
	}
	if err := current.CanSubmitRevision(); err != nil {
		return nil, revisionErr(err)
	}
	if err := checkExistingPhotos(current, p.ExistingPhotos); err != nil {
		return nil, err
	}
	// 修订总是完整校验
	if err := s.validatePayload(ctx, p, false); err != nil {
		return nil, err
	}

	uploaded, err := s.uploadPhotos(ctx, p.Photos)
	if err != nil {
		return nil, err
	}

	content := revisionContent{Payload: *p, PhotoURLs: orderPhotos(uploaded, p.ExistingPhotos, p.MainPhotoExisting)}
	content.Payload.Photos = nil
	raw, err := json.Marshal(content)
	if err != nil {
		s.discardUploads(ctx, uploaded)
		return nil, fmt.Errorf("序列化修订失败: %w", err)
	}

	rev := &model.BienRevision{BienID: id, Payload: datatypes.JSON(raw), Statut: model.RevisionEnAttente}
	err = s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bien, err := tx.Biens.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := bien.CanSubmitRevision(); err != nil {
			return revisionErr(err)
		}
		if err := tx.Revisions.Create(ctx, rev); err != nil {
			return err
		}
		return tx.Biens.UpdateFields(ctx, id, map[string]interface{}{"has_pending_revision": true})
	})
	if err != nil {
		s.discardUploads(ctx, uploaded)
		return nil, wrapTxErr(err, "提交修订失败")
	}

	log.Printf("[BienService] 修订已提交: bien=%d revision=%d", id, rev.ID)
	return toRevisionVO(rev), nil
}

// ApproveRevision 审核通过：修订内容覆盖线上房源
func (s *BienService) ApproveRevision(ctx context.Context, revisionID int64) (*dto.BienVO, error) {
	var (
		bienID    int64
		oldPhotos []string
		newPhotos []string
	)

	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		rev, err := tx.Revisions.GetByID(ctx, revisionID)
		if err != nil {
			return err
		}
		if rev.Statut != model.RevisionEnAttente {
			return ErrInvalidStatus
		}

		var content revisionContent
		if err := json.Unmarshal(rev.Payload, &content); err != nil {
			return fmt.Errorf("解析修订内容失败: %w", err)
		}

		current, err := tx.Biens.GetByID(ctx, rev.BienID)
		if err != nil {
			return err
		}
		bien, err := tx.Biens.GetForUpdate(ctx, rev.BienID)
		if err != nil {
			return err
		}
		if bien.StatutAnnonce != model.AnnoncePublie {
			return ErrInvalidStatus
		}

		applyPayload(bien, &content.Payload)
		bien.HasPendingRevision = false
		if err := tx.Biens.Update(ctx, bien); err != nil {
			return err
		}
		if err := tx.Biens.ReplacePhotos(ctx, bien.ID, buildPhotos(content.PhotoURLs)); err != nil {
			return err
		}
		if err := tx.Biens.ReplaceMeubles(ctx, bien.ID, buildMeubles(content.Payload.Meubles)); err != nil {
			return err
		}

		bienID = bien.ID
		oldPhotos = current.PhotoURLs()
		newPhotos = content.PhotoURLs
		return tx.Revisions.UpdateFields(ctx, rev.ID, map[string]interface{}{"statut": model.RevisionApprouvee})
	})
	if err != nil {
		return nil, wrapTxErr(err, "审核修订失败")
	}

	s.discardUploads(ctx, removedPhotos(oldPhotos, newPhotos))
	log.Printf("[BienService] 修订已通过: revision=%d bien=%d", revisionID, bienID)
	return s.GetBien(ctx, bienID)
}

// RejectRevision 驳回修订，线上房源不变
func (s *BienService) RejectRevision(ctx context.Context, revisionID int64, motif string) (*dto.RevisionVO, error) {
	var rev *model.BienRevision
	var orphans []string

	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		var err error
		rev, err = tx.Revisions.GetByID(ctx, revisionID)
		if err != nil {
			return err
		}
		if rev.Statut != model.RevisionEnAttente {
			return ErrInvalidStatus
		}

		bien, err := tx.Biens.GetByID(ctx, rev.BienID)
		if err != nil {
			return err
		}
		var content revisionContent
		if err := json.Unmarshal(rev.Payload, &content); err == nil {
			orphans = removedPhotos(content.PhotoURLs, bien.PhotoURLs())
		}

		rev.Statut = model.RevisionRejetee
		rev.Motif = motif
		if err := tx.Revisions.UpdateFields(ctx, rev.ID, map[string]interface{}{
			"statut": model.RevisionRejetee,
			"motif":  motif,
		}); err != nil {
			return err
		}
		return tx.Biens.UpdateFields(ctx, rev.BienID, map[string]interface{}{"has_pending_revision": false})
	})
	if err != nil {
		return nil, wrapTxErr(err, "驳回修订失败")
	}

	s.discardUploads(ctx, orphans)
	log.Printf("[BienService] 修订已驳回: revision=%d", revisionID)
	return toRevisionVO(rev), nil
}

// ==================== 状态流转 ====================

// Publish 审核通过发布 EN_ATTENTE -> PUBLIE
func (s *BienService) Publish(ctx context.Context, id int64) (*dto.BienVO, error) {
	bien, err := s.transition(ctx, id, []string{model.AnnonceEnAttente}, map[string]interface{}{
		"statut_annonce": model.AnnoncePublie,
		"motif_rejet":    "",
	})
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, bien, EventBienPublie, "Votre annonce est publiée", bien.Titre)
	return s.GetBien(ctx, id)
}

// Reject 审核驳回 EN_ATTENTE -> REJETE
func (s *BienService) Reject(ctx context.Context, id int64, motif string) (*dto.BienVO, error) {
	if strings.TrimSpace(motif) == "" {
		return nil, ValidationError("Le motif de rejet est requis")
	}
	bien, err := s.transition(ctx, id, []string{model.AnnonceEnAttente}, map[string]interface{}{
		"statut_annonce": model.AnnonceRejete,
		"motif_rejet":    motif,
	})
	if err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, bien, EventBienRejete, "Votre annonce a été rejetée", motif)
	return s.GetBien(ctx, id)
}

// ReturnToDraft 撤回为草稿 EN_ATTENTE|REJETE -> BROUILLON
func (s *BienService) ReturnToDraft(ctx context.Context, id int64) (*dto.BienVO, error) {
	_, err := s.transition(ctx, id, []string{model.AnnonceEnAttente, model.AnnonceRejete}, map[string]interface{}{
		"statut_annonce": model.AnnonceBrouillon,
	})
	if err != nil {
		return nil, err
	}
	return s.GetBien(ctx, id)
}

// Cancel 取消房源，有生效租约时拒绝
func (s *BienService) Cancel(ctx context.Context, id int64) (*dto.BienVO, error) {
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bien, err := tx.Biens.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if bien.StatutAnnonce == model.AnnonceAnnule {
			return ErrInvalidStatus
		}
		if err := ensureNoActiveLease(ctx, tx, id); err != nil {
			return err
		}

		// 待审核的修订随之作废
		if bien.HasPendingRevision {
			rev, err := tx.Revisions.FindPendingByBien(ctx, id)
			if err == nil {
				if err := tx.Revisions.UpdateFields(ctx, rev.ID, map[string]interface{}{
					"statut": model.RevisionRejetee,
					"motif":  "Annonce annulée",
				}); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		return tx.Biens.UpdateFields(ctx, id, map[string]interface{}{
			"statut_annonce":       model.AnnonceAnnule,
			"has_pending_revision": false,
		})
	})
	if err != nil {
		return nil, wrapTxErr(err, "取消房源失败")
	}
	return s.GetBien(ctx, id)
}

// DeleteBien 删除房源，有生效租约时拒绝
func (s *BienService) DeleteBien(ctx context.Context, id int64) error {
	var photos []string
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		bien, err := tx.Biens.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureNoActiveLease(ctx, tx, id); err != nil {
			return err
		}
		photos = bien.PhotoURLs()
		if err := tx.Biens.ReplacePhotos(ctx, id, nil); err != nil {
			return err
		}
		return tx.Biens.Delete(ctx, id)
	})
	if err != nil {
		return wrapTxErr(err, "删除房源失败")
	}

	s.discardUploads(ctx, photos)
	log.Printf("[BienService] 房源已删除: id=%d", id)
	return nil
}

// transition 在事务中校验当前状态并更新字段
func (s *BienService) transition(ctx context.Context, id int64, from []string, fields map[string]interface{}) (*model.Bien, error) {
	var bien *model.Bien
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		var err error
		bien, err = tx.Biens.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !containsString(from, bien.StatutAnnonce) {
			return ErrInvalidStatus
		}
		return tx.Biens.UpdateFields(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTxErr(err, "更新房源状态失败")
	}
	log.Printf("[BienService] 房源状态变更: id=%d %s -> %v", id, bien.StatutAnnonce, fields["statut_annonce"])
	return bien, nil
}

func (s *BienService) notifyOwner(ctx context.Context, bien *model.Bien, event, sujet, corps string) {
	if s.notifier == nil || bien.ProprietaireID == 0 {
		return
	}
	err := s.notifier.Notify(ctx, &Notification{
		Event:        event,
		Canal:        model.CanalEmail,
		Destinataire: fmt.Sprintf("user:%d", bien.ProprietaireID),
		Sujet:        sujet,
		Corps:        corps,
		Meta:         map[string]interface{}{"bien_id": bien.ID},
	})
	if err != nil {
		log.Printf("[BienService] 通知业主失败: bien=%d err=%v", bien.ID, err)
	}
}

// ==================== 校验 ====================

// validatePayload 服务端复核。草稿只要求标题且图片不超过上限
func (s *BienService) validatePayload(ctx context.Context, p *dto.BienPayload, brouillon bool) error {
	if strings.TrimSpace(p.Titre) == "" {
		return ValidationError("Le titre est requis")
	}
	if p.PhotoCount() > model.MaxPhotos {
		return ValidationError("Maximum 10 photos autorisées")
	}
	for _, n := range []int{p.NbChambres, p.NbCuisines, p.NbSalons, p.NbSdb, p.NbWc} {
		if n < 0 || n > model.MaxPieces {
			return ValidationError("Le nombre de pièces doit être compris entre 0 et 20")
		}
	}
	if p.Frequence != "" && !model.IsValidFrequence(p.Frequence) {
		return ValidationError("Fréquence de paiement invalide")
	}
	for _, ph := range p.Photos {
		if len(ph.Data) == 0 {
			return ValidationError("Photo vide")
		}
		if !strings.HasPrefix(http.DetectContentType(ph.Data), "image/") {
			return ValidationError("Seules les images sont acceptées")
		}
	}
	if brouillon {
		return nil
	}

	switch {
	case p.TypeLogementID <= 0:
		return ValidationError("Le type de logement est requis")
	case p.PaysID <= 0:
		return ValidationError("Le pays est requis")
	case p.VilleID <= 0:
		return ValidationError("La région est requise")
	case p.TypeTransactionID <= 0:
		return ValidationError("Le type de transaction est requis")
	case p.StatutBienID <= 0:
		return ValidationError("Le statut est requis")
	case p.Prix <= 0:
		return ValidationError("Le prix doit être un nombre positif")
	case p.PhotoCount() < model.MinPhotos:
		return ValidationError("Minimum 3 photos requises")
	}

	if _, err := s.lookups.GetTypeTransaction(ctx, p.TypeTransactionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationError("Le type de transaction est requis")
		}
		return fmt.Errorf("查询交易类型失败: %w", err)
	}
	statut, err := s.lookups.GetStatut(ctx, p.StatutBienID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationError("Le statut est requis")
		}
		return fmt.Errorf("查询房源状态失败: %w", err)
	}
	if statut.Code != model.StatutLibre && p.DisponibleLe == nil {
		return ValidationError("La date de disponibilité est requise")
	}
	return nil
}

// checkExistingPhotos 保留的图片必须属于该房源
func checkExistingPhotos(bien *model.Bien, existing []string) error {
	owned := make(map[string]bool, len(bien.Photos))
	for _, ph := range bien.Photos {
		owned[ph.URL] = true
	}
	for _, url := range existing {
		if !owned[url] {
			return ValidationError("Photo existante inconnue")
		}
	}
	return nil
}

// ==================== 图片 ====================

func (s *BienService) uploadPhotos(ctx context.Context, photos []dto.PhotoUpload) ([]string, error) {
	urls := make([]string, 0, len(photos))
	for i, ph := range photos {
		url, err := s.storage.Upload(ctx, ph.Data, ph.Filename, ph.ContentType)
		if err != nil {
			s.discardUploads(ctx, urls)
			return nil, fmt.Errorf("上传第 %d 张图片失败: %w", i+1, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discardUploads 尽力删除不再引用的文件，失败只记录
func (s *BienService) discardUploads(ctx context.Context, urls []string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if err := s.storage.Delete(ctx, url); err != nil {
			log.Printf("[Rollback] 删除图片失败: url=%s err=%v", url, err)
		}
	}
}

// orderPhotos 主图放在第一位
func orderPhotos(uploaded, existing []string, mainExisting bool) []string {
	urls := make([]string, 0, len(uploaded)+len(existing))
	if mainExisting && len(existing) > 0 {
		urls = append(urls, existing...)
		return append(urls, uploaded...)
	}
	urls = append(urls, uploaded...)
	return append(urls, existing...)
}

func buildPhotos(urls []string) []model.BienPhoto {
	photos := make([]model.BienPhoto, len(urls))
	for i, url := range urls {
		photos[i] = model.BienPhoto{URL: url, Position: i, Principale: i == 0}
	}
	return photos
}

func buildMeubles(items []dto.MeubleQuantite) []model.BienMeuble {
	meubles := make([]model.BienMeuble, 0, len(items))
	for _, it := range items {
		q := it.Quantite
		if q <= 0 {
			q = 1
		}
		meubles = append(meubles, model.BienMeuble{MeubleID: it.MeubleID, Quantite: q})
	}
	return meubles
}

// removedPhotos before 中不在 after 里的 URL
func removedPhotos(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, u := range after {
		keep[u] = true
	}
	var removed []string
	for _, u := range before {
		if !keep[u] {
			removed = append(removed, u)
		}
	}
	return removed
}

// ==================== 转换 ====================

func statutFor(brouillon bool) string {
	if brouillon {
		return model.AnnonceBrouillon
	}
	return model.AnnonceEnAttente
}

func applyPayload(b *model.Bien, p *dto.BienPayload) {
	b.TypeLogementID = p.TypeLogementID
	b.TypeTransactionID = p.TypeTransactionID
	b.StatutBienID = p.StatutBienID
	b.Titre = strings.TrimSpace(p.Titre)
	b.Description = p.Description
	b.PaysID = p.PaysID
	b.VilleID = p.VilleID
	b.Quartier = p.Quartier
	b.Latitude = p.Latitude
	b.Longitude = p.Longitude
	b.Surface = p.Surface
	b.Etage = p.Etage
	b.NbChambres = p.NbChambres
	b.NbCuisines = p.NbCuisines
	b.NbSalons = p.NbSalons
	b.NbSdb = p.NbSdb
	b.NbWc = p.NbWc
	b.Prix = p.Prix
	b.Frequence = p.Frequence
	b.ChargesIncluses = p.ChargesIncluses
	b.Caution = p.Caution
	b.DisponibleLe = p.DisponibleLe
	b.Meuble = p.Meuble
	b.Fumeurs = p.Fumeurs
	b.Animaux = p.Animaux
	b.Parking = p.Parking
	b.Ascenseur = p.Ascenseur
	b.EquipementIDs = datatypes.JSONSlice[int64](append([]int64{}, p.EquipementIDs...))

	// 外键已变更，丢弃旧的关联对象
	b.TypeLogement = nil
	b.TypeTransaction = nil
	b.StatutBien = nil
	b.Pays = nil
	b.Ville = nil
}

func toBienVO(b *model.Bien) *dto.BienVO {
	vo := &dto.BienVO{
		ID:                 b.ID,
		ProprietaireID:     b.ProprietaireID,
		TypeLogementID:     b.TypeLogementID,
		TypeTransactionID:  b.TypeTransactionID,
		StatutBienID:       b.StatutBienID,
		Titre:              b.Titre,
		Description:        b.Description,
		PaysID:             b.PaysID,
		VilleID:            b.VilleID,
		Quartier:           b.Quartier,
		Latitude:           b.Latitude,
		Longitude:          b.Longitude,
		Surface:            b.Surface,
		Etage:              b.Etage,
		NbChambres:         b.NbChambres,
		NbCuisines:         b.NbCuisines,
		NbSalons:           b.NbSalons,
		NbSdb:              b.NbSdb,
		NbWc:               b.NbWc,
		Prix:               b.Prix,
		Frequence:          b.Frequence,
		ChargesIncluses:    b.ChargesIncluses,
		Caution:            b.Caution,
		DisponibleLe:       b.DisponibleLe,
		Meuble:             b.Meuble,
		Fumeurs:            b.Fumeurs,
		Animaux:            b.Animaux,
		Parking:            b.Parking,
		Ascenseur:          b.Ascenseur,
		EquipementIDs:      append([]int64{}, b.EquipementIDs...),
		Photos:             b.PhotoURLs(),
		StatutAnnonce:      b.StatutAnnonce,
		HasPendingRevision: b.HasPendingRevision,
		Occupation:         b.Occupation,
		MotifRejet:         b.MotifRejet,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	for _, m := range b.Meubles {
		vo.Meubles = append(vo.Meubles, dto.MeubleQuantite{MeubleID: m.MeubleID, Quantite: m.Quantite})
	}
	if b.TypeLogement != nil {
		vo.TypeLogement = b.TypeLogement.Libelle
	}
	if b.TypeTransaction != nil {
		vo.TypeTransactionCode = b.TypeTransaction.Code
	}
	if b.StatutBien != nil {
		vo.StatutBienCode = b.StatutBien.Code
	}
	if b.Pays != nil {
		vo.PaysNom = b.Pays.Nom
	}
	if b.Ville != nil {
		vo.VilleNom = b.Ville.Nom
	}
	return vo
}

func toRevisionVO(r *model.BienRevision) *dto.RevisionVO {
	return &dto.RevisionVO{
		ID:        r.ID,
		BienID:    r.BienID,
		Statut:    r.Statut,
		Motif:     r.Motif,
		CreatedAt: r.CreatedAt,
	}
}

// ==================== 工具 ====================

func revisionErr(err error) error {
	if errors.Is(err, model.ErrRevisionEnCours) {
		return wrapBiz(ErrRevisionPending, err)
	}
	return wrapBiz(ErrInvalidStatus, err)
}

// wrapTxErr 保留业务错误，记录不存在转 ErrNotFound，其余加上下文
func wrapTxErr(err error, msg string) error {
	var biz *BizError
	if errors.As(err, &biz) {
		return err
	}
	return notFoundOr(err, msg)
}

func ensureNoActiveLease(ctx context.Context, tx *repository.SeekUnitOfWork, bienID int64) error {
	count, err := tx.Baux.CountActiveByBien(ctx, bienID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrActiveLeaseExists
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// startOfDay 截断到日期
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
