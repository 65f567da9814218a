package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"text/template"
	"time"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// ContratService 合同服务：按租约类型匹配模板生成，确认即发送
type ContratService struct {
	uow      *repository.SeekUnitOfWork
	notifier Notifier
	now      func() time.Time
}

// NewContratService 创建合同服务
func NewContratService(uow *repository.SeekUnitOfWork, notifier Notifier) *ContratService {
	return &ContratService{uow: uow, notifier: notifier, now: time.Now}
}

// contratData 模板可用字段
type contratData struct {
	Locataire   string
	Email       string
	Telephone   string
	Bien        string
	Adresse     string
	TypeBail    string
	Loyer       string
	Caution     string
	Frequence   string
	DateDebut   string
	DateFin     string
	JourLimite  int
	DateEdition string
}

// ==================== 查询 ====================

// GetContratByBail 获取租约当前合同
func (s *ContratService) GetContratByBail(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	contrat, err := s.uow.Contrats.GetLatestByBail(ctx, bailID)
	if err != nil {
		return nil, notFoundOr(err, "查询合同失败")
	}
	return toContratVO(contrat), nil
}

// ==================== 生成 ====================

// GenerateContrat 生成合同草稿。同一租约已有合同时直接返回
func (s *ContratService) GenerateContrat(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	bail, err := s.uow.Baux.GetByID(ctx, bailID)
	if err != nil {
		return nil, notFoundOr(err, "查询租约失败")
	}
	if !bail.IsActif() {
		return nil, ErrInvalidStatus
	}

	existing, err := s.uow.Contrats.GetLatestByBail(ctx, bailID)
	if err == nil {
		return toContratVO(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询合同失败: %w", err)
	}

	tpl, err := s.uow.Templates.GetByTypeBail(ctx, bail.TypeBail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ContratService] 无合同模板: bail=%d type=%s", bailID, bail.TypeBail)
		return nil, ErrNoTemplate
	}
	if err != nil {
		return nil, fmt.Errorf("查询合同模板失败: %w", err)
	}

	contenu, err := renderContrat(tpl, s.buildData(bail))
	if err != nil {
		return nil, fmt.Errorf("渲染合同失败: %w", err)
	}

	contrat := &model.Contrat{
		BailID:     bail.ID,
		TemplateID: tpl.ID,
		Titre:      tpl.Titre,
		Contenu:    contenu,
		Statut:     model.ContratBrouillon,
	}
	if err := s.uow.Contrats.Create(ctx, contrat); err != nil {
		return nil, fmt.Errorf("保存合同失败: %w", err)
	}

	log.Printf("[ContratService] 合同已生成: id=%d bail=%d template=%d", contrat.ID, bail.ID, tpl.ID)
	return toContratVO(contrat), nil
}

func (s *ContratService) buildData(b *model.Bail) contratData {
	data := contratData{
		TypeBail:    b.TypeBail,
		Loyer:       formatMontant(b.MontantLoyer),
		Caution:     formatMontant(b.MontantCaution),
		Frequence:   b.FrequencePaiement,
		DateDebut:   b.DateDebutBail.Format("02/01/2006"),
		DateFin:     "durée indéterminée",
		DateEdition: s.now().Format("02/01/2006"),
	}
	if b.DateFinBail != nil {
		data.DateFin = b.DateFinBail.Format("02/01/2006")
	}
	if b.JourLimitePaiement != nil {
		data.JourLimite = *b.JourLimitePaiement
	}
	if b.Locataire != nil {
		data.Locataire = b.Locataire.NomComplet()
		data.Email = b.Locataire.Email
		data.Telephone = b.Locataire.Telephone
	}
	if b.Bien != nil {
		data.Bien = b.Bien.Titre
		data.Adresse = b.Bien.Quartier
	}
	return data
}

func renderContrat(tpl *model.ContratTemplate, data contratData) (string, error) {
	t, err := template.New(tpl.TypeBail).Option("missingkey=error").Parse(tpl.Corps)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatMontant 12500000 -> "12 500 000 FCFA"
func formatMontant(v float64) string {
	n := int64(v + 0.5)
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	return string(out) + " FCFA"
}

// ==================== 发送 ====================

// EnvoyerContrat 确认合同：BROUILLON -> ACTIF 并发送给租客，投递失败则整体回滚
func (s *ContratService) EnvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	var contrat *model.Contrat
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		var err error
		contrat, err = tx.Contrats.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if contrat.Statut != model.ContratBrouillon {
			return ErrInvalidStatus
		}

		now := s.now()
		contrat.Statut = model.ContratActif
		contrat.EnvoyeLe = &now
		contrat.NbEnvois++
		if err := tx.Contrats.UpdateFields(ctx, id, map[string]interface{}{
			"statut":    contrat.Statut,
			"envoye_le": now,
			"nb_envois": contrat.NbEnvois,
		}); err != nil {
			return err
		}
		return s.deliver(ctx, tx, contrat, EventContratEnvoye)
	})
	if err != nil {
		return nil, wrapTxErr(err, "发送合同失败")
	}

	log.Printf("[ContratService] 合同已生效并发送: id=%d", id)
	return toContratVO(contrat), nil
}

// RenvoyerContrat 重新发送已生效的合同
func (s *ContratService) RenvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	var contrat *model.Contrat
	err := s.uow.Transaction(ctx, func(tx *repository.SeekUnitOfWork) error {
		var err error
		contrat, err = tx.Contrats.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if contrat.Statut != model.ContratActif {
			return ErrInvalidStatus
		}

		now := s.now()
		contrat.EnvoyeLe = &now
		contrat.NbEnvois++
		if err := tx.Contrats.UpdateFields(ctx, id, map[string]interface{}{
			"envoye_le": now,
			"nb_envois": contrat.NbEnvois,
		}); err != nil {
			return err
		}
		return s.deliver(ctx, tx, contrat, EventContratRenvoye)
	})
	if err != nil {
		return nil, wrapTxErr(err, "重新发送合同失败")
	}

	log.Printf("[ContratService] 合同已重新发送: id=%d envois=%d", id, contrat.NbEnvois)
	return toContratVO(contrat), nil
}

func (s *ContratService) deliver(ctx context.Context, tx *repository.SeekUnitOfWork, c *model.Contrat, event string) error {
	bail, err := tx.Baux.GetByID(ctx, c.BailID)
	if err != nil {
		return err
	}
	if bail.Locataire == nil {
		return ValidationError("Locataire introuvable pour ce contrat")
	}

	canal, dest := model.CanalEmail, bail.Locataire.Email
	if dest == "" {
		canal, dest = model.CanalSMS, bail.Locataire.Telephone
	}

	return s.notifier.Notify(ctx, &Notification{
		Event:        event,
		Canal:        canal,
		Destinataire: dest,
		Sujet:        c.Titre,
		Corps:        c.Contenu,
		Meta:         map[string]interface{}{"contrat_id": c.ID, "bail_id": c.BailID},
	})
}

// ==================== 模板 ====================

// SeedTemplates 写入缺失的默认模板
func (s *ContratService) SeedTemplates(ctx context.Context) error {
	for _, tpl := range DefaultTemplates() {
		_, err := s.uow.Templates.GetByTypeBail(ctx, tpl.TypeBail)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("查询合同模板失败: %w", err)
		}
		if err := s.uow.Templates.Save(ctx, &tpl); err != nil {
			return fmt.Errorf("写入合同模板失败: %w", err)
		}
		log.Printf("[ContratService] 已写入默认模板: %s", tpl.TypeBail)
	}
	return nil
}

// DefaultTemplates 默认合同模板。Mixte 需要运营单独配置
func DefaultTemplates() []model.ContratTemplate {
	return []model.ContratTemplate{
		{
			TypeBail: model.TypeBailHabitation,
			Titre:    "Contrat de bail à usage d'habitation",
			Corps: `CONTRAT DE BAIL À USAGE D'HABITATION

Entre le bailleur et {{.Locataire}}, il est convenu la location du bien « {{.Bien}} » situé à {{.Adresse}}.

Durée : du {{.DateDebut}} au {{.DateFin}}.
Loyer : {{.Loyer}} ({{.Frequence}}){{if .JourLimite}}, payable au plus tard le {{.JourLimite}} de chaque échéance{{end}}.
Caution : {{.Caution}}.

Fait le {{.DateEdition}}.`,
		},
		{
			TypeBail: model.TypeBailCommercial,
			Titre:    "Contrat de bail commercial",
			Corps: `CONTRAT DE BAIL COMMERCIAL

Le preneur {{.Locataire}} prend à bail le local « {{.Bien}} » situé à {{.Adresse}} pour l'exercice de son activité.

Prise d'effet : {{.DateDebut}}. Échéance : {{.DateFin}}.
Loyer : {{.Loyer}} ({{.Frequence}}). Dépôt de garantie : {{.Caution}}.

Fait le {{.DateEdition}}.`,
		},
	}
}

func toContratVO(c *model.Contrat) *dto.ContratVO {
	return &dto.ContratVO{
		ID:       c.ID,
		BailID:   c.BailID,
		Titre:    c.Titre,
		Contenu:  c.Contenu,
		Statut:   c.Statut,
		EnvoyeLe: c.EnvoyeLe,
		NbEnvois: c.NbEnvois,
	}
}
