package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// RappelService 租金提醒：配置 + 到期前发送
type RappelService struct {
	baux     repository.BailRepository
	repo     repository.RappelRepository
	notifier Notifier
}

// NewRappelService 创建提醒服务
func NewRappelService(baux repository.BailRepository, repo repository.RappelRepository, notifier Notifier) *RappelService {
	return &RappelService{baux: baux, repo: repo, notifier: notifier}
}

// GetParametres 读取提醒配置
func (s *RappelService) GetParametres(ctx context.Context) (*dto.ParametresRappelVO, error) {
	p, err := s.repo.GetParametres(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取提醒配置失败: %w", err)
	}
	return &dto.ParametresRappelVO{Actif: p.Actif, JoursAvant: p.JoursAvant, Canal: p.Canal}, nil
}

// SaveParametres 保存提醒配置
func (s *RappelService) SaveParametres(ctx context.Context, req *dto.ParametresRappelRequest) (*dto.ParametresRappelVO, error) {
	if req.JoursAvant < 0 || req.JoursAvant > 28 {
		return nil, ValidationError("Le délai de rappel doit être compris entre 0 et 28 jours")
	}
	if req.Canal != model.CanalEmail && req.Canal != model.CanalSMS {
		return nil, ValidationError("Canal de rappel invalide")
	}

	p := &model.ParametresRappel{Actif: req.Actif, JoursAvant: req.JoursAvant, Canal: req.Canal}
	if err := s.repo.SaveParametres(ctx, p); err != nil {
		return nil, fmt.Errorf("保存提醒配置失败: %w", err)
	}
	return &dto.ParametresRappelVO{Actif: p.Actif, JoursAvant: p.JoursAvant, Canal: p.Canal}, nil
}

// SendDueReminders 向即将到期的租约发送提醒，同一租约同一到期日只发一次
func (s *RappelService) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	params, err := s.repo.GetParametres(ctx)
	if err != nil {
		return 0, fmt.Errorf("读取提醒配置失败: %w", err)
	}
	if !params.Actif {
		return 0, nil
	}

	baux, err := s.baux.FindActiveWithPaymentDay(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询生效租约失败: %w", err)
	}

	today := startOfDay(now.UTC())
	sent := 0
	for i := range baux {
		bail := &baux[i]
		echeance := NextEcheance(today, *bail.JourLimitePaiement)
		if echeance.Sub(today) > time.Duration(params.JoursAvant)*24*time.Hour {
			continue
		}
		if bail.DateFinBail != nil && echeance.After(*bail.DateFinBail) {
			continue
		}

		exists, err := s.repo.Exists(ctx, bail.ID, echeance)
		if err != nil {
			log.Printf("[RappelService] 查询提醒记录失败: bail=%d err=%v", bail.ID, err)
			continue
		}
		if exists {
			continue
		}

		if err := s.send(ctx, bail, echeance, params.Canal); err != nil {
			log.Printf("[RappelService] 发送提醒失败: bail=%d err=%v", bail.ID, err)
			continue
		}
		if err := s.repo.Create(ctx, &model.RappelLoyer{
			BailID:   bail.ID,
			Echeance: echeance,
			EnvoyeLe: now,
			Canal:    params.Canal,
		}); err != nil {
			log.Printf("[RappelService] 记录提醒失败: bail=%d err=%v", bail.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *RappelService) send(ctx context.Context, bail *model.Bail, echeance time.Time, canal string) error {
	if bail.Locataire == nil {
		return fmt.Errorf("租约缺少租客信息")
	}
	dest := bail.Locataire.Email
	if canal == model.CanalSMS || dest == "" {
		canal, dest = model.CanalSMS, bail.Locataire.Telephone
	}
	if dest == "" {
		return fmt.Errorf("租客无联系方式")
	}

	return s.notifier.Notify(ctx, &Notification{
		Event:        EventRappelLoyer,
		Canal:        canal,
		Destinataire: dest,
		Sujet:        "Rappel de loyer",
		Corps: fmt.Sprintf("Bonjour %s, votre loyer de %s est attendu le %s.",
			bail.Locataire.NomComplet(), formatMontant(bail.MontantLoyer), echeance.Format("02/01/2006")),
		Meta: map[string]interface{}{"bail_id": bail.ID},
	})
}

// NextEcheance 今天或之后第一个付款日（jour 在 1..28 之间，每月都存在）
func NextEcheance(today time.Time, jour int) time.Time {
	y, m, _ := today.Date()
	due := time.Date(y, m, jour, 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}
