package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

func TestNextEcheance(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		jour  int
		want  time.Time
	}{
		{"本月未到", date(2026, 3, 2), 5, date(2026, 3, 5)},
		{"当天", date(2026, 3, 5), 5, date(2026, 3, 5)},
		{"本月已过", date(2026, 3, 6), 5, date(2026, 4, 5)},
		{"跨年", date(2026, 12, 29), 28, date(2027, 1, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextEcheance(tt.today, tt.jour); !got.Equal(tt.want) {
				t.Errorf("NextEcheance() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func newRappelService(env *testEnv) *RappelService {
	return NewRappelService(env.uow.Baux, repository.NewRappelRepository(env.db), env.notifier)
}

func TestRappelService_SendDueReminders(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	svc := newRappelService(env)

	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	env.createBail(t, bien.ID, loc.ID, nil) // 付款日 5 号

	// 默认提前 3 天
	sent, err := svc.SendDueReminders(ctx, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil || sent != 0 {
		t.Fatalf("提前 4 天 SendDueReminders() = %d, %v, 期望 0", sent, err)
	}

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sent, err = svc.SendDueReminders(ctx, now)
	if err != nil || sent != 1 {
		t.Fatalf("SendDueReminders() = %d, %v, 期望 1", sent, err)
	}
	n := env.notifier.sent[0]
	if n.Event != EventRappelLoyer || n.Destinataire != "awa@example.sn" {
		t.Errorf("通知内容 = %+v", n)
	}

	// 同一到期日不重复发送
	sent, _ = svc.SendDueReminders(ctx, now.Add(6*time.Hour))
	if sent != 0 {
		t.Errorf("重复执行发送 %d 条, 期望 0", sent)
	}
}

func TestRappelService_Inactive(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	svc := newRappelService(env)

	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	env.createBail(t, bien.ID, loc.ID, nil)

	if _, err := svc.SaveParametres(ctx, &dto.ParametresRappelRequest{Actif: false, JoursAvant: 3, Canal: model.CanalEmail}); err != nil {
		t.Fatalf("SaveParametres() 返回错误: %v", err)
	}
	sent, err := svc.SendDueReminders(ctx, date(2026, 3, 4))
	if err != nil || sent != 0 {
		t.Errorf("关闭提醒后 SendDueReminders() = %d, %v", sent, err)
	}
}

func TestRappelService_SkipsAfterLeaseEnd(t *testing.T) {
	env := setupServiceEnv(t)
	svc := newRappelService(env)

	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	env.createBail(t, bien.ID, loc.ID, ptrTime(date(2026, 3, 3)))

	sent, err := svc.SendDueReminders(context.Background(), date(2026, 3, 3))
	if err != nil || sent != 0 {
		t.Errorf("租约结束后的到期日 SendDueReminders() = %d, %v, 期望 0", sent, err)
	}
}

func TestRappelService_SaveParametres(t *testing.T) {
	env := setupServiceEnv(t)
	svc := newRappelService(env)
	ctx := context.Background()

	_, err := svc.SaveParametres(ctx, &dto.ParametresRappelRequest{Actif: true, JoursAvant: 40, Canal: model.CanalEmail})
	if !errors.Is(err, ValidationError("Le délai de rappel doit être compris entre 0 et 28 jours")) {
		t.Errorf("超范围 error = %v", err)
	}
	_, err = svc.SaveParametres(ctx, &dto.ParametresRappelRequest{Actif: true, JoursAvant: 2, Canal: "fax"})
	if !errors.Is(err, ValidationError("Canal de rappel invalide")) {
		t.Errorf("非法渠道 error = %v", err)
	}

	if _, err := svc.SaveParametres(ctx, &dto.ParametresRappelRequest{Actif: true, JoursAvant: 7, Canal: model.CanalSMS}); err != nil {
		t.Fatalf("SaveParametres() 返回错误: %v", err)
	}
	got, err := svc.GetParametres(ctx)
	if err != nil {
		t.Fatalf("GetParametres() 返回错误: %v", err)
	}
	if got.JoursAvant != 7 || got.Canal != model.CanalSMS {
		t.Errorf("GetParametres() = %+v", got)
	}
}
