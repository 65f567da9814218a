package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(v int) *int              { return &v }

func (e *testEnv) createBail(t *testing.T, bienID, locataireID int64, fin *time.Time) *dto.BailVO {
	bail, err := e.baux.CreateBail(context.Background(), &dto.CreateBailRequest{
		BienID:             bienID,
		LocataireID:        locataireID,
		TypeBail:           model.TypeBailHabitation,
		DateDebutBail:      date(2026, 1, 1),
		DateFinBail:        fin,
		JourLimitePaiement: ptrInt(5),
	})
	if err != nil {
		t.Fatalf("CreateBail() 返回错误: %v", err)
	}
	return bail
}

func TestBailService_CreateBail_CopiesTerms(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)

	bail := env.createBail(t, bien.ID, loc.ID, nil)
	if bail.MontantLoyer != 300000 || bail.MontantCaution != 900000 {
		t.Errorf("金额 = %.0f / %.0f, 期望从房源复制", bail.MontantLoyer, bail.MontantCaution)
	}
	if bail.FrequencePaiement != model.FrequenceMensuelle {
		t.Errorf("FrequencePaiement = %s", bail.FrequencePaiement)
	}
	if bail.Statut != model.BailActif {
		t.Errorf("Statut = %s, 期望 ACTIF", bail.Statut)
	}
	if bail.LocataireNom != "Awa Ndiaye" {
		t.Errorf("LocataireNom = %s", bail.LocataireNom)
	}

	// 房源改价后租约金额不变
	if err := env.uow.Biens.UpdateFields(ctx, bien.ID, map[string]interface{}{"prix": 550000}); err != nil {
		t.Fatalf("修改房源价格失败: %v", err)
	}
	reloaded, err := env.baux.GetBail(ctx, bail.ID)
	if err != nil {
		t.Fatalf("GetBail() 返回错误: %v", err)
	}
	if reloaded.MontantLoyer != 300000 {
		t.Errorf("房源改价后 MontantLoyer = %.0f, 期望仍为 300000", reloaded.MontantLoyer)
	}

	occupied, _ := env.biens.GetBien(ctx, bien.ID)
	if occupied.Occupation != model.OccupationLoue {
		t.Errorf("创建租约后 Occupation = %s, 期望 loue", occupied.Occupation)
	}
}

func TestBailService_CreateBail_Rules(t *testing.T) {
	env := setupServiceEnv(t)
	loc := env.seedLocataire(t)
	vente := env.seedBien(t, model.AnnoncePublie, testVente)
	draft := env.seedBien(t, model.AnnonceBrouillon, testLocation)
	publie := env.seedBien(t, model.AnnoncePublie, testLocation)

	tests := []struct {
		name    string
		req     dto.CreateBailRequest
		wantErr error
	}{
		{
			name:    "缺少租约类型",
			req:     dto.CreateBailRequest{BienID: publie.ID, LocataireID: loc.ID, DateDebutBail: date(2026, 1, 1)},
			wantErr: ValidationError("Le type de bail est requis"),
		},
		{
			name: "结束日期早于开始日期",
			req: dto.CreateBailRequest{BienID: publie.ID, LocataireID: loc.ID, TypeBail: model.TypeBailHabitation,
				DateDebutBail: date(2026, 6, 1), DateFinBail: ptrTime(date(2026, 1, 1))},
			wantErr: ValidationError("La date de fin doit être postérieure à la date de début"),
		},
		{
			name: "付款日超出范围",
			req: dto.CreateBailRequest{BienID: publie.ID, LocataireID: loc.ID, TypeBail: model.TypeBailHabitation,
				DateDebutBail: date(2026, 1, 1), JourLimitePaiement: ptrInt(31)},
			wantErr: ValidationError("Le jour limite de paiement doit être compris entre 1 et 28"),
		},
		{
			name: "出售类房源",
			req: dto.CreateBailRequest{BienID: vente.ID, LocataireID: loc.ID, TypeBail: model.TypeBailHabitation,
				DateDebutBail: date(2026, 1, 1)},
			wantErr: ErrNotLocation,
		},
		{
			name: "未发布房源",
			req: dto.CreateBailRequest{BienID: draft.ID, LocataireID: loc.ID, TypeBail: model.TypeBailHabitation,
				DateDebutBail: date(2026, 1, 1)},
			wantErr: ErrBienNonPublie,
		},
		{
			name: "租客不存在",
			req: dto.CreateBailRequest{BienID: publie.ID, LocataireID: 999, TypeBail: model.TypeBailHabitation,
				DateDebutBail: date(2026, 1, 1)},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.baux.CreateBail(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateBail() error = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}
}

func TestBailService_OneActiveLeasePerBien(t *testing.T) {
	env := setupServiceEnv(t)
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	first := env.seedLocataire(t)
	second, err := env.locs.CreateLocataire(context.Background(), &dto.LocataireRequest{Nom: "Sow", Telephone: "+221770000000"})
	if err != nil {
		t.Fatalf("CreateLocataire() 返回错误: %v", err)
	}

	env.createBail(t, bien.ID, first.ID, nil)
	_, err = env.baux.CreateBail(context.Background(), &dto.CreateBailRequest{
		BienID: bien.ID, LocataireID: second.ID, TypeBail: model.TypeBailHabitation, DateDebutBail: date(2026, 2, 1),
	})
	if !errors.Is(err, ErrBienOccupe) {
		t.Errorf("第二份租约 error = %v, 期望 ErrBienOccupe", err)
	}

	count, _ := env.uow.Baux.CountActiveByBien(context.Background(), bien.ID)
	if count != 1 {
		t.Errorf("生效租约数 = %d, 期望 1", count)
	}
}

func TestBailService_TerminerVsResilier(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	loc := env.seedLocataire(t)

	// 无结束日期：只能终止
	open := env.seedBien(t, model.AnnoncePublie, testLocation)
	openBail := env.createBail(t, open.ID, loc.ID, nil)
	if _, err := env.baux.ResilierBail(ctx, openBail.ID, "Départ"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("无结束日期解约 error = %v, 期望 ErrInvalidStatus", err)
	}
	ended, err := env.baux.TerminerBail(ctx, openBail.ID)
	if err != nil {
		t.Fatalf("TerminerBail() 返回错误: %v", err)
	}
	if ended.Statut != model.BailTermine || ended.DateCloture == nil {
		t.Errorf("终止后 = %s / %v", ended.Statut, ended.DateCloture)
	}
	if b, _ := env.biens.GetBien(ctx, open.ID); b.Occupation != model.OccupationLibre {
		t.Errorf("终止后房源 Occupation = %s, 期望 libre", b.Occupation)
	}

	// 有结束日期：只能解约
	fixed := env.seedBien(t, model.AnnoncePublie, testLocation)
	other, _ := env.locs.CreateLocataire(ctx, &dto.LocataireRequest{Nom: "Fall", Email: "fall@example.sn"})
	fixedBail := env.createBail(t, fixed.ID, other.ID, ptrTime(date(2027, 1, 1)))
	if _, err := env.baux.TerminerBail(ctx, fixedBail.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("有结束日期终止 error = %v, 期望 ErrInvalidStatus", err)
	}
	rescinded, err := env.baux.ResilierBail(ctx, fixedBail.ID, "Mutation professionnelle")
	if err != nil {
		t.Fatalf("ResilierBail() 返回错误: %v", err)
	}
	if rescinded.Statut != model.BailResilie || rescinded.MotifResiliation != "Mutation professionnelle" {
		t.Errorf("解约后 = %s / %s", rescinded.Statut, rescinded.MotifResiliation)
	}

	// 已关闭的租约不能再次关闭
	if _, err := env.baux.AnnulerBail(ctx, fixedBail.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("重复关闭 error = %v, 期望 ErrInvalidStatus", err)
	}
}

func TestBailService_ResilierSansMotif(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	bail := env.createBail(t, bien.ID, loc.ID, ptrTime(date(2027, 6, 30)))

	rescinded, err := env.baux.ResilierBail(ctx, bail.ID, "  ")
	if err != nil {
		t.Fatalf("无理由解约返回错误: %v", err)
	}
	if rescinded.Statut != model.BailResilie || rescinded.MotifResiliation != "" {
		t.Errorf("解约后 = %s / %q", rescinded.Statut, rescinded.MotifResiliation)
	}
	if b, _ := env.biens.GetBien(ctx, bien.ID); b.Occupation != model.OccupationLibre {
		t.Errorf("解约后房源 Occupation = %s, 期望 libre", b.Occupation)
	}
}

func TestBailService_ReleaseAllowsNewLease(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)

	bail := env.createBail(t, bien.ID, loc.ID, nil)
	if _, err := env.baux.AnnulerBail(ctx, bail.ID); err != nil {
		t.Fatalf("AnnulerBail() 返回错误: %v", err)
	}
	active, err := env.baux.GetActiveBailByBien(ctx, bien.ID)
	if err != nil || active != nil {
		t.Fatalf("GetActiveBailByBien() = %v, %v, 期望 nil", active, err)
	}
	again := env.createBail(t, bien.ID, loc.ID, nil)
	if again.ID == bail.ID {
		t.Error("应创建新的租约")
	}
}

func TestBailService_ProlongerBail(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	bail := env.createBail(t, bien.ID, loc.ID, ptrTime(date(2026, 12, 31)))

	if _, err := env.baux.ProlongerBail(ctx, bail.ID, date(2026, 6, 1)); err == nil {
		t.Error("新结束日期早于当前结束日期应失败")
	}
	extended, err := env.baux.ProlongerBail(ctx, bail.ID, date(2027, 12, 31))
	if err != nil {
		t.Fatalf("ProlongerBail() 返回错误: %v", err)
	}
	if !extended.DateFinBail.Equal(date(2027, 12, 31)) {
		t.Errorf("DateFinBail = %v", extended.DateFinBail)
	}
	if b, _ := env.biens.GetBien(ctx, bien.ID); b.Occupation != model.OccupationLoue {
		t.Errorf("延长后房源 Occupation = %s, 期望 loue", b.Occupation)
	}
}
