package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
)

func TestBienService_CreateBien(t *testing.T) {
	tests := []struct {
		name       string
		payload    func() *dto.BienPayload
		wantErr    string
		wantStatut string
	}{
		{
			name: "草稿只要求标题",
			payload: func() *dto.BienPayload {
				return &dto.BienPayload{Titre: "Studio Plateau", Brouillon: true, Photos: photos(1)}
			},
			wantStatut: model.AnnonceBrouillon,
		},
		{
			name: "草稿缺少标题",
			payload: func() *dto.BienPayload {
				return &dto.BienPayload{Brouillon: true}
			},
			wantErr: "Le titre est requis",
		},
		{
			name:    "提交审核图片不足",
			payload: func() *dto.BienPayload { return validPayload(2) },
			wantErr: "Minimum 3 photos requises",
		},
		{
			name:    "图片超过上限",
			payload: func() *dto.BienPayload { return validPayload(11) },
			wantErr: "Maximum 10 photos autorisées",
		},
		{
			name: "价格为零",
			payload: func() *dto.BienPayload {
				p := validPayload(3)
				p.Prix = 0
				return p
			},
			wantErr: "Le prix doit être un nombre positif",
		},
		{
			name: "非空置房源缺少可用日期",
			payload: func() *dto.BienPayload {
				p := validPayload(3)
				p.StatutBienID = testStatutOccupe
				return p
			},
			wantErr: "La date de disponibilité est requise",
		},
		{
			name: "非图片文件",
			payload: func() *dto.BienPayload {
				p := validPayload(3)
				p.Photos[1].Data = []byte("%PDF-1.4 not an image")
				return p
			},
			wantErr: "Seules les images sont acceptées",
		},
		{
			name:       "完整提交进入待审核",
			payload:    func() *dto.BienPayload { return validPayload(3) },
			wantStatut: model.AnnonceEnAttente,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServiceEnv(t)
			vo, err := env.biens.CreateBien(context.Background(), tt.payload())

			if tt.wantErr != "" {
				if !errors.Is(err, ValidationError(tt.wantErr)) {
					t.Fatalf("CreateBien() error = %v, 期望 %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBien() 返回错误: %v", err)
			}
			if vo.StatutAnnonce != tt.wantStatut {
				t.Errorf("StatutAnnonce = %s, 期望 %s", vo.StatutAnnonce, tt.wantStatut)
			}
			if vo.Occupation != model.OccupationLibre {
				t.Errorf("Occupation = %s, 期望 libre", vo.Occupation)
			}
		})
	}
}

func TestBienService_CreateBien_PhotoOrder(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	vo, err := env.biens.CreateBien(ctx, validPayload(4))
	if err != nil {
		t.Fatalf("CreateBien() 返回错误: %v", err)
	}
	if len(vo.Photos) != 4 {
		t.Fatalf("图片数量 = %d, 期望 4", len(vo.Photos))
	}

	bien, err := env.uow.Biens.GetByID(ctx, vo.ID)
	if err != nil {
		t.Fatalf("GetByID() 返回错误: %v", err)
	}
	for i, ph := range bien.Photos {
		if ph.Position != i {
			t.Errorf("第 %d 张 Position = %d", i, ph.Position)
		}
		if ph.Principale != (i == 0) {
			t.Errorf("第 %d 张 Principale = %v", i, ph.Principale)
		}
	}
}

func TestOrderPhotos(t *testing.T) {
	uploaded := []string{"n1", "n2"}
	existing := []string{"e1", "e2"}

	got := orderPhotos(uploaded, existing, true)
	if got[0] != "e1" || len(got) != 4 {
		t.Errorf("主图为已有图片时顺序错误: %v", got)
	}
	got = orderPhotos(uploaded, existing, false)
	if got[0] != "n1" || got[2] != "e1" {
		t.Errorf("主图为新图片时顺序错误: %v", got)
	}
	got = orderPhotos(uploaded, nil, true)
	if got[0] != "n1" {
		t.Errorf("没有已有图片时应以新图片为主图: %v", got)
	}
}

func TestBienService_UpdateBien(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	draft, err := env.biens.CreateBien(ctx, &dto.BienPayload{Titre: "Brouillon", Brouillon: true, Photos: photos(2)})
	if err != nil {
		t.Fatalf("CreateBien() 返回错误: %v", err)
	}

	// 保留一张旧图并设为主图，再补两张新图后提交
	p := validPayload(2)
	p.ExistingPhotos = []string{draft.Photos[1]}
	p.MainPhotoExisting = true
	vo, err := env.biens.UpdateBien(ctx, draft.ID, p)
	if err != nil {
		t.Fatalf("UpdateBien() 返回错误: %v", err)
	}
	if vo.StatutAnnonce != model.AnnonceEnAttente {
		t.Errorf("StatutAnnonce = %s, 期望 EN_ATTENTE", vo.StatutAnnonce)
	}
	if len(vo.Photos) != 3 || vo.Photos[0] != draft.Photos[1] {
		t.Errorf("图片顺序错误: %v", vo.Photos)
	}
	if vo.Titre != "Villa Ngor" {
		t.Errorf("Titre = %s", vo.Titre)
	}

	// 待审核状态不可直接修改
	_, err = env.biens.UpdateBien(ctx, draft.ID, validPayload(3))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("待审核房源修改 error = %v, 期望 ErrInvalidStatus", err)
	}
}

func TestBienService_UpdateBien_UnknownExistingPhoto(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	draft, err := env.biens.CreateBien(ctx, &dto.BienPayload{Titre: "Brouillon", Brouillon: true})
	if err != nil {
		t.Fatalf("CreateBien() 返回错误: %v", err)
	}
	p := validPayload(2)
	p.ExistingPhotos = []string{"http://elsewhere/x.png"}
	_, err = env.biens.UpdateBien(ctx, draft.ID, p)
	if !errors.Is(err, ValidationError("Photo existante inconnue")) {
		t.Errorf("UpdateBien() error = %v, 期望拒绝未知图片", err)
	}
}

func TestBienService_ReviewFlow(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	vo, err := env.biens.CreateBien(ctx, validPayload(3))
	if err != nil {
		t.Fatalf("CreateBien() 返回错误: %v", err)
	}

	if _, err := env.biens.Reject(ctx, vo.ID, " "); !errors.Is(err, ValidationError("Le motif de rejet est requis")) {
		t.Errorf("空驳回理由 error = %v", err)
	}
	rejected, err := env.biens.Reject(ctx, vo.ID, "Photos floues")
	if err != nil {
		t.Fatalf("Reject() 返回错误: %v", err)
	}
	if rejected.StatutAnnonce != model.AnnonceRejete || rejected.MotifRejet != "Photos floues" {
		t.Errorf("驳回后状态 = %s / %s", rejected.StatutAnnonce, rejected.MotifRejet)
	}

	// 驳回后可修改并重新提交，驳回理由清空
	resubmitted, err := env.biens.UpdateBien(ctx, vo.ID, validPayload(3))
	if err != nil {
		t.Fatalf("UpdateBien() 返回错误: %v", err)
	}
	if resubmitted.MotifRejet != "" {
		t.Errorf("重新提交后 MotifRejet = %q, 期望为空", resubmitted.MotifRejet)
	}

	published, err := env.biens.Publish(ctx, vo.ID)
	if err != nil {
		t.Fatalf("Publish() 返回错误: %v", err)
	}
	if published.StatutAnnonce != model.AnnoncePublie {
		t.Errorf("StatutAnnonce = %s, 期望 PUBLIE", published.StatutAnnonce)
	}
	if _, err := env.biens.Publish(ctx, vo.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("重复发布 error = %v, 期望 ErrInvalidStatus", err)
	}
}

func TestBienService_SubmitRevision(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	current, _ := env.biens.GetBien(ctx, bien.ID)

	p := validPayload(1)
	p.Titre = "Appartement Mermoz rénové"
	p.ExistingPhotos = current.Photos[:2]
	p.MainPhotoExisting = true

	rev, err := env.biens.SubmitRevision(ctx, bien.ID, p)
	if err != nil {
		t.Fatalf("SubmitRevision() 返回错误: %v", err)
	}
	if rev.Statut != model.RevisionEnAttente {
		t.Errorf("修订状态 = %s", rev.Statut)
	}

	// 审核前线上内容不变
	online, _ := env.biens.GetBien(ctx, bien.ID)
	if online.Titre != "Appartement Mermoz" {
		t.Errorf("审核前标题被修改: %s", online.Titre)
	}
	if !online.HasPendingRevision {
		t.Error("HasPendingRevision 应为 true")
	}

	// 同一房源只允许一份待审核修订
	if _, err := env.biens.SubmitRevision(ctx, bien.ID, validPayload(3)); !errors.Is(err, ErrRevisionPending) {
		t.Errorf("重复提交修订 error = %v, 期望 ErrRevisionPending", err)
	}

	approved, err := env.biens.ApproveRevision(ctx, rev.ID)
	if err != nil {
		t.Fatalf("ApproveRevision() 返回错误: %v", err)
	}
	if approved.Titre != "Appartement Mermoz rénové" {
		t.Errorf("审核后标题 = %s", approved.Titre)
	}
	if approved.HasPendingRevision {
		t.Error("审核后 HasPendingRevision 应为 false")
	}
	if approved.StatutAnnonce != model.AnnoncePublie {
		t.Errorf("审核后 StatutAnnonce = %s, 期望保持 PUBLIE", approved.StatutAnnonce)
	}
	if len(approved.Photos) != 3 || approved.Photos[0] != current.Photos[0] {
		t.Errorf("审核后图片 = %v", approved.Photos)
	}
}

func TestBienService_SubmitRevision_AlwaysFullValidation(t *testing.T) {
	env := setupServiceEnv(t)
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)

	p := validPayload(1)
	p.Brouillon = true
	_, err := env.biens.SubmitRevision(context.Background(), bien.ID, p)
	if !errors.Is(err, ValidationError("Minimum 3 photos requises")) {
		t.Errorf("SubmitRevision() error = %v, 期望完整校验", err)
	}
}

func TestBienService_SubmitRevision_NotPublished(t *testing.T) {
	env := setupServiceEnv(t)
	bien := env.seedBien(t, model.AnnonceBrouillon, testLocation)

	_, err := env.biens.SubmitRevision(context.Background(), bien.ID, validPayload(3))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("SubmitRevision() error = %v, 期望 ErrInvalidStatus", err)
	}
}

func TestBienService_RejectRevision(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)

	rev, err := env.biens.SubmitRevision(ctx, bien.ID, validPayload(3))
	if err != nil {
		t.Fatalf("SubmitRevision() 返回错误: %v", err)
	}
	rejected, err := env.biens.RejectRevision(ctx, rev.ID, "Prix incohérent")
	if err != nil {
		t.Fatalf("RejectRevision() 返回错误: %v", err)
	}
	if rejected.Statut != model.RevisionRejetee || rejected.Motif != "Prix incohérent" {
		t.Errorf("驳回后修订 = %+v", rejected)
	}

	online, _ := env.biens.GetBien(ctx, bien.ID)
	if online.HasPendingRevision {
		t.Error("驳回后 HasPendingRevision 应为 false")
	}
	if online.Prix != 300000 {
		t.Errorf("驳回后线上价格被修改: %.0f", online.Prix)
	}

	// 可以再次提交
	if _, err := env.biens.SubmitRevision(ctx, bien.ID, validPayload(3)); err != nil {
		t.Errorf("驳回后再次提交修订失败: %v", err)
	}
}

func TestBienService_CancelAndDelete_ActiveLease(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)

	if _, err := env.baux.CreateBail(ctx, &dto.CreateBailRequest{
		BienID: bien.ID, LocataireID: loc.ID, TypeBail: model.TypeBailHabitation,
		DateDebutBail: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateBail() 返回错误: %v", err)
	}

	if _, err := env.biens.Cancel(ctx, bien.ID); !errors.Is(err, ErrActiveLeaseExists) {
		t.Errorf("Cancel() error = %v, 期望 ErrActiveLeaseExists", err)
	}
	if err := env.biens.DeleteBien(ctx, bien.ID); !errors.Is(err, ErrActiveLeaseExists) {
		t.Errorf("DeleteBien() error = %v, 期望 ErrActiveLeaseExists", err)
	}
}

func TestBienService_Cancel_RejectsPendingRevision(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)

	rev, err := env.biens.SubmitRevision(ctx, bien.ID, validPayload(3))
	if err != nil {
		t.Fatalf("SubmitRevision() 返回错误: %v", err)
	}
	vo, err := env.biens.Cancel(ctx, bien.ID)
	if err != nil {
		t.Fatalf("Cancel() 返回错误: %v", err)
	}
	if vo.StatutAnnonce != model.AnnonceAnnule || vo.HasPendingRevision {
		t.Errorf("取消后 = %s / pending=%v", vo.StatutAnnonce, vo.HasPendingRevision)
	}

	stored, err := env.uow.Revisions.GetByID(ctx, rev.ID)
	if err != nil {
		t.Fatalf("GetByID() 返回错误: %v", err)
	}
	if stored.Statut != model.RevisionRejetee {
		t.Errorf("取消后修订状态 = %s, 期望 REJETEE", stored.Statut)
	}
}

func TestBienService_DeleteBien(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	vo, err := env.biens.CreateBien(ctx, validPayload(3))
	if err != nil {
		t.Fatalf("CreateBien() 返回错误: %v", err)
	}
	if err := env.biens.DeleteBien(ctx, vo.ID); err != nil {
		t.Fatalf("DeleteBien() 返回错误: %v", err)
	}
	if _, err := env.biens.GetBien(ctx, vo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后 GetBien() error = %v, 期望 ErrNotFound", err)
	}
}

func TestBienService_BiensDisponibles(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	libre := env.seedBien(t, model.AnnoncePublie, testLocation)
	env.seedBien(t, model.AnnoncePublie, testVente)
	env.seedBien(t, model.AnnonceEnAttente, testLocation)

	items, err := env.biens.BiensDisponibles(ctx)
	if err != nil {
		t.Fatalf("BiensDisponibles() 返回错误: %v", err)
	}
	if len(items) != 1 || items[0].ID != libre.ID {
		t.Errorf("BiensDisponibles() = %d 条, 期望只有出租中已发布空置房源", len(items))
	}
}
