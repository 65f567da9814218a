package service

import (
	"context"
	"errors"
	"testing"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
)

func TestLocataireService_CreateLocataire(t *testing.T) {
	env := setupServiceEnv(t)

	tests := []struct {
		name    string
		req     dto.LocataireRequest
		wantErr error
	}{
		{name: "缺少姓名", req: dto.LocataireRequest{Nom: "  ", Email: "a@b.sn"}, wantErr: ValidationError("Le nom du locataire est requis")},
		{name: "缺少联系方式", req: dto.LocataireRequest{Nom: "Diop"}, wantErr: ValidationError("Un email ou un téléphone est requis")},
		{name: "只有电话", req: dto.LocataireRequest{Nom: "Diop", Telephone: "+221771112233"}},
		{name: "只有邮箱", req: dto.LocataireRequest{Nom: "Diop", Prenom: "Moussa", Email: "moussa@example.sn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vo, err := env.locs.CreateLocataire(context.Background(), &tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateLocataire() error = %v, 期望 %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateLocataire() 返回错误: %v", err)
			}
			if vo.ID == 0 {
				t.Error("ID 未生成")
			}
		})
	}
}

func TestLocataireService_DeleteLocataire(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	bien := env.seedBien(t, model.AnnoncePublie, testLocation)
	loc := env.seedLocataire(t)
	bail := env.createBail(t, bien.ID, loc.ID, nil)

	if err := env.locs.DeleteLocataire(ctx, loc.ID); !errors.Is(err, ErrLocataireOccupe) {
		t.Errorf("有生效租约时删除 error = %v, 期望 ErrLocataireOccupe", err)
	}

	if _, err := env.baux.AnnulerBail(ctx, bail.ID); err != nil {
		t.Fatalf("AnnulerBail() 返回错误: %v", err)
	}
	if err := env.locs.DeleteLocataire(ctx, loc.ID); err != nil {
		t.Fatalf("DeleteLocataire() 返回错误: %v", err)
	}
	if _, err := env.locs.GetLocataire(ctx, loc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后 GetLocataire() error = %v, 期望 ErrNotFound", err)
	}
	if err := env.locs.DeleteLocataire(ctx, loc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("重复删除 error = %v, 期望 ErrNotFound", err)
	}
}

func TestLocataireService_ListLocataires(t *testing.T) {
	env := setupServiceEnv(t)
	for _, nom := range []string{"Ba", "Cisse", "Diallo"} {
		if _, err := env.locs.CreateLocataire(context.Background(), &dto.LocataireRequest{Nom: nom, Telephone: "+221700000000"}); err != nil {
			t.Fatalf("CreateLocataire() 返回错误: %v", err)
		}
	}

	page, err := env.locs.ListLocataires(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListLocataires() 返回错误: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Errorf("分页结果 total=%d items=%d, 期望 3/2", page.Total, len(page.Items))
	}
}
