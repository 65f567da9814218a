package leasing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
	"seek_immo_v1_202610/internal/service"
)

// 内嵌模式下服务直接作为网关
var (
	_ BailGateway      = (*service.BailService)(nil)
	_ LocataireGateway = (*service.LocataireService)(nil)
	_ ContratGateway   = (*service.ContratService)(nil)
	_ BienReader       = (*service.BienService)(nil)
)

type embeddedEnv struct {
	uow      *repository.SeekUnitOfWork
	biens    *service.BienService
	baux     *service.BailService
	locs     *service.LocataireService
	contrats *service.ContratService
}

func setupEmbedded(t *testing.T) *embeddedEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	ctx := context.Background()
	lookupRepo := repository.NewLookupRepository(db)
	if err := service.NewLookupService(lookupRepo).SeedDefaults(ctx); err != nil {
		t.Fatalf("初始化参考数据失败: %v", err)
	}
	storage, err := service.NewLocalStorage(&service.StorageConfig{BasePath: t.TempDir(), PublicURL: "http://test/uploads"})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}

	uow := repository.NewSeekUnitOfWork(db)
	notifier := service.NewWebhookNotifier("")
	contrats := service.NewContratService(uow, notifier)
	if err := contrats.SeedTemplates(ctx); err != nil {
		t.Fatalf("初始化合同模板失败: %v", err)
	}

	return &embeddedEnv{
		uow:      uow,
		biens:    service.NewBienService(uow, lookupRepo, storage, notifier),
		baux:     service.NewBailService(uow),
		locs:     service.NewLocataireService(uow),
		contrats: contrats,
	}
}

func (e *embeddedEnv) seedBien(t *testing.T) int64 {
	b := &model.Bien{
		TypeLogementID:    1,
		TypeTransactionID: 1,
		StatutBienID:      1,
		Titre:             "Studio Point E",
		Quartier:          "Point E",
		PaysID:            1,
		VilleID:           1,
		Prix:              250000,
		Frequence:         model.FrequenceMensuelle,
		StatutAnnonce:     model.AnnoncePublie,
		Occupation:        model.OccupationLibre,
	}
	if err := e.uow.Biens.Create(context.Background(), b); err != nil {
		t.Fatalf("创建房源失败: %v", err)
	}
	return b.ID
}

func TestEmbedded_EndOpenEndedLease(t *testing.T) {
	env := setupEmbedded(t)
	ctx := context.Background()
	bienID := env.seedBien(t)

	flow := NewContractFlow(env.locs, env.baux, env.contrats, nil)
	f, err := flow.Start(ctx, &StartRequest{
		Locataire: &dto.LocataireRequest{Nom: "Diallo", Prenom: "Moussa", Email: "moussa@example.sn"},
		Bail:      dto.CreateBailRequest{BienID: bienID, TypeBail: model.TypeBailHabitation, DateDebutBail: day(2026, 2, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, FlowContractReady, f.State)
	require.NoError(t, flow.Validate(ctx, f))
	assert.Equal(t, 250000.0, f.Bail.MontantLoyer)

	o := NewOrchestrator(env.biens, env.baux, nil)
	v, err := o.View(ctx, bienID)
	require.NoError(t, err)
	assert.Equal(t, []Transition{TransitionEnd, TransitionExtend}, v.Transitions)

	bail, err := o.End(ctx, f.Bail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BailTermine, bail.Statut)

	bien, err := env.biens.GetBien(ctx, bienID)
	require.NoError(t, err)
	assert.Equal(t, model.OccupationLibre, bien.Occupation)
	assert.NotContains(t, AllowedTransitions(bien, bail), TransitionRescind)
}

func TestEmbedded_NoTemplateRollback(t *testing.T) {
	env := setupEmbedded(t)
	ctx := context.Background()
	bienID := env.seedBien(t)

	flow := NewContractFlow(env.locs, env.baux, env.contrats, nil)
	f, err := flow.Start(ctx, &StartRequest{
		Locataire: &dto.LocataireRequest{Nom: "Sow", Prenom: "Fatou", Telephone: "+221770000000"},
		Bail:      dto.CreateBailRequest{BienID: bienID, TypeBail: model.TypeBailMixte, DateDebutBail: day(2026, 2, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, FlowGenerationFailed, f.State)

	require.NoError(t, flow.Dismiss(ctx, f))

	bail, err := env.baux.GetBail(ctx, f.Bail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BailAnnule, bail.Statut)
	_, err = env.locs.GetLocataire(ctx, f.Locataire.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	bien, err := env.biens.GetBien(ctx, bienID)
	require.NoError(t, err)
	assert.Equal(t, model.OccupationLibre, bien.Occupation)
}
