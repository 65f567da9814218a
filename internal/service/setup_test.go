package service

import (
	"context"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
	"seek_immo_v1_202610/internal/repository"
)

// 默认参考数据写入后的 ID
const (
	testTypeLogement = 1
	testLocation     = 1
	testVente        = 2
	testStatutLibre  = 1
	testStatutOccupe = 2
	testPays         = 1
	testVille        = 1
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n-fake-image-body")

// ==================== Mock ====================

type mockNotifier struct {
	NotifyFn func(ctx context.Context, n *Notification) error

	mu   sync.Mutex
	sent []*Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n *Notification) error {
	if m.NotifyFn != nil {
		if err := m.NotifyFn(ctx, n); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ==================== 环境 ====================

type testEnv struct {
	db        *gorm.DB
	uow       *repository.SeekUnitOfWork
	notifier  *mockNotifier
	biens     *BienService
	baux      *BailService
	locs      *LocataireService
	contrats  *ContratService
	storage   StorageProvider
	lookupSvc *LookupService
}

func setupServiceEnv(t *testing.T) *testEnv {
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

	lookupRepo := repository.NewLookupRepository(db)
	lookupSvc := NewLookupService(lookupRepo)
	if err := lookupSvc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("初始化参考数据失败: %v", err)
	}

	storage, err := NewLocalStorage(&StorageConfig{BasePath: t.TempDir(), PublicURL: "http://test/uploads"})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}

	uow := repository.NewSeekUnitOfWork(db)
	notifier := &mockNotifier{}
	contrats := NewContratService(uow, notifier)
	if err := contrats.SeedTemplates(context.Background()); err != nil {
		t.Fatalf("初始化合同模板失败: %v", err)
	}

	return &testEnv{
		db:        db,
		uow:       uow,
		notifier:  notifier,
		biens:     NewBienService(uow, lookupRepo, storage, notifier),
		baux:      NewBailService(uow),
		locs:      NewLocataireService(uow),
		contrats:  contrats,
		storage:   storage,
		lookupSvc: lookupSvc,
	}
}

func photos(n int) []dto.PhotoUpload {
	out := make([]dto.PhotoUpload, n)
	for i := range out {
		out[i] = dto.PhotoUpload{Filename: "photo.png", ContentType: "image/png", Data: pngBytes}
	}
	return out
}

func validPayload(nPhotos int) *dto.BienPayload {
	return &dto.BienPayload{
		TypeLogementID:    testTypeLogement,
		TypeTransactionID: testLocation,
		StatutBienID:      testStatutLibre,
		Titre:             "Villa Ngor",
		PaysID:            testPays,
		VilleID:           testVille,
		Quartier:          "Ngor Virage",
		NbChambres:        3,
		Prix:              450000,
		Frequence:         model.FrequenceMensuelle,
		Photos:            photos(nPhotos),
	}
}

// seedBien 直接落库一个房源
func (e *testEnv) seedBien(t *testing.T, statut string, typeTransaction int64) *model.Bien {
	caution := 900000.0
	b := &model.Bien{
		TypeLogementID:    testTypeLogement,
		TypeTransactionID: typeTransaction,
		StatutBienID:      testStatutLibre,
		Titre:             "Appartement Mermoz",
		Quartier:          "Mermoz",
		PaysID:            testPays,
		VilleID:           testVille,
		Prix:              300000,
		Caution:           &caution,
		Frequence:         model.FrequenceMensuelle,
		StatutAnnonce:     statut,
		Occupation:        model.OccupationLibre,
	}
	if err := e.uow.Biens.Create(context.Background(), b); err != nil {
		t.Fatalf("创建房源失败: %v", err)
	}
	if err := e.uow.Biens.ReplacePhotos(context.Background(), b.ID, buildPhotos([]string{
		"http://test/uploads/a.png", "http://test/uploads/b.png", "http://test/uploads/c.png",
	})); err != nil {
		t.Fatalf("写入图片失败: %v", err)
	}
	return b
}

func (e *testEnv) seedLocataire(t *testing.T) *dto.LocataireVO {
	loc, err := e.locs.CreateLocataire(context.Background(), &dto.LocataireRequest{
		Nom: "Ndiaye", Prenom: "Awa", Email: "awa@example.sn",
	})
	if err != nil {
		t.Fatalf("创建租客失败: %v", err)
	}
	return loc
}
