package listing

import (
	"context"
	"sync"

	"seek_immo_v1_202610/internal/api/dto"
)

type mockGateway struct {
	GetBienFn          func(ctx context.Context, id int64) (*dto.BienVO, error)
	CreateBienFn       func(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error)
	UpdateBienFn       func(ctx context.Context, id int64, p *dto.BienPayload) (*dto.BienVO, error)
	SubmitRevisionFn   func(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error)
	BiensDisponiblesFn func(ctx context.Context) ([]dto.BienVO, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockGateway) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *mockGateway) GetBien(ctx context.Context, id int64) (*dto.BienVO, error) {
	m.record("GetBien")
	return m.GetBienFn(ctx, id)
}

func (m *mockGateway) CreateBien(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
	m.record("CreateBien")
	if m.CreateBienFn != nil {
		return m.CreateBienFn(ctx, p)
	}
	return &dto.BienVO{ID: 1}, nil
}

func (m *mockGateway) UpdateBien(ctx context.Context, id int64, p *dto.BienPayload) (*dto.BienVO, error) {
	m.record("UpdateBien")
	if m.UpdateBienFn != nil {
		return m.UpdateBienFn(ctx, id, p)
	}
	return &dto.BienVO{ID: id}, nil
}

func (m *mockGateway) SubmitRevision(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error) {
	m.record("SubmitRevision")
	if m.SubmitRevisionFn != nil {
		return m.SubmitRevisionFn(ctx, id, p)
	}
	return &dto.RevisionVO{ID: 7, BienID: id}, nil
}

func (m *mockGateway) BiensDisponibles(ctx context.Context) ([]dto.BienVO, error) {
	m.record("BiensDisponibles")
	if m.BiensDisponiblesFn != nil {
		return m.BiensDisponiblesFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// mockLookups 固定的参考数据，记录调用次数
type mockLookups struct {
	mu     sync.Mutex
	counts map[string]int
	// VillesFn 为空时返回默认城市
	VillesFn func(ctx context.Context, paysID int64) ([]dto.Option, error)
}

func newMockLookups() *mockLookups {
	return &mockLookups{counts: map[string]int{}}
}

func (m *mockLookups) hit(name string) {
	m.mu.Lock()
	m.counts[name]++
	m.mu.Unlock()
}

func (m *mockLookups) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func (m *mockLookups) TypesLogement(ctx context.Context) ([]dto.Option, error) {
	m.hit("types_logement")
	return []dto.Option{{ID: 1, Libelle: "Appartement"}, {ID: 2, Libelle: "Villa"}}, nil
}

func (m *mockLookups) TypesTransaction(ctx context.Context) ([]dto.Option, error) {
	m.hit("types_transaction")
	return []dto.Option{{ID: 1, Code: "location", Libelle: "Location"}, {ID: 2, Code: "vente", Libelle: "Vente"}}, nil
}

func (m *mockLookups) Statuts(ctx context.Context) ([]dto.Option, error) {
	m.hit("statuts")
	return []dto.Option{{ID: 1, Code: "libre", Libelle: "Libre"}, {ID: 2, Code: "occupe", Libelle: "Occupé"}}, nil
}

func (m *mockLookups) Equipements(ctx context.Context) ([]dto.OptionGroup, error) {
	m.hit("equipements")
	return []dto.OptionGroup{{ID: 1, Libelle: "Confort", Options: []dto.Option{{ID: 1, Libelle: "Climatisation"}}}}, nil
}

func (m *mockLookups) Meubles(ctx context.Context) ([]dto.OptionGroup, error) {
	m.hit("meubles")
	return []dto.OptionGroup{{ID: 1, Libelle: "Salon", Options: []dto.Option{{ID: 4, Libelle: "Canapé"}}}}, nil
}

func (m *mockLookups) Pays(ctx context.Context) ([]dto.Option, error) {
	m.hit("pays")
	return []dto.Option{{ID: 1, Code: "SN", Libelle: "Sénégal"}}, nil
}

func (m *mockLookups) Villes(ctx context.Context, paysID int64) ([]dto.Option, error) {
	m.hit("villes")
	if m.VillesFn != nil {
		return m.VillesFn(ctx, paysID)
	}
	if paysID != 1 {
		return nil, nil
	}
	return []dto.Option{{ID: 10, Libelle: "Dakar"}, {ID: 11, Libelle: "Thiès"}}, nil
}

var pngData = []byte("\x89PNG\r\n\x1a\n-photo")

func newPhoto(name string) PhotoFile {
	return PhotoFile{Filename: name, ContentType: "image/png", Data: append(append([]byte{}, pngData...), name...)}
}

// completeForm 所有标签页都能通过的表单
func completeForm() *Form {
	f := NewForm()
	f.TypeLogementID = 1
	f.Titre = "Villa Saly"
	f.PaysID = 1
	f.VilleID = 10
	f.TypeTransactionID = 1
	f.StatutBienID = 1
	f.StatutCode = "libre"
	f.Prix = "450000"
	_ = f.AddPhotos(newPhoto("a.png"), newPhoto("b.png"), newPhoto("c.png"))
	return f
}

func publishedBien() *dto.BienVO {
	return &dto.BienVO{
		ID:                42,
		TypeLogementID:    1,
		TypeTransactionID: 1,
		StatutBienID:      1,
		Titre:             "Appartement Fann",
		PaysID:            1,
		PaysNom:           "Sénégal",
		VilleID:           10,
		VilleNom:          "Dakar",
		Prix:              350000,
		Frequence:         "mensuelle",
		EquipementIDs:     []int64{3, 1},
		Meubles:           []dto.MeubleQuantite{{MeubleID: 4, Quantite: 2}},
		Photos:            []string{"https://cdn/1.jpg", "https://cdn/2.jpg", "https://cdn/3.jpg"},
		StatutAnnonce:     "PUBLIE",
	}
}
