package leasing

import (
	"context"
	"errors"
	"sync"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
)

// calls 记录调用顺序
type calls struct {
	mu    sync.Mutex
	names []string
}

func (c *calls) record(name string) {
	c.mu.Lock()
	c.names = append(c.names, name)
	c.mu.Unlock()
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.names...)
}

var errRemote = errors.New("remote failure")

// mockBaux 内存中的租约
type mockBaux struct {
	*calls
	baux map[int64]*dto.BailVO

	CreateBailFn  func(ctx context.Context, req *dto.CreateBailRequest) (*dto.BailVO, error)
	AnnulerBailFn func(ctx context.Context, id int64) (*dto.BailVO, error)
	TerminerFn    func(ctx context.Context, id int64) error
}

func newMockBaux(c *calls, baux ...*dto.BailVO) *mockBaux {
	m := &mockBaux{calls: c, baux: map[int64]*dto.BailVO{}}
	for _, b := range baux {
		m.baux[b.ID] = b
	}
	return m
}

func (m *mockBaux) get(id int64) (*dto.BailVO, error) {
	b, ok := m.baux[id]
	if !ok {
		return nil, errors.New("bail introuvable")
	}
	cp := *b
	return &cp, nil
}

func (m *mockBaux) GetBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	m.record("GetBail")
	return m.get(id)
}

func (m *mockBaux) GetActiveBailByBien(ctx context.Context, bienID int64) (*dto.BailVO, error) {
	m.record("GetActiveBailByBien")
	for _, b := range m.baux {
		if b.BienID == bienID && b.Statut == model.BailActif {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockBaux) CreateBail(ctx context.Context, req *dto.CreateBailRequest) (*dto.BailVO, error) {
	m.record("CreateBail")
	if m.CreateBailFn != nil {
		return m.CreateBailFn(ctx, req)
	}
	b := &dto.BailVO{
		ID: 100, BienID: req.BienID, LocataireID: req.LocataireID, TypeBail: req.TypeBail,
		DateDebutBail: req.DateDebutBail, DateFinBail: req.DateFinBail, Statut: model.BailActif,
	}
	m.baux[b.ID] = b
	return b, nil
}

func (m *mockBaux) TerminerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	m.record("TerminerBail")
	if m.TerminerFn != nil {
		if err := m.TerminerFn(ctx, id); err != nil {
			return nil, err
		}
	}
	m.baux[id].Statut = model.BailTermine
	return m.get(id)
}

func (m *mockBaux) ResilierBail(ctx context.Context, id int64, motif string) (*dto.BailVO, error) {
	m.record("ResilierBail")
	m.baux[id].Statut = model.BailResilie
	m.baux[id].MotifResiliation = motif
	return m.get(id)
}

func (m *mockBaux) ProlongerBail(ctx context.Context, id int64, dateFin time.Time) (*dto.BailVO, error) {
	m.record("ProlongerBail")
	m.baux[id].DateFinBail = &dateFin
	return m.get(id)
}

func (m *mockBaux) AnnulerBail(ctx context.Context, id int64) (*dto.BailVO, error) {
	m.record("AnnulerBail")
	if m.AnnulerBailFn != nil {
		return m.AnnulerBailFn(ctx, id)
	}
	m.baux[id].Statut = model.BailAnnule
	return m.get(id)
}

type mockLocataires struct {
	*calls
	CreateFn func(ctx context.Context, req *dto.LocataireRequest) (*dto.LocataireVO, error)
	DeleteFn func(ctx context.Context, id int64) error
	deleted  []int64
}

func (m *mockLocataires) CreateLocataire(ctx context.Context, req *dto.LocataireRequest) (*dto.LocataireVO, error) {
	m.record("CreateLocataire")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return &dto.LocataireVO{ID: 7, Nom: req.Nom, Prenom: req.Prenom}, nil
}

func (m *mockLocataires) DeleteLocataire(ctx context.Context, id int64) error {
	m.record("DeleteLocataire")
	m.deleted = append(m.deleted, id)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

type mockContrats struct {
	*calls
	GenerateFn func(ctx context.Context, bailID int64) (*dto.ContratVO, error)
	EnvoyerFn  func(ctx context.Context, id int64) (*dto.ContratVO, error)
	contrat    *dto.ContratVO
}

func (m *mockContrats) GetContratByBail(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	m.record("GetContratByBail")
	if m.contrat == nil {
		return nil, errors.New("contrat introuvable")
	}
	return m.contrat, nil
}

func (m *mockContrats) GenerateContrat(ctx context.Context, bailID int64) (*dto.ContratVO, error) {
	m.record("GenerateContrat")
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, bailID)
	}
	m.contrat = &dto.ContratVO{ID: 50, BailID: bailID, Statut: model.ContratBrouillon}
	return m.contrat, nil
}

func (m *mockContrats) EnvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	m.record("EnvoyerContrat")
	if m.EnvoyerFn != nil {
		return m.EnvoyerFn(ctx, id)
	}
	m.contrat.Statut = model.ContratActif
	m.contrat.NbEnvois++
	return m.contrat, nil
}

func (m *mockContrats) RenvoyerContrat(ctx context.Context, id int64) (*dto.ContratVO, error) {
	m.record("RenvoyerContrat")
	m.contrat.NbEnvois++
	return m.contrat, nil
}

type mockBiens struct {
	bien *dto.BienVO
}

func (m *mockBiens) GetBien(ctx context.Context, id int64) (*dto.BienVO, error) {
	return m.bien, nil
}

type mockCache struct {
	invalidated []string
}

func (m *mockCache) Invalidate(name string) {
	m.invalidated = append(m.invalidated, name)
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func activeBail(id int64, fin *time.Time) *dto.BailVO {
	return &dto.BailVO{
		ID: id, BienID: 1, LocataireID: 7, TypeBail: model.TypeBailHabitation,
		DateDebutBail: day(2026, 1, 1), DateFinBail: fin, Statut: model.BailActif,
		MontantLoyer: 300000,
	}
}

func locationBien() *dto.BienVO {
	return &dto.BienVO{
		ID: 1, TypeTransactionCode: model.TransactionLocation,
		StatutAnnonce: model.AnnoncePublie, Occupation: model.OccupationLibre, Prix: 300000,
	}
}
