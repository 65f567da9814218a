package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seek_immo_v1_202610/internal/api/dto"
)

type remoteErr struct{ msg string }

func (e *remoteErr) Error() string       { return "remote: " + e.msg }
func (e *remoteErr) UserMessage() string { return e.msg }

func newOrchestrator(gw *mockGateway) (*Orchestrator, *mockLookups) {
	lk := newMockLookups()
	return NewOrchestrator(gw, NewLookupCache(lk, gw)), lk
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		ec   EditContext
		want Action
	}{
		{"新建", EditContext{}, Action{Kind: ActionCreate, SubmitEnabled: true, CanSaveDraft: true}},
		{"草稿未修改", EditContext{EditID: 1, Statut: "BROUILLON"}, Action{Kind: ActionUpdate}},
		{"草稿已修改", EditContext{EditID: 1, Statut: "BROUILLON", Dirty: true}, Action{Kind: ActionUpdate, SubmitEnabled: true, CanSaveDraft: true}},
		{"被驳回已修改", EditContext{EditID: 1, Statut: "REJETE", Dirty: true}, Action{Kind: ActionUpdate, SubmitEnabled: true, CanSaveDraft: true}},
		{"已发布未修改", EditContext{EditID: 1, Statut: "PUBLIE"}, Action{Kind: ActionSubmitRevision}},
		{"已发布已修改", EditContext{EditID: 1, Statut: "PUBLIE", Dirty: true}, Action{Kind: ActionSubmitRevision, SubmitEnabled: true}},
		{"已发布有待审修订", EditContext{EditID: 1, Statut: "PUBLIE", Dirty: true, PendingRevision: true}, Action{Kind: ActionSubmitRevision}},
		{"待审核", EditContext{EditID: 1, Statut: "EN_ATTENTE", Dirty: true}, Action{Kind: ActionForbidden}},
		{"已取消", EditContext{EditID: 1, Statut: "ANNULE"}, Action{Kind: ActionForbidden}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.ec)
			tt.want.KindName = tt.want.Kind.String()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPayload_MainPhotoFirst(t *testing.T) {
	f := completeForm()
	require.NoError(t, f.SetMain(NewAt{Index: 2}))

	p := BuildPayload(f, false)
	require.Len(t, p.Photos, 3)
	assert.Equal(t, []string{"c.png", "a.png", "b.png"}, []string{p.Photos[0].Filename, p.Photos[1].Filename, p.Photos[2].Filename})
	assert.False(t, p.MainPhotoExisting)
	assert.Equal(t, 450000.0, p.Prix)

	f.ExistingPhotoURLs = []string{"https://cdn/1.jpg"}
	f.Main = ExistingFirst{}
	p = BuildPayload(f, true)
	assert.True(t, p.MainPhotoExisting)
	assert.True(t, p.Brouillon)
	assert.Equal(t, "a.png", p.Photos[0].Filename, "主图为已有图片时新图片保持原顺序")
	assert.Equal(t, []string{"https://cdn/1.jpg"}, p.ExistingPhotos)
}

func TestOrchestrator_CreatePath(t *testing.T) {
	gw := &mockGateway{
		CreateBienFn: func(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
			assert.False(t, p.Brouillon)
			return &dto.BienVO{ID: 5}, nil
		},
	}
	o, _ := newOrchestrator(gw)
	ctx := context.Background()

	st, err := o.Open(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, st.Lookups.TypesLogement, 2)
	st.Wizard.Form = completeForm()

	res, err := o.Submit(ctx, st, false)
	require.NoError(t, err)
	assert.Equal(t, &SubmitResult{BienID: 5, Kind: "create", Redirect: "/biens"}, res)
	assert.Equal(t, []string{"CreateBien"}, gw.called())
}

func TestOrchestrator_DraftSkipsFullValidation(t *testing.T) {
	gw := &mockGateway{
		CreateBienFn: func(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
			assert.True(t, p.Brouillon)
			return &dto.BienVO{ID: 6}, nil
		},
	}
	o, _ := newOrchestrator(gw)
	st, _ := o.Open(context.Background(), 0)
	st.Wizard.Form.Titre = "Brouillon rapide"

	res, err := o.Submit(context.Background(), st, true)
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.BienID)
}

func TestOrchestrator_ValidationNeverReachesNetwork(t *testing.T) {
	gw := &mockGateway{}
	o, _ := newOrchestrator(gw)
	st, _ := o.Open(context.Background(), 0)
	st.Wizard.Form = completeForm()
	st.Wizard.Form.Photos = st.Wizard.Form.Photos[:2]

	_, err := o.Submit(context.Background(), st, false)
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgPhotosMin, ve["photos"])
	assert.Equal(t, TabMedias, st.Wizard.Current, "跳到第一个失败的标签页")
	assert.Empty(t, gw.called())
}

func TestOrchestrator_PublishedGoesToRevision(t *testing.T) {
	gw := &mockGateway{
		GetBienFn: func(ctx context.Context, id int64) (*dto.BienVO, error) { return publishedBien(), nil },
		SubmitRevisionFn: func(ctx context.Context, id int64, p *dto.BienPayload) (*dto.RevisionVO, error) {
			assert.Equal(t, int64(42), id)
			assert.False(t, p.Brouillon)
			assert.Equal(t, []string{"https://cdn/1.jpg", "https://cdn/2.jpg", "https://cdn/3.jpg"}, p.ExistingPhotos)
			return &dto.RevisionVO{ID: 9, BienID: id}, nil
		},
	}
	o, _ := newOrchestrator(gw)
	ctx := context.Background()

	st, err := o.Open(ctx, 42)
	require.NoError(t, err)

	// 未修改时按钮禁用
	action := st.Action()
	assert.Equal(t, ActionSubmitRevision, action.Kind)
	assert.False(t, action.SubmitEnabled)
	_, err = o.Submit(ctx, st, false)
	assert.ErrorIs(t, err, ErrNothingToSubmit)

	// 已发布房源不能存草稿
	st.Wizard.Form.Description = "Vue mer"
	_, err = o.Submit(ctx, st, true)
	assert.ErrorIs(t, err, ErrNothingToSubmit)

	res, err := o.Submit(ctx, st, false)
	require.NoError(t, err)
	assert.Equal(t, "/biens/42", res.Redirect)
	assert.Equal(t, int64(9), res.RevisionID)
	assert.Equal(t, []string{"GetBien", "SubmitRevision"}, gw.called(), "只调用修订接口，不调用普通修改")
}

func TestOrchestrator_UpdateDraft(t *testing.T) {
	draft := publishedBien()
	draft.StatutAnnonce = "REJETE"
	gw := &mockGateway{
		GetBienFn: func(ctx context.Context, id int64) (*dto.BienVO, error) { return draft, nil },
	}
	o, _ := newOrchestrator(gw)
	ctx := context.Background()

	st, err := o.Open(ctx, 42)
	require.NoError(t, err)
	_, err = o.Submit(ctx, st, false)
	assert.ErrorIs(t, err, ErrNothingToSubmit)

	st.Wizard.Form.Prix = "375000"
	res, err := o.Submit(ctx, st, false)
	require.NoError(t, err)
	assert.Equal(t, "/biens", res.Redirect)
	assert.Equal(t, "update", res.Kind)
	assert.Equal(t, []string{"GetBien", "UpdateBien"}, gw.called())
}

func TestOrchestrator_OpenForbidden(t *testing.T) {
	pending := publishedBien()
	pending.StatutAnnonce = "EN_ATTENTE"
	gw := &mockGateway{
		GetBienFn: func(ctx context.Context, id int64) (*dto.BienVO, error) { return pending, nil },
	}
	o, _ := newOrchestrator(gw)
	_, err := o.Open(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEditForbidden)
}

func TestOrchestrator_RemoteFailureKeepsState(t *testing.T) {
	gw := &mockGateway{
		CreateBienFn: func(ctx context.Context, p *dto.BienPayload) (*dto.BienVO, error) {
			return nil, &remoteErr{msg: "Le titre existe déjà"}
		},
	}
	o, _ := newOrchestrator(gw)
	ctx := context.Background()
	st, _ := o.Open(ctx, 0)
	st.Wizard.Form = completeForm()
	st.Wizard.Current = TabMedias

	_, err := o.Submit(ctx, st, false)
	require.Error(t, err)
	assert.Equal(t, "Le titre existe déjà", UserMessage(err))
	assert.Equal(t, TabMedias, st.Wizard.Current)
	assert.Equal(t, "Villa Saly", st.Wizard.Form.Titre)
}

func TestOrchestrator_InvalidatesAvailableList(t *testing.T) {
	gw := &mockGateway{
		BiensDisponiblesFn: func(ctx context.Context) ([]dto.BienVO, error) { return []dto.BienVO{{ID: 1}}, nil },
	}
	o, _ := newOrchestrator(gw)
	ctx := context.Background()

	_, err := o.Lookups().BiensDisponibles(ctx)
	require.NoError(t, err)
	_, _ = o.Lookups().BiensDisponibles(ctx)
	assert.True(t, o.Lookups().Cached(KeyBiensDisponibles))

	st, _ := o.Open(ctx, 0)
	st.Wizard.Form = completeForm()
	_, err = o.Submit(ctx, st, false)
	require.NoError(t, err)
	assert.False(t, o.Lookups().Cached(KeyBiensDisponibles))

	_, _ = o.Lookups().BiensDisponibles(ctx)
	assert.Equal(t, []string{"BiensDisponibles", "CreateBien", "BiensDisponibles"}, gw.called())
}

func TestOrchestrator_SelectPaysAndStatut(t *testing.T) {
	o, lk := newOrchestrator(&mockGateway{})
	ctx := context.Background()
	st, _ := o.Open(ctx, 0)
	st.Wizard.Form.VilleID = 10

	require.NoError(t, o.SelectPays(ctx, st, 1))
	assert.Equal(t, int64(0), st.Wizard.Form.VilleID, "切换国家清空城市")
	assert.Len(t, st.Lookups.Villes, 2)
	require.NoError(t, o.SelectPays(ctx, st, 1))
	assert.Equal(t, 1, lk.count("villes"))

	require.NoError(t, o.SelectStatut(ctx, st, 2))
	assert.Equal(t, "occupe", st.Wizard.Form.StatutCode)
	assert.Error(t, o.SelectStatut(ctx, st, 99))
}

func TestOrchestrator_ResolveFailureLeavesFormUntouched(t *testing.T) {
	o, _ := newOrchestrator(&mockGateway{})
	ctx := context.Background()
	st, _ := o.Open(ctx, 0)
	require.NoError(t, o.SelectPays(ctx, st, 1))
	st.Wizard.Form.VilleID = 10
	villes := st.Lookups.Villes

	pays, statut := int64(2), int64(99)
	_, err := o.Resolve(ctx, st, &pays, &statut)
	require.Error(t, err)

	assert.Equal(t, int64(1), st.Wizard.Form.PaysID)
	assert.Equal(t, int64(10), st.Wizard.Form.VilleID, "状态无效时不应清空城市")
	assert.Equal(t, villes, st.Lookups.Villes)

	statut = 2
	sel, err := o.Resolve(ctx, st, &pays, &statut)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Wizard.Form.PaysID, "Apply 之前表单不变")
	sel.Apply(st)
	assert.Equal(t, int64(2), st.Wizard.Form.PaysID)
	assert.Equal(t, int64(0), st.Wizard.Form.VilleID)
	assert.Equal(t, "occupe", st.Wizard.Form.StatutCode)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, GenericMessage, UserMessage(errors.New("dial tcp: timeout")))
	assert.Equal(t, GenericMessage, UserMessage(&remoteErr{}))
	assert.Equal(t, "Refusé", UserMessage(&remoteErr{msg: "Refusé"}))
	assert.Equal(t, ErrEditForbidden.Error(), UserMessage(ErrEditForbidden))
}
