package listing

import (
	"context"
	"fmt"
	"log"

	"seek_immo_v1_202610/internal/api/dto"
)

// State 一个向导会话的全部状态
type State struct {
	Wizard          *Wizard
	Lookups         *Lookups
	Comparator      Comparator
	EditID          int64
	Statut          string
	PendingRevision bool
}

// Dirty 表单是否与初始快照不同
func (s *State) Dirty() bool {
	return s.Comparator.IsDirty(s.Wizard.Form)
}

// Action 当前允许的提交操作
func (s *State) Action() Action {
	return Decide(EditContext{
		EditID:          s.EditID,
		Statut:          s.Statut,
		Dirty:           s.Dirty(),
		PendingRevision: s.PendingRevision,
	})
}

// SubmitResult 提交成功后的跳转信息
type SubmitResult struct {
	BienID     int64  `json:"bien_id"`
	RevisionID int64  `json:"revision_id,omitempty"`
	Kind       string `json:"kind"`
	Redirect   string `json:"redirect"`
}

// Orchestrator 房源向导编排：打开 / 提交
type Orchestrator struct {
	gateway ListingGateway
	lookups *LookupCache
}

// NewOrchestrator 创建编排器
func NewOrchestrator(gateway ListingGateway, lookups *LookupCache) *Orchestrator {
	return &Orchestrator{gateway: gateway, lookups: lookups}
}

// Lookups 参考数据缓存
func (o *Orchestrator) Lookups() *LookupCache {
	return o.lookups
}

// Open editID 为 0 时新建，否则拉取房源、等待参考数据后填充并取快照
func (o *Orchestrator) Open(ctx context.Context, editID int64) (*State, error) {
	if editID == 0 {
		lk, err := LoadLookups(ctx, o.lookups)
		if err != nil {
			return nil, err
		}
		return &State{Wizard: NewWizard(NewForm()), Lookups: lk}, nil
	}

	bien, err := o.gateway.GetBien(ctx, editID)
	if err != nil {
		return nil, err
	}
	if Decide(EditContext{EditID: editID, Statut: bien.StatutAnnonce}).Kind == ActionForbidden {
		return nil, ErrEditForbidden
	}

	form, lk, err := Hydrate(ctx, o.lookups, bien)
	if err != nil {
		return nil, err
	}

	st := &State{
		Wizard:          NewWizard(form),
		Lookups:         lk,
		EditID:          editID,
		Statut:          bien.StatutAnnonce,
		PendingRevision: bien.HasPendingRevision,
	}
	st.Comparator.Baseline(editID, form)
	return st, nil
}

// Selection 已解析的国家 / 状态选择，Apply 之前表单不变
type Selection struct {
	pays   *int64
	villes []dto.Option
	statut *dto.Option
}

// Resolve 先查完所有参考数据，任何一项失败都不修改表单
func (o *Orchestrator) Resolve(ctx context.Context, st *State, paysID, statutID *int64) (*Selection, error) {
	sel := &Selection{}
	if paysID != nil && !(st.Wizard.Form.PaysID == *paysID && st.Lookups != nil && st.Lookups.Villes != nil) {
		villes, err := o.lookups.Villes(ctx, *paysID)
		if err != nil {
			return nil, err
		}
		sel.pays, sel.villes = paysID, villes
	}
	if statutID != nil {
		statuts, err := o.lookups.Statuts(ctx)
		if err != nil {
			return nil, err
		}
		opt, ok := findOption(statuts, *statutID, "")
		if !ok {
			return nil, ValidationErrors{"selectedStatut": MsgStatutRequis}
		}
		sel.statut = &opt
	}
	return sel, nil
}

// Apply 切换国家会清空已选城市
func (sel *Selection) Apply(st *State) {
	f := st.Wizard.Form
	if sel.pays != nil {
		f.PaysID = *sel.pays
		f.VilleID = 0
		if st.Lookups == nil {
			st.Lookups = &Lookups{}
		}
		st.Lookups.Villes = sel.villes
	}
	if sel.statut != nil {
		f.StatutBienID = sel.statut.ID
		f.StatutCode = sel.statut.Code
	}
}

// SelectPays 切换国家时重新加载城市并清空已选城市
func (o *Orchestrator) SelectPays(ctx context.Context, st *State, paysID int64) error {
	sel, err := o.Resolve(ctx, st, &paysID, nil)
	if err != nil {
		return err
	}
	sel.Apply(st)
	return nil
}

// SelectStatut 记录状态 ID 及其编码（编码决定是否需要可用日期）
func (o *Orchestrator) SelectStatut(ctx context.Context, st *State, statutID int64) error {
	sel, err := o.Resolve(ctx, st, nil, &statutID)
	if err != nil {
		return err
	}
	sel.Apply(st)
	return nil
}

// Submit 按决策表调用且只调用一个远端操作。校验失败不发请求，远端失败不改变会话状态
func (o *Orchestrator) Submit(ctx context.Context, st *State, brouillon bool) (*SubmitResult, error) {
	action := st.Action()
	switch {
	case action.Kind == ActionForbidden:
		return nil, ErrEditForbidden
	case brouillon && !action.CanSaveDraft:
		return nil, ErrNothingToSubmit
	case !brouillon && !action.SubmitEnabled:
		return nil, ErrNothingToSubmit
	}

	form := st.Wizard.Form
	if brouillon {
		if errs := ValidateDraft(form); len(errs) > 0 {
			st.Wizard.Errors = errs
			return nil, errs
		}
	} else if tab, errs := ValidateAll(form); len(errs) > 0 {
		st.Wizard.Current = tab
		st.Wizard.Errors = errs
		return nil, errs
	}

	payload := BuildPayload(form, brouillon)
	var result *SubmitResult

	switch action.Kind {
	case ActionCreate:
		bien, err := o.gateway.CreateBien(ctx, payload)
		if err != nil {
			return nil, err
		}
		result = &SubmitResult{BienID: bien.ID, Redirect: "/biens"}
	case ActionUpdate:
		bien, err := o.gateway.UpdateBien(ctx, st.EditID, payload)
		if err != nil {
			return nil, err
		}
		result = &SubmitResult{BienID: bien.ID, Redirect: "/biens"}
	case ActionSubmitRevision:
		rev, err := o.gateway.SubmitRevision(ctx, st.EditID, payload)
		if err != nil {
			return nil, err
		}
		result = &SubmitResult{BienID: st.EditID, RevisionID: rev.ID, Redirect: fmt.Sprintf("/biens/%d", st.EditID)}
	}
	result.Kind = action.Kind.String()

	o.lookups.Invalidate(KeyBiensDisponibles)
	log.Printf("[Listing] 提交成功: kind=%s bien=%d brouillon=%v", result.Kind, result.BienID, brouillon)
	return result, nil
}
