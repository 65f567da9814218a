package listing

import "seek_immo_v1_202610/internal/model"

// ActionKind 提交时走的远端操作
type ActionKind int

const (
	ActionForbidden ActionKind = iota
	ActionCreate
	ActionUpdate
	ActionSubmitRevision
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionSubmitRevision:
		return "revision"
	}
	return "forbidden"
}

// EditContext 决策输入
type EditContext struct {
	EditID          int64
	Statut          string
	Dirty           bool
	PendingRevision bool
}

// Action 决策结果
type Action struct {
	Kind          ActionKind `json:"-"`
	KindName      string     `json:"kind"`
	SubmitEnabled bool       `json:"submit_enabled"`
	CanSaveDraft  bool       `json:"can_save_draft"`
}

// Decide (是否编辑, 发布状态, 是否修改) -> 允许的操作
//
//	无 editID                  -> create，可提交，可存草稿
//	BROUILLON / REJETE         -> update，修改后才可提交或存草稿
//	PUBLIE                     -> revision，修改后才可提交，已有待审修订时禁用
//	其余                        -> forbidden
func Decide(ec EditContext) Action {
	var a Action
	switch {
	case ec.EditID == 0:
		a = Action{Kind: ActionCreate, SubmitEnabled: true, CanSaveDraft: true}
	case ec.Statut == model.AnnonceBrouillon || ec.Statut == model.AnnonceRejete:
		a = Action{Kind: ActionUpdate, SubmitEnabled: ec.Dirty, CanSaveDraft: ec.Dirty}
	case ec.Statut == model.AnnoncePublie:
		a = Action{Kind: ActionSubmitRevision, SubmitEnabled: ec.Dirty && !ec.PendingRevision}
	default:
		a = Action{Kind: ActionForbidden}
	}
	a.KindName = a.Kind.String()
	return a
}
