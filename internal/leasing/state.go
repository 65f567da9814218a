package leasing

import (
	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/model"
)

// State 房源的租约状态
type State int

const (
	StateNoLease State = iota
	StateActiveOpenEnded
	StateActiveWithEnd
	StateEnded
	StateRescinded
)

func (s State) String() string {
	switch s {
	case StateActiveOpenEnded:
		return "active_open_ended"
	case StateActiveWithEnd:
		return "active_with_end"
	case StateEnded:
		return "ended"
	case StateRescinded:
		return "rescinded"
	}
	return "no_lease"
}

// Active 是否有生效租约
func (s State) Active() bool {
	return s == StateActiveOpenEnded || s == StateActiveWithEnd
}

// StateOf 由租约推导状态。nil 或已取消的租约视为无租约
func StateOf(b *dto.BailVO) State {
	if b == nil {
		return StateNoLease
	}
	switch b.Statut {
	case model.BailActif:
		if b.DateFinBail == nil {
			return StateActiveOpenEnded
		}
		return StateActiveWithEnd
	case model.BailTermine:
		return StateEnded
	case model.BailResilie:
		return StateRescinded
	}
	return StateNoLease
}

// Transition 租约操作
type Transition string

const (
	TransitionCreate  Transition = "create"
	TransitionEnd     Transition = "end"
	TransitionRescind Transition = "rescind"
	TransitionExtend  Transition = "extend"
)

// AllowedTransitions 当前可用的操作：
//
//	无生效租约且房源可出租  -> create
//	生效、无结束日期        -> end, extend
//	生效、有结束日期        -> rescind, extend
//
// 解约只看是否有结束日期，不只看租约状态
func AllowedTransitions(bien *dto.BienVO, bail *dto.BailVO) []Transition {
	switch StateOf(bail) {
	case StateActiveOpenEnded:
		return []Transition{TransitionEnd, TransitionExtend}
	case StateActiveWithEnd:
		return []Transition{TransitionRescind, TransitionExtend}
	}
	if leasable(bien) {
		return []Transition{TransitionCreate}
	}
	return nil
}

// Allowed t 是否在可用操作中
func Allowed(bien *dto.BienVO, bail *dto.BailVO, t Transition) bool {
	for _, a := range AllowedTransitions(bien, bail) {
		if a == t {
			return true
		}
	}
	return false
}

func leasable(bien *dto.BienVO) bool {
	return bien != nil &&
		bien.TypeTransactionCode == model.TransactionLocation &&
		bien.StatutAnnonce == model.AnnoncePublie &&
		bien.Occupation != model.OccupationLoue
}
