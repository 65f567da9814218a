package listing

import (
	"errors"
	"sort"

	"seek_immo_v1_202610/internal/session"
)

// GenericMessage 远端未给出提示时的兜底文案
const GenericMessage = "Une erreur est survenue, veuillez réessayer."

var (
	ErrEditForbidden   = errors.New("Ce bien ne peut pas être modifié dans son statut actuel")
	ErrNothingToSubmit = errors.New("Aucune modification à soumettre")
)

// userFacing 远端拒绝 / 业务错误携带的提示
type userFacing interface {
	UserMessage() string
}

// UserMessage 把错误转换为一条面向用户的提示：优先使用服务端给出的信息，否则使用兜底文案
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		keys := make([]string, 0, len(ve))
		for k := range ve {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return ve[keys[0]]
	}

	var uf userFacing
	if errors.As(err, &uf) {
		if msg := uf.UserMessage(); msg != "" {
			return msg
		}
	}

	for _, known := range []error{
		ErrEditForbidden, ErrNothingToSubmit,
		session.ErrBusy, session.ErrSessionClosed, session.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return GenericMessage
}
