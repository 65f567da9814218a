package service

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// BizError 面向用户的业务错误，携带 HTTP 状态码和法语提示
type BizError struct {
	Code    int
	Message string
	Err     error
}

func (e *BizError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// UserMessage 给前端展示的提示
func (e *BizError) UserMessage() string {
	return e.Message
}

func (e *BizError) Unwrap() error {
	return e.Err
}

// Is 按 Code + Message 比较，包装后的哨兵错误仍可用 errors.Is 匹配
func (e *BizError) Is(target error) bool {
	t, ok := target.(*BizError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewBizError 创建业务错误
func NewBizError(code int, message string) *BizError {
	return &BizError{Code: code, Message: message}
}

// wrapBiz 用哨兵错误包装底层错误
func wrapBiz(sentinel *BizError, err error) error {
	return &BizError{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// ==================== 哨兵错误 ====================

var (
	ErrNotFound          = NewBizError(http.StatusNotFound, "Ressource introuvable")
	ErrInvalidStatus     = NewBizError(http.StatusConflict, "Opération impossible dans le statut actuel")
	ErrActiveLeaseExists = NewBizError(http.StatusConflict, "Ce bien a déjà un bail actif")
	ErrBienOccupe        = NewBizError(http.StatusConflict, "Ce bien est déjà occupé")
	ErrNotLocation       = NewBizError(http.StatusBadRequest, "Seuls les biens en location peuvent faire l'objet d'un bail")
	ErrNoTemplate        = NewBizError(http.StatusUnprocessableEntity, "Aucun modèle de contrat n'existe pour ce type de bail")
	ErrLocataireOccupe   = NewBizError(http.StatusConflict, "Ce locataire a un bail actif")
	ErrRevisionPending   = NewBizError(http.StatusConflict, "Une révision est déjà en attente de validation")
	ErrBienNonPublie     = NewBizError(http.StatusConflict, "Seuls les biens publiés peuvent être loués")
)

// ValidationError 参数校验失败
func ValidationError(message string) *BizError {
	return NewBizError(http.StatusBadRequest, message)
}

// notFoundOr 记录不存在时转换为 ErrNotFound
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
