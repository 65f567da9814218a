package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ==================== 审计上下文 ====================

type auditContextKey struct{}

// AuditInfo 审计信息
type AuditInfo struct {
	UserID   int64
	Username string
}

// WithAuditInfo 注入审计信息到 context
func WithAuditInfo(ctx context.Context, userID int64, username string) context.Context {
	return context.WithValue(ctx, auditContextKey{}, &AuditInfo{UserID: userID, Username: username})
}

// GetAuditUserID 从 context 获取审计用户 ID，后台任务为 0
func GetAuditUserID(ctx context.Context) int64 {
	if info, ok := ctx.Value(auditContextKey{}).(*AuditInfo); ok {
		return info.UserID
	}
	return 0
}

// AuditContext 把 JWT 用户写入 request context，供 GORM 回调和服务层使用
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := GetUserID(c); userID > 0 {
			c.Request = c.Request.WithContext(WithAuditInfo(c.Request.Context(), userID, GetUsername(c)))
		}
		c.Next()
	}
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 创建时填充 CreatedBy/UpdatedBy，更新时填充 UpdatedBy
func RegisterAuditCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("seek:audit_create", func(tx *gorm.DB) {
		userID := auditUser(tx)
		if userID == 0 {
			return
		}
		fillOnCreate(tx, "CreatedBy", userID)
		fillOnCreate(tx, "UpdatedBy", userID)
	}); err != nil {
		return err
	}

	// Updates(map) 和 Save(struct) 都走 SetColumn
	return db.Callback().Update().Before("gorm:update").Register("seek:audit_update", func(tx *gorm.DB) {
		userID := auditUser(tx)
		if userID == 0 || tx.Statement.Schema == nil {
			return
		}
		if tx.Statement.Schema.LookUpField("UpdatedBy") != nil {
			tx.Statement.SetColumn("UpdatedBy", userID, true)
		}
	})
}

func auditUser(tx *gorm.DB) int64 {
	if tx.Statement.Context == nil {
		return 0
	}
	return GetAuditUserID(tx.Statement.Context)
}

// fillOnCreate 只填充空值，支持批量插入
func fillOnCreate(tx *gorm.DB, fieldName string, value int64) {
	if tx.Statement.Schema == nil {
		return
	}
	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	ctx := tx.Statement.Context
	rv := tx.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(ctx, rv); isZero {
			_ = field.Set(ctx, rv, value)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			item := reflect.Indirect(rv.Index(i))
			if _, isZero := field.ValueOf(ctx, item); isZero {
				_ = field.Set(ctx, item, value)
			}
		}
	}
}
