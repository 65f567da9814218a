package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPhotoSize 单张图片上限
const maxPhotoSize = 10 << 20

// ==================== 控制器 ====================

// BienController 房源 CRUD 及审核
type BienController struct {
	bienService *service.BienService
}

func NewBienController(bienService *service.BienService) *BienController {
	return &BienController{bienService: bienService}
}

// ==================== 查询 ====================

// ListBiens 房源列表
// GET /api/biens?statut=&occupation=&page=&page_size=
// @Summary 房源列表
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param statut query string false "发布状态"
// @Param occupation query string false "占用状态"
// @Param page query int false "页码 (默认1)"
// @Param page_size query int false "每页数量 (默认20)"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/biens [get]
func (ctrl *BienController) ListBiens(c *gin.Context) {
	var req dto.ListBiensRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Paramètres invalides: "+err.Error())
		return
	}
	result, err := ctrl.bienService.ListBiens(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, result)
}

// BiensDisponibles 可出租房源
// GET /api/biens/disponibles
// @Summary 可出租房源
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/biens/disponibles [get]
func (ctrl *BienController) BiensDisponibles(c *gin.Context) {
	items, err := ctrl.bienService.BiensDisponibles(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, items)
}

// GetBien 房源详情
// GET /api/biens/:id
// @Summary 房源详情
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/biens/{id} [get]
func (ctrl *BienController) GetBien(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bien, err := ctrl.bienService.GetBien(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bien)
}

// ==================== 创建 / 修改 ====================

// CreateBien 创建房源
// POST /api/biens  JSON，或 multipart（payload 字段为 JSON，photos 为文件）
// @Summary 创建房源
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BienPayload true "房源内容，multipart 时放在 payload 字段"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/biens [post]
func (ctrl *BienController) CreateBien(c *gin.Context) {
	p, err := readPayload(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	bien, err := ctrl.bienService.CreateBien(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, bien)
}

// UpdateBien 修改草稿 / 被驳回的房源
// PUT /api/biens/:id
// @Summary 修改房源
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Param request body dto.BienPayload true "请求参数"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/biens/{id} [put]
func (ctrl *BienController) UpdateBien(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := readPayload(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	bien, err := ctrl.bienService.UpdateBien(c.Request.Context(), id, p)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bien)
}

// SubmitRevision 对已发布房源提交修订
// POST /api/biens/:id/revisions
// @Summary 提交修订
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Param request body dto.BienPayload true "请求参数"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/biens/{id}/revisions [post]
func (ctrl *BienController) SubmitRevision(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := readPayload(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rev, err := ctrl.bienService.SubmitRevision(c.Request.Context(), id, p)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rev)
}

// DeleteBien 删除房源
// DELETE /api/biens/:id
// @Summary 删除房源
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/biens/{id} [delete]
func (ctrl *BienController) DeleteBien(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.bienService.DeleteBien(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

// ==================== 状态流转 ====================

// ReturnToDraft POST /api/biens/:id/brouillon
// @Summary 退回草稿
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/biens/{id}/brouillon [post]
func (ctrl *BienController) ReturnToDraft(c *gin.Context) {
	ctrl.byID(c, ctrl.bienService.ReturnToDraft)
}

// Cancel POST /api/biens/:id/annuler
// @Summary 取消房源
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/biens/{id}/annuler [post]
func (ctrl *BienController) Cancel(c *gin.Context) {
	ctrl.byID(c, ctrl.bienService.Cancel)
}

// Publish 管理员发布 POST /api/admin/biens/:id/publier
// @Summary 发布房源 (管理员)
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 403 {object} map[string]interface{} "无权限"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/admin/biens/{id}/publier [post]
func (ctrl *BienController) Publish(c *gin.Context) {
	ctrl.byID(c, ctrl.bienService.Publish)
}

// Reject 管理员驳回 POST /api/admin/biens/:id/rejeter
// @Summary 驳回房源 (管理员)
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Param request body dto.MotifRequest true "驳回理由"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 403 {object} map[string]interface{} "无权限"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/admin/biens/{id}/rejeter [post]
func (ctrl *BienController) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MotifRequest
	if !bindJSON(c, &req) {
		return
	}
	bien, err := ctrl.bienService.Reject(c.Request.Context(), id, req.Motif)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bien)
}

// ApproveRevision POST /api/admin/revisions/:id/approuver
// @Summary 通过修订 (管理员)
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "修订 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 403 {object} map[string]interface{} "无权限"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/admin/revisions/{id}/approuver [post]
func (ctrl *BienController) ApproveRevision(c *gin.Context) {
	ctrl.byID(c, ctrl.bienService.ApproveRevision)
}

// RejectRevision POST /api/admin/revisions/:id/rejeter
// @Summary 驳回修订 (管理员)
// @Tags Bien (房源)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "修订 ID"
// @Param request body dto.MotifRequest true "驳回理由"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 403 {object} map[string]interface{} "无权限"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/admin/revisions/{id}/rejeter [post]
func (ctrl *BienController) RejectRevision(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MotifRequest
	if !bindJSON(c, &req) {
		return
	}
	rev, err := ctrl.bienService.RejectRevision(c.Request.Context(), id, req.Motif)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, rev)
}

func (ctrl *BienController) byID(c *gin.Context, fn func(ctx context.Context, id int64) (*dto.BienVO, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bien, err := fn(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bien)
}

// ==================== 载荷解析 ====================

// readPayload JSON 请求直接绑定；multipart 请求读取 payload 字段并追加 photos 文件
func readPayload(c *gin.Context) (*dto.BienPayload, error) {
	var p dto.BienPayload
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&p); err != nil {
			return nil, fmt.Errorf("Paramètres invalides: %w", err)
		}
		return &p, nil
	}

	if raw := c.PostForm("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("Paramètres invalides: %w", err)
		}
	}
	photos, err := readUploads(c, "photos")
	if err != nil {
		return nil, err
	}
	p.Photos = append(p.Photos, photos...)
	return &p, nil
}

// readUploads 读取 multipart 中的全部图片
func readUploads(c *gin.Context, field string) ([]dto.PhotoUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("Formulaire invalide: %w", err)
	}

	files := form.File[field]
	uploads := make([]dto.PhotoUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxPhotoSize {
			return nil, fmt.Errorf("Photo trop volumineuse: %s", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("Lecture de la photo impossible: %w", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("Lecture de la photo impossible: %w", err)
		}
		uploads = append(uploads, dto.PhotoUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
