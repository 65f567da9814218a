package controller

import (
	"strconv"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// ==================== 控制器 ====================

// BailController 租客、租约、合同 CRUD
type BailController struct {
	bailService      *service.BailService
	locataireService *service.LocataireService
	contratService   *service.ContratService
}

func NewBailController(
	bailService *service.BailService,
	locataireService *service.LocataireService,
	contratService *service.ContratService,
) *BailController {
	return &BailController{
		bailService:      bailService,
		locataireService: locataireService,
		contratService:   contratService,
	}
}

// ==================== 租客 ====================

// CreateLocataire POST /api/locataires
// @Summary 创建租客
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LocataireRequest true "请求参数"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/locataires [post]
func (ctrl *BailController) CreateLocataire(c *gin.Context) {
	var req dto.LocataireRequest
	if !bindJSON(c, &req) {
		return
	}
	loc, err := ctrl.locataireService.CreateLocataire(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, loc)
}

// ListLocataires GET /api/locataires?page=&page_size=
// @Summary 租客列表
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码 (默认1)"
// @Param page_size query int false "每页数量 (默认20)"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/locataires [get]
func (ctrl *BailController) ListLocataires(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	result, err := ctrl.locataireService.ListLocataires(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, result)
}

// GetLocataire GET /api/locataires/:id
// @Summary 租客详情
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租客 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/locataires/{id} [get]
func (ctrl *BailController) GetLocataire(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	loc, err := ctrl.locataireService.GetLocataire(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, loc)
}

// DeleteLocataire DELETE /api/locataires/:id
// @Summary 删除租客
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租客 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/locataires/{id} [delete]
func (ctrl *BailController) DeleteLocataire(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.locataireService.DeleteLocataire(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

// ==================== 租约 ====================

// CreateBail POST /api/baux
// @Summary 创建租约
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBailRequest true "请求参数"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/baux [post]
func (ctrl *BailController) CreateBail(c *gin.Context) {
	var req dto.CreateBailRequest
	if !bindJSON(c, &req) {
		return
	}
	bail, err := ctrl.bailService.CreateBail(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, bail)
}

// ListBaux GET /api/baux?bien_id=&locataire_id=&statut=
// @Summary 租约列表
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bien_id query int false "房源 ID"
// @Param locataire_id query int false "租客 ID"
// @Param statut query string false "租约状态"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/baux [get]
func (ctrl *BailController) ListBaux(c *gin.Context) {
	var req dto.ListBauxRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Paramètres invalides: "+err.Error())
		return
	}
	result, err := ctrl.bailService.ListBaux(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, result)
}

// GetBail GET /api/baux/:id
// @Summary 租约详情
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/baux/{id} [get]
func (ctrl *BailController) GetBail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bail, err := ctrl.bailService.GetBail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// TerminerBail POST /api/baux/:id/terminer
// @Summary 结束租约
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/baux/{id}/terminer [post]
func (ctrl *BailController) TerminerBail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bail, err := ctrl.bailService.TerminerBail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// ResilierBail POST /api/baux/:id/resilier，motif 可为空
// @Summary 解约
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Param request body dto.ResilierRequest false "解约理由，可为空"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/baux/{id}/resilier [post]
func (ctrl *BailController) ResilierBail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ResilierRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	bail, err := ctrl.bailService.ResilierBail(c.Request.Context(), id, req.Motif)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// ProlongerBail POST /api/baux/:id/prolonger
// @Summary 延长租约
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Param request body dto.ProlongerRequest true "新的结束日期"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/baux/{id}/prolonger [post]
func (ctrl *BailController) ProlongerBail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProlongerRequest
	if !bindJSON(c, &req) {
		return
	}
	bail, err := ctrl.bailService.ProlongerBail(c.Request.Context(), id, req.DateFinBail)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// AnnulerBail POST /api/baux/:id/annuler
// @Summary 取消租约
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/baux/{id}/annuler [post]
func (ctrl *BailController) AnnulerBail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bail, err := ctrl.bailService.AnnulerBail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// ==================== 合同 ====================

// GetContrat GET /api/baux/:id/contrat
// @Summary 查看合同
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/baux/{id}/contrat [get]
func (ctrl *BailController) GetContrat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contrat, err := ctrl.contratService.GetContratByBail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, contrat)
}

// GenerateContrat POST /api/baux/:id/contrat
// @Summary 生成合同
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/baux/{id}/contrat [post]
func (ctrl *BailController) GenerateContrat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contrat, err := ctrl.contratService.GenerateContrat(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, contrat)
}

// EnvoyerContrat POST /api/contrats/:id/envoyer
// @Summary 发送合同
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "合同 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/contrats/{id}/envoyer [post]
func (ctrl *BailController) EnvoyerContrat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contrat, err := ctrl.contratService.EnvoyerContrat(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, contrat)
}

// RenvoyerContrat POST /api/contrats/:id/renvoyer
// @Summary 重新发送合同
// @Tags Bail (租约)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "合同 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/contrats/{id}/renvoyer [post]
func (ctrl *BailController) RenvoyerContrat(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contrat, err := ctrl.contratService.RenvoyerContrat(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, contrat)
}
