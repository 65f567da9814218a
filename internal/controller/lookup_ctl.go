package controller

import (
	"context"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// LookupController 参考数据、地理编码、提醒配置
type LookupController struct {
	lookupService  *service.LookupService
	geocodeService *service.GeocodeService
	rappelService  *service.RappelService
}

func NewLookupController(
	lookupService *service.LookupService,
	geocodeService *service.GeocodeService,
	rappelService *service.RappelService,
) *LookupController {
	return &LookupController{
		lookupService:  lookupService,
		geocodeService: geocodeService,
		rappelService:  rappelService,
	}
}

// ==================== 参考数据 ====================

func optionsHandler(fn func(context.Context) ([]dto.Option, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fn(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		success(c, items)
	}
}

func groupsHandler(fn func(context.Context) ([]dto.OptionGroup, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fn(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		success(c, items)
	}
}

// TypesLogement GET /api/lookups/types-logement
// @Summary 房屋类型
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/types-logement [get]
func (ctrl *LookupController) TypesLogement() gin.HandlerFunc {
	return optionsHandler(ctrl.lookupService.TypesLogement)
}

// TypesTransaction GET /api/lookups/types-transaction
// @Summary 交易类型
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/types-transaction [get]
func (ctrl *LookupController) TypesTransaction() gin.HandlerFunc {
	return optionsHandler(ctrl.lookupService.TypesTransaction)
}

// Statuts GET /api/lookups/statuts
// @Summary 房源状态
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/statuts [get]
func (ctrl *LookupController) Statuts() gin.HandlerFunc {
	return optionsHandler(ctrl.lookupService.Statuts)
}

// Pays GET /api/lookups/pays
// @Summary 国家
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/pays [get]
func (ctrl *LookupController) Pays() gin.HandlerFunc {
	return optionsHandler(ctrl.lookupService.Pays)
}

// Equipements GET /api/lookups/equipements
// @Summary 设施
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/equipements [get]
func (ctrl *LookupController) Equipements() gin.HandlerFunc {
	return groupsHandler(ctrl.lookupService.Equipements)
}

// Meubles GET /api/lookups/meubles
// @Summary 家具
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/lookups/meubles [get]
func (ctrl *LookupController) Meubles() gin.HandlerFunc {
	return groupsHandler(ctrl.lookupService.Meubles)
}

// Villes GET /api/lookups/pays/:id/villes
// @Summary 城市
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "国家 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/lookups/pays/{id}/villes [get]
func (ctrl *LookupController) Villes(c *gin.Context) {
	paysID, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := ctrl.lookupService.Villes(c.Request.Context(), paysID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, items)
}

// ==================== 地理编码 ====================

// Geocode 地址搜索，结果仅供参考，不会写入房源
// GET /api/geocode?q=
// @Summary 地址搜索
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "地址关键字"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 429 {object} map[string]interface{} "请求过于频繁"
// @Router /api/geocode [get]
func (ctrl *LookupController) Geocode(c *gin.Context) {
	items, err := ctrl.geocodeService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, items)
}

// ==================== 提醒配置 ====================

// GetParametresRappel GET /api/parametres/rappels
// @Summary 查看提醒配置
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Router /api/parametres/rappels [get]
func (ctrl *LookupController) GetParametresRappel(c *gin.Context) {
	params, err := ctrl.rappelService.GetParametres(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, params)
}

// SaveParametresRappel PUT /api/parametres/rappels
// @Summary 保存提醒配置
// @Tags Lookup (参考数据)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ParametresRappelRequest true "请求参数"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/parametres/rappels [put]
func (ctrl *LookupController) SaveParametresRappel(c *gin.Context) {
	var req dto.ParametresRappelRequest
	if !bindJSON(c, &req) {
		return
	}
	params, err := ctrl.rappelService.SaveParametres(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, params)
}
