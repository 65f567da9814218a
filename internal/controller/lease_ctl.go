package controller

import (
	"context"
	"log"
	"time"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/leasing"
	"seek_immo_v1_202610/internal/middleware"
	"seek_immo_v1_202610/internal/session"

	"github.com/gin-gonic/gin"
)

// FlowSession 一次租约创建流程，等待用户确认或放弃
type FlowSession struct {
	Owner int64
	Flow  *leasing.Flow
}

// FlowStore 租约流程会话存储
type FlowStore = session.Store[*FlowSession]

type flowView struct {
	ID string `json:"id"`
	*leasing.Flow
}

// LeaseController 租约状态操作及 "租客 -> 租约 -> 合同" 流程
type LeaseController struct {
	orchestrator *leasing.Orchestrator
	contracts    *leasing.ContractFlow
	flows        *FlowStore
}

// NewLeaseController 过期未确认的流程按放弃回滚
func NewLeaseController(orchestrator *leasing.Orchestrator, contracts *leasing.ContractFlow, flows *FlowStore) *LeaseController {
	ctrl := &LeaseController{orchestrator: orchestrator, contracts: contracts, flows: flows}
	if flows != nil && contracts != nil {
		flows.OnExpire(ctrl.rollbackExpired)
	}
	return ctrl
}

// ==================== 租约状态 ====================

// Transitions GET /api/wizard/biens/:id/transitions
// @Summary 可用的租约操作
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "房源 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/wizard/biens/{id}/transitions [get]
func (ctrl *LeaseController) Transitions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.orchestrator.View(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, view)
}

// End POST /api/wizard/baux/:id/terminer
// @Summary 结束租约
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/baux/{id}/terminer [post]
func (ctrl *LeaseController) End(c *gin.Context) {
	ctrl.transition(c, func(ctx context.Context, id int64, _ *dto.LeaseTransitionRequest) (*dto.BailVO, error) {
		return ctrl.orchestrator.End(ctx, id)
	})
}

// Rescind POST /api/wizard/baux/:id/resilier {motif?}
// @Summary 解约
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Param request body dto.LeaseTransitionRequest false "motif 可为空"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/baux/{id}/resilier [post]
func (ctrl *LeaseController) Rescind(c *gin.Context) {
	ctrl.transition(c, func(ctx context.Context, id int64, req *dto.LeaseTransitionRequest) (*dto.BailVO, error) {
		return ctrl.orchestrator.Rescind(ctx, id, req.Motif)
	})
}

// Extend POST /api/wizard/baux/:id/prolonger {date_fin_bail}
// @Summary 延长租约
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Param request body dto.LeaseTransitionRequest true "date_fin_bail 必填"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/baux/{id}/prolonger [post]
func (ctrl *LeaseController) Extend(c *gin.Context) {
	ctrl.transition(c, func(ctx context.Context, id int64, req *dto.LeaseTransitionRequest) (*dto.BailVO, error) {
		var dateFin time.Time
		if req.DateFinBail != nil {
			dateFin = *req.DateFinBail
		}
		return ctrl.orchestrator.Extend(ctx, id, dateFin)
	})
}

func (ctrl *LeaseController) transition(c *gin.Context, fn func(context.Context, int64, *dto.LeaseTransitionRequest) (*dto.BailVO, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LeaseTransitionRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	bail, err := fn(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, bail)
}

// ==================== 创建流程 ====================

// StartFlow POST /api/wizard/lease-flows
// 合同生成失败时仍返回 201，state=generation_failed，前端只能放弃
// @Summary 开始租约流程
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body leasing.StartRequest true "租客 + 租约"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/wizard/lease-flows [post]
func (ctrl *LeaseController) StartFlow(c *gin.Context) {
	var req leasing.StartRequest
	if !bindJSON(c, &req) {
		return
	}
	flow, err := ctrl.contracts.Start(context.WithoutCancel(c.Request.Context()), &req)
	if err != nil {
		fail(c, err)
		return
	}
	sess := ctrl.flows.Create(&FlowSession{Owner: middleware.GetUserID(c), Flow: flow})
	log.Printf("[LeaseFlow] 流程开始: fid=%s bail=%d state=%s", sess.ID, flow.Bail.ID, flow.StateName)
	created(c, flowView{ID: sess.ID, Flow: flow})
}

// ValidateFlow POST /api/wizard/lease-flows/:fid/valider
// @Summary 确认租约流程
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fid path string true "租约流程 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/lease-flows/{fid}/valider [post]
func (ctrl *LeaseController) ValidateFlow(c *gin.Context) {
	ctrl.finish(c, ctrl.contracts.Validate)
}

// DismissFlow DELETE /api/wizard/lease-flows/:fid，回滚本流程创建的租约和租客
// @Summary 放弃租约流程
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fid path string true "租约流程 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/lease-flows/{fid} [delete]
func (ctrl *LeaseController) DismissFlow(c *gin.Context) {
	ctrl.finish(c, ctrl.contracts.Dismiss)
}

// finish 确认和放弃互斥，成功后关闭流程
func (ctrl *LeaseController) finish(c *gin.Context, fn func(context.Context, *leasing.Flow) error) {
	fid := c.Param("fid")
	sess, err := ctrl.flows.Get(fid)
	if err == nil && sess.Value.Owner != middleware.GetUserID(c) {
		err = session.ErrNotFound
	}
	if err != nil {
		fail(c, err)
		return
	}
	if err := sess.Guard.TryAcquire(); err != nil {
		fail(c, err)
		return
	}
	defer sess.Guard.Release()

	sess.Lock()
	defer sess.Unlock()

	flow := sess.Value.Flow
	if err := fn(context.WithoutCancel(c.Request.Context()), flow); err != nil {
		fail(c, err)
		return
	}
	ctrl.flows.Close(fid)
	success(c, flowView{ID: fid, Flow: flow})
}

// rollbackExpired 用户既未确认也未放弃，撤销本流程创建的租约和租客
func (ctrl *LeaseController) rollbackExpired(sess *session.Session[*FlowSession]) {
	sess.Lock()
	defer sess.Unlock()

	flow := sess.Value.Flow
	if flow.State == leasing.FlowValidated || flow.State == leasing.FlowDismissed {
		return
	}
	log.Printf("[LeaseFlow] 流程过期未确认，回滚: fid=%s", sess.ID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := ctrl.contracts.Dismiss(ctx, flow); err != nil {
		log.Printf("[LeaseFlow] 过期回滚失败: fid=%s err=%v", sess.ID, err)
	}
}

// Resend POST /api/wizard/baux/:id/contrat/renvoyer
// @Summary 重新发送合同
// @Tags Lease (租约向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "租约 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/baux/{id}/contrat/renvoyer [post]
func (ctrl *LeaseController) Resend(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contrat, err := ctrl.contracts.Resend(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, contrat)
}
