package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"

	"seek_immo_v1_202610/internal/api/dto"
	"seek_immo_v1_202610/internal/listing"
	"seek_immo_v1_202610/internal/middleware"
	"seek_immo_v1_202610/internal/session"

	"github.com/gin-gonic/gin"
)

// ==================== 会话 ====================

// WizardSession 一个用户的房源向导会话
type WizardSession struct {
	Owner int64
	State *listing.State

	// 提交开始时渲染的视图，提交期间 GET 直接返回
	pending atomic.Pointer[json.RawMessage]
}

// WizardStore 向导会话存储
type WizardStore = session.Store[*WizardSession]

type photoView struct {
	Index       int    `json:"index"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type mainPhotoView struct {
	Existing bool `json:"existing"`
	Index    *int `json:"index,omitempty"`
}

// wizardView 返回给前端的会话快照
type wizardView struct {
	ID        string                   `json:"id"`
	EditID    int64                    `json:"edit_id,omitempty"`
	Statut    string                   `json:"statut,omitempty"`
	Tab       string                   `json:"tab"`
	Tabs      []string                 `json:"tabs"`
	Form      *listing.Form            `json:"form"`
	Photos    []photoView              `json:"photos"`
	MainPhoto *mainPhotoView           `json:"main_photo,omitempty"`
	Errors    listing.ValidationErrors `json:"errors,omitempty"`
	Dirty     bool                     `json:"dirty"`
	Action    listing.Action           `json:"action"`
	Busy      bool                     `json:"busy"`
	Lookups   *listing.Lookups         `json:"lookups,omitempty"`
}

func newWizardView(sess *session.Session[*WizardSession], withLookups bool) *wizardView {
	st := sess.Value.State
	form := st.Wizard.Form

	v := &wizardView{
		ID:     sess.ID,
		EditID: st.EditID,
		Statut: st.Statut,
		Tab:    st.Wizard.Current.String(),
		Form:   form,
		Photos: make([]photoView, len(form.Photos)),
		Errors: st.Wizard.Errors,
		Dirty:  st.Dirty(),
		Action: st.Action(),
		Busy:   sess.Guard.Busy(),
	}
	for _, t := range listing.Tabs {
		v.Tabs = append(v.Tabs, t.String())
	}
	for i, p := range form.Photos {
		v.Photos[i] = photoView{Index: i, Filename: p.Filename, ContentType: p.ContentType, Size: len(p.Data)}
	}
	switch m := form.EffectiveMain().(type) {
	case listing.ExistingFirst:
		v.MainPhoto = &mainPhotoView{Existing: true}
	case listing.NewAt:
		idx := m.Index
		v.MainPhoto = &mainPhotoView{Index: &idx}
	}
	if withLookups {
		v.Lookups = st.Lookups
	}
	return v
}

// ==================== 控制器 ====================

// WizardController 房源向导：会话内编辑，提交时才调用远端
type WizardController struct {
	orchestrator *listing.Orchestrator
	sessions     *WizardStore
}

func NewWizardController(orchestrator *listing.Orchestrator, sessions *WizardStore) *WizardController {
	return &WizardController{orchestrator: orchestrator, sessions: sessions}
}

// load 取会话，不属于当前用户的会话按不存在处理
func (ctrl *WizardController) load(c *gin.Context) (*session.Session[*WizardSession], bool) {
	sess, err := ctrl.sessions.Get(c.Param("sid"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if sess.Value.Owner != middleware.GetUserID(c) {
		fail(c, session.ErrNotFound)
		return nil, false
	}
	return sess, true
}

// mutate 提交进行中拒绝修改；拿到锁后会话可能已被关闭
func (ctrl *WizardController) mutate(c *gin.Context, fn func(ctx context.Context, st *listing.State) error) {
	sess, ok := ctrl.load(c)
	if !ok {
		return
	}
	if sess.Guard.Busy() {
		fail(c, session.ErrBusy)
		return
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Guard.Closed() {
		fail(c, session.ErrSessionClosed)
		return
	}
	if err := fn(c.Request.Context(), sess.Value.State); err != nil {
		fail(c, err)
		return
	}
	success(c, newWizardView(sess, false))
}

// ==================== 会话生命周期 ====================

// Open 打开向导
// POST /api/wizard/sessions {edit_id?}
// @Summary 打开向导
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.WizardOpenRequest false "编辑已有房源时传 edit_id"
// @Success 201 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/wizard/sessions [post]
func (ctrl *WizardController) Open(c *gin.Context) {
	var req dto.WizardOpenRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	st, err := ctrl.orchestrator.Open(c.Request.Context(), req.EditID)
	if err != nil {
		fail(c, err)
		return
	}
	sess := ctrl.sessions.Create(&WizardSession{Owner: middleware.GetUserID(c), State: st})
	log.Printf("[Wizard] 打开会话: sid=%s edit=%d", sess.ID, req.EditID)
	created(c, newWizardView(sess, true))
}

// Get GET /api/wizard/sessions/:sid
// @Summary 查看向导
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/wizard/sessions/{sid} [get]
func (ctrl *WizardController) Get(c *gin.Context) {
	sess, ok := ctrl.load(c)
	if !ok {
		return
	}
	if sess.Guard.Busy() {
		if raw := sess.Value.pending.Load(); raw != nil {
			success(c, *raw)
			return
		}
	}
	sess.Lock()
	defer sess.Unlock()
	success(c, newWizardView(sess, true))
}

// Close 关闭向导，进行中的提交完成后结果被丢弃
// DELETE /api/wizard/sessions/:sid
// @Summary 关闭向导
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/wizard/sessions/{sid} [delete]
func (ctrl *WizardController) Close(c *gin.Context) {
	if _, ok := ctrl.load(c); !ok {
		return
	}
	ctrl.sessions.Close(c.Param("sid"))
	success(c, nil)
}

// ==================== 编辑 ====================

// Patch PATCH /api/wizard/sessions/:sid
// @Summary 修改表单
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param request body dto.WizardPatch true "只传修改的字段"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 410 {object} map[string]interface{} "会话已关闭"
// @Router /api/wizard/sessions/{sid} [patch]
func (ctrl *WizardController) Patch(c *gin.Context) {
	var p dto.WizardPatch
	if !bindJSON(c, &p) {
		return
	}
	ctrl.mutate(c, func(ctx context.Context, st *listing.State) error {
		return ctrl.applyPatch(ctx, st, &p)
	})
}

// Next POST /api/wizard/sessions/:sid/next，校验失败时停留并返回错误
// @Summary 下一步
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/wizard/sessions/{sid}/next [post]
func (ctrl *WizardController) Next(c *gin.Context) {
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		st.Wizard.Next()
		return nil
	})
}

// Prev POST /api/wizard/sessions/:sid/prev
// @Summary 上一步
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/sessions/{sid}/prev [post]
func (ctrl *WizardController) Prev(c *gin.Context) {
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		st.Wizard.Prev()
		return nil
	})
}

// GoTo POST /api/wizard/sessions/:sid/tab {tab}
// @Summary 切换标签页
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param request body dto.WizardTabRequest true "请求参数"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/wizard/sessions/{sid}/tab [post]
func (ctrl *WizardController) GoTo(c *gin.Context) {
	var req dto.WizardTabRequest
	if !bindJSON(c, &req) {
		return
	}
	tab, ok := listing.ParseTab(req.Tab)
	if !ok {
		badRequest(c, "Onglet inconnu: "+req.Tab)
		return
	}
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		_, err := st.Wizard.GoTo(tab)
		return err
	})
}

// ==================== 图片 ====================

// AddPhotos POST /api/wizard/sessions/:sid/photos (multipart photos)
// @Summary 添加图片
// @Tags Wizard (房源向导)
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param photos formData file true "图片文件"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/sessions/{sid}/photos [post]
func (ctrl *WizardController) AddPhotos(c *gin.Context) {
	uploads, err := readUploads(c, "photos")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	files := make([]listing.PhotoFile, len(uploads))
	for i, u := range uploads {
		files[i] = listing.PhotoFile{Filename: u.Filename, ContentType: u.ContentType, Data: u.Data}
	}
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		return st.Wizard.Form.AddPhotos(files...)
	})
}

// RemovePhoto DELETE /api/wizard/sessions/:sid/photos/:idx
// @Summary 删除新图片
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param idx path int true "图片序号"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/sessions/{sid}/photos/{idx} [delete]
func (ctrl *WizardController) RemovePhoto(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		badRequest(c, "Index de photo invalide")
		return
	}
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		if err := st.Wizard.Form.RemovePhoto(idx); err != nil {
			return listing.ValidationErrors{"photos": err.Error()}
		}
		return nil
	})
}

// RemoveExistingPhoto DELETE /api/wizard/sessions/:sid/existing-photos?url=
// @Summary 删除已有图片
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param url query string true "图片地址"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Router /api/wizard/sessions/{sid}/existing-photos [delete]
func (ctrl *WizardController) RemoveExistingPhoto(c *gin.Context) {
	url := c.Query("url")
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		if !st.Wizard.Form.RemoveExistingPhoto(url) {
			return listing.ValidationErrors{"photos": "Photo introuvable"}
		}
		return nil
	})
}

// SetMainPhoto PUT /api/wizard/sessions/:sid/main-photo
// @Summary 设置主图
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param request body dto.MainPhotoRequest true "请求参数"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/wizard/sessions/{sid}/main-photo [put]
func (ctrl *WizardController) SetMainPhoto(c *gin.Context) {
	var req dto.MainPhotoRequest
	if !bindJSON(c, &req) {
		return
	}
	var main listing.MainPhoto = listing.ExistingFirst{}
	if !req.Existing {
		if req.Index == nil {
			badRequest(c, "Index de photo requis")
			return
		}
		main = listing.NewAt{Index: *req.Index}
	}
	ctrl.mutate(c, func(_ context.Context, st *listing.State) error {
		if err := st.Wizard.Form.SetMain(main); err != nil {
			return listing.ValidationErrors{"mainPhoto": err.Error()}
		}
		return nil
	})
}

// ==================== 提交 ====================

// Submit POST /api/wizard/sessions/:sid/submit {brouillon}
// 同一会话只允许一个提交；会话在提交期间被关闭时结果被丢弃
// @Summary 提交房源
// @Tags Wizard (房源向导)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "向导会话 ID"
// @Param request body dto.WizardSubmitRequest true "brouillon=true 保存为草稿"
// @Success 200 {object} map[string]interface{} "code + message + data"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Failure 409 {object} map[string]interface{} "状态冲突"
// @Failure 410 {object} map[string]interface{} "会话已关闭"
// @Failure 422 {object} map[string]interface{} "校验失败"
// @Router /api/wizard/sessions/{sid}/submit [post]
func (ctrl *WizardController) Submit(c *gin.Context) {
	var req dto.WizardSubmitRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	sess, ok := ctrl.load(c)
	if !ok {
		return
	}
	if err := sess.Guard.TryAcquire(); err != nil {
		fail(c, err)
		return
	}
	defer sess.Guard.Release()

	sess.Lock()
	defer sess.Unlock()
	if b, err := json.Marshal(newWizardView(sess, true)); err == nil {
		raw := json.RawMessage(b)
		sess.Value.pending.Store(&raw)
	}
	defer sess.Value.pending.Store(nil)

	// 远端调用不随请求取消
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := ctrl.orchestrator.Submit(ctx, sess.Value.State, req.Brouillon)

	if sess.Guard.Closed() {
		log.Printf("[Wizard] 会话已关闭，丢弃提交结果: sid=%s err=%v", sess.ID, err)
		fail(c, session.ErrSessionClosed)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	ctrl.sessions.Close(sess.ID)
	success(c, result)
}

// ==================== 字段修改 ====================

var clearableFields = map[string]func(f *listing.Form){
	"latitude":      func(f *listing.Form) { f.Latitude = nil },
	"longitude":     func(f *listing.Form) { f.Longitude = nil },
	"surface":       func(f *listing.Form) { f.Surface = nil },
	"etage":         func(f *listing.Form) { f.Etage = nil },
	"caution":       func(f *listing.Form) { f.Caution = nil },
	"disponible_le": func(f *listing.Form) { f.DisponibleLe = nil },
}

// applyPatch 参考数据全部解析成功后才修改表单；国家先于城市处理，切换国家会清空城市
func (ctrl *WizardController) applyPatch(ctx context.Context, st *listing.State, p *dto.WizardPatch) error {
	for _, name := range p.Clear {
		if _, ok := clearableFields[name]; !ok {
			return listing.ValidationErrors{"clear": fmt.Sprintf("Champ inconnu: %s", name)}
		}
	}
	for name := range p.Counters {
		if _, ok := counterFields[name]; !ok {
			return listing.ValidationErrors{"counters": fmt.Sprintf("Compteur inconnu: %s", name)}
		}
	}

	sel, err := ctrl.orchestrator.Resolve(ctx, st, p.PaysID, p.StatutBienID)
	if err != nil {
		return err
	}
	sel.Apply(st)

	f := st.Wizard.Form
	setIf(&f.TypeLogementID, p.TypeLogementID)
	setIf(&f.Titre, p.Titre)
	setIf(&f.Description, p.Description)
	setIf(&f.VilleID, p.VilleID)
	setIf(&f.Quartier, p.Quartier)
	setPtrIf(&f.Latitude, p.Latitude)
	setPtrIf(&f.Longitude, p.Longitude)

	setPtrIf(&f.Surface, p.Surface)
	setPtrIf(&f.Etage, p.Etage)
	for name, v := range p.Counters {
		_ = f.SetCounter(counterFields[name], v)
	}

	setIf(&f.TypeTransactionID, p.TypeTransactionID)
	setIf(&f.Prix, p.Prix)
	setIf(&f.Frequence, p.Frequence)
	setIf(&f.ChargesIncluses, p.ChargesIncluses)
	setPtrIf(&f.Caution, p.Caution)
	setPtrIf(&f.DisponibleLe, p.DisponibleLe)

	setIf(&f.Meuble, p.Meuble)
	setIf(&f.Fumeurs, p.Fumeurs)
	setIf(&f.Animaux, p.Animaux)
	setIf(&f.Parking, p.Parking)
	setIf(&f.Ascenseur, p.Ascenseur)
	if p.EquipementIDs != nil {
		f.EquipementIDs = p.EquipementIDs
	}
	for id, q := range p.Meubles {
		f.ToggleMeuble(id, q > 0)
		f.SetMeubleQuantite(id, q)
	}

	for _, name := range p.Clear {
		clearableFields[name](f)
	}
	return nil
}

var counterFields = map[string]listing.Counter{
	string(listing.CounterChambres): listing.CounterChambres,
	string(listing.CounterCuisines): listing.CounterCuisines,
	string(listing.CounterSalons):   listing.CounterSalons,
	string(listing.CounterSdb):      listing.CounterSdb,
	string(listing.CounterWc):       listing.CounterWc,
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIf[T any](dst **T, v *T) {
	if v != nil {
		val := *v
		*dst = &val
	}
}
