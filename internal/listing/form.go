package listing

import (
	"fmt"
	"time"

	"seek_immo_v1_202610/internal/model"
)

// ==================== 标签页 ====================

// Tab 向导标签页
type Tab int

const (
	TabGeneral Tab = iota
	TabCaract
	TabTransaction
	TabOptions
	TabMedias
)

// Tabs 按顺序排列的全部标签页
var Tabs = []Tab{TabGeneral, TabCaract, TabTransaction, TabOptions, TabMedias}

var tabNames = map[Tab]string{
	TabGeneral:     "general",
	TabCaract:      "caract",
	TabTransaction: "transaction",
	TabOptions:     "options",
	TabMedias:      "medias",
}

func (t Tab) String() string {
	if name, ok := tabNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tab(%d)", int(t))
}

// ParseTab 按名称解析标签页
func ParseTab(name string) (Tab, bool) {
	for t, n := range tabNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

func (t Tab) valid() bool {
	return t >= TabGeneral && t <= TabMedias
}

// ==================== 主图 ====================

// MainPhoto 主图选择：已有图片的第一张，或第 i 张新上传图片
type MainPhoto interface {
	isMainPhoto()
}

// ExistingFirst 已持久化图片中的第一张为主图
type ExistingFirst struct{}

// NewAt 新上传图片中下标为 Index 的为主图
type NewAt struct {
	Index int
}

func (ExistingFirst) isMainPhoto() {}
func (NewAt) isMainPhoto()         {}

// ==================== 表单 ====================

// Counter 房间计数字段
type Counter string

const (
	CounterChambres Counter = "nbChambres"
	CounterCuisines Counter = "nbCuisines"
	CounterSalons   Counter = "nbSalons"
	CounterSdb      Counter = "nbSdb"
	CounterWc       Counter = "nbWc"
)

// PhotoFile 尚未上传的图片
type PhotoFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Form 房源草稿，只存在于向导会话内
type Form struct {
	// 基本信息
	TypeLogementID int64    `json:"type_logement_id"`
	Titre          string   `json:"titre"`
	Description    string   `json:"description"`
	PaysID         int64    `json:"pays_id"`
	VilleID        int64    `json:"ville_id"`
	Quartier       string   `json:"quartier"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`

	// 物理特征
	Surface    *float64 `json:"surface,omitempty"`
	Etage      *int     `json:"etage,omitempty"`
	NbChambres int      `json:"nb_chambres"`
	NbCuisines int      `json:"nb_cuisines"`
	NbSalons   int      `json:"nb_salons"`
	NbSdb      int      `json:"nb_sdb"`
	NbWc       int      `json:"nb_wc"`

	// 交易条款。Prix 保留原始输入，提交时再解析
	TypeTransactionID int64      `json:"type_transaction_id"`
	StatutBienID      int64      `json:"statut_bien_id"`
	StatutCode        string     `json:"statut_code"`
	Prix              string     `json:"prix"`
	Frequence         string     `json:"frequence"`
	ChargesIncluses   bool       `json:"charges_incluses"`
	Caution           *float64   `json:"caution,omitempty"`
	DisponibleLe      *time.Time `json:"disponible_le,omitempty"`

	// 选项
	Meuble        bool          `json:"meuble"`
	Fumeurs       bool          `json:"fumeurs"`
	Animaux       bool          `json:"animaux"`
	Parking       bool          `json:"parking"`
	Ascenseur     bool          `json:"ascenseur"`
	EquipementIDs []int64       `json:"equipement_ids"`
	Meubles       map[int64]int `json:"meubles"`

	// 图片
	Photos            []PhotoFile `json:"-"`
	ExistingPhotoURLs []string    `json:"existing_photo_urls"`
	Main              MainPhoto   `json:"-"`
}

// NewForm 空表单
func NewForm() *Form {
	return &Form{
		Frequence: model.FrequenceMensuelle,
		Meubles:   map[int64]int{},
	}
}

// SetCounter 设置房间数，超出 0..20 时截断
func (f *Form) SetCounter(c Counter, v int) error {
	if v < 0 {
		v = 0
	}
	if v > model.MaxPieces {
		v = model.MaxPieces
	}
	switch c {
	case CounterChambres:
		f.NbChambres = v
	case CounterCuisines:
		f.NbCuisines = v
	case CounterSalons:
		f.NbSalons = v
	case CounterSdb:
		f.NbSdb = v
	case CounterWc:
		f.NbWc = v
	default:
		return fmt.Errorf("compteur inconnu: %s", c)
	}
	return nil
}

// ToggleMeuble 勾选家具，默认数量 1
func (f *Form) ToggleMeuble(id int64, selected bool) {
	if f.Meubles == nil {
		f.Meubles = map[int64]int{}
	}
	if !selected {
		delete(f.Meubles, id)
		return
	}
	if _, ok := f.Meubles[id]; !ok {
		f.Meubles[id] = 1
	}
}

// SetMeubleQuantite 修改已勾选家具的数量，最小为 1
func (f *Form) SetMeubleQuantite(id int64, q int) {
	if _, ok := f.Meubles[id]; !ok {
		return
	}
	if q < 1 {
		q = 1
	}
	f.Meubles[id] = q
}

// ==================== 图片操作 ====================

// PhotoCount 新图片 + 已有图片
func (f *Form) PhotoCount() int {
	return len(f.Photos) + len(f.ExistingPhotoURLs)
}

// AddPhotos 追加新图片，总数超过上限时整批拒绝
func (f *Form) AddPhotos(files ...PhotoFile) error {
	if f.PhotoCount()+len(files) > model.MaxPhotos {
		return ValidationErrors{"photos": MsgPhotosMax}
	}
	f.Photos = append(f.Photos, files...)
	return nil
}

// RemovePhoto 删除第 i 张新图片，主图下标随之调整
func (f *Form) RemovePhoto(i int) error {
	if i < 0 || i >= len(f.Photos) {
		return fmt.Errorf("photo %d introuvable", i)
	}
	f.Photos = append(f.Photos[:i], f.Photos[i+1:]...)

	if m, ok := f.Main.(NewAt); ok {
		switch {
		case m.Index == i:
			f.Main = nil
		case m.Index > i:
			f.Main = NewAt{Index: m.Index - 1}
		}
	}
	return nil
}

// RemoveExistingPhoto 移除一张已持久化图片
func (f *Form) RemoveExistingPhoto(url string) bool {
	for i, u := range f.ExistingPhotoURLs {
		if u == url {
			f.ExistingPhotoURLs = append(f.ExistingPhotoURLs[:i], f.ExistingPhotoURLs[i+1:]...)
			if len(f.ExistingPhotoURLs) == 0 {
				if _, ok := f.Main.(ExistingFirst); ok {
					f.Main = nil
				}
			}
			return true
		}
	}
	return false
}

// SetMain 指定主图
func (f *Form) SetMain(m MainPhoto) error {
	switch v := m.(type) {
	case ExistingFirst:
		if len(f.ExistingPhotoURLs) == 0 {
			return fmt.Errorf("aucune photo existante")
		}
	case NewAt:
		if v.Index < 0 || v.Index >= len(f.Photos) {
			return fmt.Errorf("photo %d introuvable", v.Index)
		}
	default:
		return fmt.Errorf("photo principale invalide")
	}
	f.Main = m
	return nil
}

// EffectiveMain 实际主图：显式选择优先，否则有已有图片时取其第一张，再否则取第一张新图
func (f *Form) EffectiveMain() MainPhoto {
	switch v := f.Main.(type) {
	case ExistingFirst:
		if len(f.ExistingPhotoURLs) > 0 {
			return v
		}
	case NewAt:
		if v.Index >= 0 && v.Index < len(f.Photos) {
			return v
		}
	}
	if len(f.ExistingPhotoURLs) > 0 {
		return ExistingFirst{}
	}
	if len(f.Photos) > 0 {
		return NewAt{Index: 0}
	}
	return nil
}
