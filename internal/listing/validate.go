package listing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"seek_immo_v1_202610/internal/model"
)

// 字段错误信息
const (
	MsgTypeRequis        = "Le type de logement est requis"
	MsgTitreRequis       = "Le titre est requis"
	MsgPaysRequis        = "Le pays est requis"
	MsgVilleRequise      = "La région est requise"
	MsgTransactionRequis = "Le type de transaction est requis"
	MsgStatutRequis      = "Le statut est requis"
	MsgPrixInvalide      = "Le prix doit être un nombre positif"
	MsgDisponibleRequis  = "La date de disponibilité est requise"
	MsgPhotosMin         = "Minimum 3 photos requises"
	MsgPhotosMax         = "Maximum 10 photos autorisées"
)

// ValidationErrors 字段 -> 提示信息，非空时阻止导航和提交，不会发起网络请求
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v[k]
	}
	return strings.Join(parts, "; ")
}

// ValidateTab 只校验离开的标签页相关字段
func ValidateTab(f *Form, tab Tab) ValidationErrors {
	errs := ValidationErrors{}
	switch tab {
	case TabGeneral:
		if f.TypeLogementID <= 0 {
			errs["selectedType"] = MsgTypeRequis
		}
		if strings.TrimSpace(f.Titre) == "" {
			errs["titre"] = MsgTitreRequis
		}
		if f.PaysID <= 0 {
			errs["selectedPays"] = MsgPaysRequis
		}
		if f.VilleID <= 0 {
			errs["selectedVille"] = MsgVilleRequise
		}
	case TabTransaction:
		if f.TypeTransactionID <= 0 {
			errs["selectedTransaction"] = MsgTransactionRequis
		}
		if f.StatutBienID <= 0 {
			errs["selectedStatut"] = MsgStatutRequis
		} else if f.StatutCode != "" && f.StatutCode != model.StatutLibre && f.DisponibleLe == nil {
			errs["disponibleLe"] = MsgDisponibleRequis
		}
		if _, ok := ParsePrix(f.Prix); !ok {
			errs["prix"] = MsgPrixInvalide
		}
	case TabMedias:
		// 上限在 AddPhotos 时控制
		if f.PhotoCount() < model.MinPhotos {
			errs["photos"] = MsgPhotosMin
		}
	}
	// caract / options 均为可选字段
	return errs
}

// ValidateAll 按顺序校验全部标签页，返回第一个失败的标签页
func ValidateAll(f *Form) (Tab, ValidationErrors) {
	for _, tab := range Tabs {
		if errs := ValidateTab(f, tab); len(errs) > 0 {
			return tab, errs
		}
	}
	return TabMedias, nil
}

// ValidateDraft 保存草稿只要求标题，且图片不超过上限
func ValidateDraft(f *Form) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.Titre) == "" {
		errs["titre"] = MsgTitreRequis
	}
	if f.PhotoCount() > model.MaxPhotos {
		errs["photos"] = MsgPhotosMax
	}
	return errs
}

// ParsePrix 解析价格输入，允许空格分隔千位和逗号小数
func ParsePrix(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
