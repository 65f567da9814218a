package listing

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ComparisonRecord 表单的规范化快照。不包含当前标签页、错误、忙碌标记、地理编码候选等界面状态
type ComparisonRecord struct {
	TypeLogementID int64
	Titre          string
	Description    string
	PaysID         int64
	VilleID        int64
	Quartier       string
	Latitude       float64
	HasLatitude    bool
	Longitude      float64
	HasLongitude   bool

	Surface    float64
	HasSurface bool
	Etage      int
	HasEtage   bool
	Pieces     [5]int

	TypeTransactionID int64
	StatutBienID      int64
	Prix              string
	Frequence         string
	ChargesIncluses   bool
	Caution           float64
	HasCaution        bool
	DisponibleLe      string

	Options       [5]bool
	EquipementIDs []int64
	Meubles       []meubleEntry

	NewPhotos      []string
	ExistingPhotos []string
	Main           string
}

type meubleEntry struct {
	ID       int64
	Quantite int
}

// Record 由表单生成比较快照
func Record(f *Form) ComparisonRecord {
	r := ComparisonRecord{
		TypeLogementID:    f.TypeLogementID,
		Titre:             strings.TrimSpace(f.Titre),
		Description:       strings.TrimSpace(f.Description),
		PaysID:            f.PaysID,
		VilleID:           f.VilleID,
		Quartier:          strings.TrimSpace(f.Quartier),
		Pieces:            [5]int{f.NbChambres, f.NbCuisines, f.NbSalons, f.NbSdb, f.NbWc},
		TypeTransactionID: f.TypeTransactionID,
		StatutBienID:      f.StatutBienID,
		Prix:              normalizePrix(f.Prix),
		Frequence:         f.Frequence,
		ChargesIncluses:   f.ChargesIncluses,
		Options:           [5]bool{f.Meuble, f.Fumeurs, f.Animaux, f.Parking, f.Ascenseur},
		EquipementIDs:     sortedIDs(f.EquipementIDs),
		Meubles:           sortedMeubles(f.Meubles),
		ExistingPhotos:    append([]string{}, f.ExistingPhotoURLs...),
		NewPhotos:         make([]string, len(f.Photos)),
	}
	if f.Latitude != nil {
		r.Latitude, r.HasLatitude = *f.Latitude, true
	}
	if f.Longitude != nil {
		r.Longitude, r.HasLongitude = *f.Longitude, true
	}
	if f.Surface != nil {
		r.Surface, r.HasSurface = *f.Surface, true
	}
	if f.Etage != nil {
		r.Etage, r.HasEtage = *f.Etage, true
	}
	if f.Caution != nil {
		r.Caution, r.HasCaution = *f.Caution, true
	}
	if f.DisponibleLe != nil {
		r.DisponibleLe = f.DisponibleLe.UTC().Format(time.DateOnly)
	}
	for i, p := range f.Photos {
		sum := sha256.Sum256(p.Data)
		r.NewPhotos[i] = hex.EncodeToString(sum[:])
	}
	switch m := f.EffectiveMain().(type) {
	case ExistingFirst:
		r.Main = "existing"
	case NewAt:
		r.Main = r.NewPhotos[m.Index]
	}
	return r
}

// Comparator 判断编辑中的表单是否与初始快照不同
type Comparator struct {
	editID   int64
	baseline *ComparisonRecord
}

// Baseline 对同一个 editID 只取一次快照，返回本次是否取了快照
func (c *Comparator) Baseline(editID int64, f *Form) bool {
	if c.baseline != nil && c.editID == editID {
		return false
	}
	r := Record(f)
	c.editID = editID
	c.baseline = &r
	return true
}

// HasBaseline 是否已为该 editID 取过快照
func (c *Comparator) HasBaseline(editID int64) bool {
	return c.baseline != nil && c.editID == editID
}

// IsDirty 按值比较当前表单与快照。未取快照时视为未修改
func (c *Comparator) IsDirty(f *Form) bool {
	if c.baseline == nil {
		return false
	}
	return !reflect.DeepEqual(*c.baseline, Record(f))
}

func normalizePrix(raw string) string {
	if v, ok := ParsePrix(raw); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.TrimSpace(raw)
}

func sortedIDs(ids []int64) []int64 {
	out := append([]int64{}, ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	// 去重
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}

func sortedMeubles(m map[int64]int) []meubleEntry {
	out := make([]meubleEntry, 0, len(m))
	for id, q := range m {
		out = append(out, meubleEntry{ID: id, Quantite: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
