package listing

import (
	"strings"

	"seek_immo_v1_202610/internal/api/dto"
)

// BuildPayload 生成提交载荷：主图排在第一位，其余新图片保持原顺序，已有图片只传 URL
func BuildPayload(f *Form, brouillon bool) *dto.BienPayload {
	prix, _ := ParsePrix(f.Prix)

	p := &dto.BienPayload{
		Brouillon:         brouillon,
		TypeLogementID:    f.TypeLogementID,
		TypeTransactionID: f.TypeTransactionID,
		StatutBienID:      f.StatutBienID,
		Titre:             strings.TrimSpace(f.Titre),
		Description:       f.Description,
		PaysID:            f.PaysID,
		VilleID:           f.VilleID,
		Quartier:          strings.TrimSpace(f.Quartier),
		Latitude:          f.Latitude,
		Longitude:         f.Longitude,
		Surface:           f.Surface,
		Etage:             f.Etage,
		NbChambres:        f.NbChambres,
		NbCuisines:        f.NbCuisines,
		NbSalons:          f.NbSalons,
		NbSdb:             f.NbSdb,
		NbWc:              f.NbWc,
		Prix:              prix,
		Frequence:         f.Frequence,
		ChargesIncluses:   f.ChargesIncluses,
		Caution:           f.Caution,
		DisponibleLe:      f.DisponibleLe,
		Meuble:            f.Meuble,
		Fumeurs:           f.Fumeurs,
		Animaux:           f.Animaux,
		Parking:           f.Parking,
		Ascenseur:         f.Ascenseur,
		EquipementIDs:     sortedIDs(f.EquipementIDs),
		ExistingPhotos:    append([]string{}, f.ExistingPhotoURLs...),
	}

	for _, m := range sortedMeubles(f.Meubles) {
		p.Meubles = append(p.Meubles, dto.MeubleQuantite{MeubleID: m.ID, Quantite: m.Quantite})
	}

	order := photoOrder(len(f.Photos), f.EffectiveMain())
	p.Photos = make([]dto.PhotoUpload, len(order))
	for i, idx := range order {
		ph := f.Photos[idx]
		p.Photos[i] = dto.PhotoUpload{Filename: ph.Filename, ContentType: ph.ContentType, Data: ph.Data}
	}
	_, p.MainPhotoExisting = f.EffectiveMain().(ExistingFirst)
	return p
}

// photoOrder 新图片的提交顺序
func photoOrder(n int, main MainPhoto) []int {
	first := 0
	if m, ok := main.(NewAt); ok && m.Index >= 0 && m.Index < n {
		first = m.Index
	}
	order := make([]int, 0, n)
	if n > 0 {
		order = append(order, first)
	}
	for i := 0; i < n; i++ {
		if i != first {
			order = append(order, i)
		}
	}
	return order
}
