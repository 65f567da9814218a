package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"seek_immo_v1_202610/internal/api/dto"
)

// Lookups 向导需要的全部参考数据
type Lookups struct {
	TypesLogement    []dto.Option      `json:"types_logement"`
	TypesTransaction []dto.Option      `json:"types_transaction"`
	Statuts          []dto.Option      `json:"statuts"`
	Equipements      []dto.OptionGroup `json:"equipements"`
	Meubles          []dto.OptionGroup `json:"meubles"`
	Pays             []dto.Option      `json:"pays"`
	Villes           []dto.Option      `json:"villes"`
}

// LoadLookups 并发加载全部列表，全部完成才返回
func LoadLookups(ctx context.Context, src LookupSource) (*Lookups, error) {
	lk := &Lookups{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { lk.TypesLogement, err = src.TypesLogement(gctx); return })
	g.Go(func() (err error) { lk.TypesTransaction, err = src.TypesTransaction(gctx); return })
	g.Go(func() (err error) { lk.Statuts, err = src.Statuts(gctx); return })
	g.Go(func() (err error) { lk.Equipements, err = src.Equipements(gctx); return })
	g.Go(func() (err error) { lk.Meubles, err = src.Meubles(gctx); return })
	g.Go(func() (err error) { lk.Pays, err = src.Pays(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("chargement des listes de référence: %w", err)
	}
	return lk, nil
}

// Hydrate 用远端房源填充表单。顺序固定：全部列表 -> 国家 -> 该国城市 -> 按名称匹配城市
func Hydrate(ctx context.Context, src LookupSource, b *dto.BienVO) (*Form, *Lookups, error) {
	lk, err := LoadLookups(ctx, src)
	if err != nil {
		return nil, nil, err
	}

	f := NewForm()
	f.TypeLogementID = b.TypeLogementID
	f.Titre = b.Titre
	f.Description = b.Description
	f.Quartier = b.Quartier
	f.Latitude = b.Latitude
	f.Longitude = b.Longitude
	f.Surface = b.Surface
	f.Etage = b.Etage
	f.NbChambres = b.NbChambres
	f.NbCuisines = b.NbCuisines
	f.NbSalons = b.NbSalons
	f.NbSdb = b.NbSdb
	f.NbWc = b.NbWc
	f.TypeTransactionID = b.TypeTransactionID
	f.StatutBienID = b.StatutBienID
	f.Prix = strconv.FormatFloat(b.Prix, 'f', -1, 64)
	if b.Frequence != "" {
		f.Frequence = b.Frequence
	}
	f.ChargesIncluses = b.ChargesIncluses
	f.Caution = b.Caution
	f.DisponibleLe = b.DisponibleLe
	f.Meuble = b.Meuble
	f.Fumeurs = b.Fumeurs
	f.Animaux = b.Animaux
	f.Parking = b.Parking
	f.Ascenseur = b.Ascenseur
	f.EquipementIDs = append([]int64{}, b.EquipementIDs...)
	for _, m := range b.Meubles {
		f.ToggleMeuble(m.MeubleID, true)
		f.SetMeubleQuantite(m.MeubleID, m.Quantite)
	}
	f.ExistingPhotoURLs = append([]string{}, b.Photos...)
	if len(f.ExistingPhotoURLs) > 0 {
		f.Main = ExistingFirst{}
	}

	if statut, ok := findOption(lk.Statuts, b.StatutBienID, ""); ok {
		f.StatutCode = statut.Code
	}

	// 国家 -> 城市
	pays, ok := findOption(lk.Pays, b.PaysID, b.PaysNom)
	if !ok {
		return f, lk, nil
	}
	f.PaysID = pays.ID

	lk.Villes, err = src.Villes(ctx, pays.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("chargement des régions: %w", err)
	}
	if ville, ok := findByName(lk.Villes, b.VilleNom); ok {
		f.VilleID = ville.ID
	} else if ville, ok := findOption(lk.Villes, b.VilleID, ""); ok {
		f.VilleID = ville.ID
	}
	return f, lk, nil
}

// findOption 先按 ID 再按名称
func findOption(opts []dto.Option, id int64, name string) (dto.Option, bool) {
	for _, o := range opts {
		if id > 0 && o.ID == id {
			return o, true
		}
	}
	return findByName(opts, name)
}

func findByName(opts []dto.Option, name string) (dto.Option, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dto.Option{}, false
	}
	for _, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o.Libelle), name) {
			return o, true
		}
	}
	return dto.Option{}, false
}
