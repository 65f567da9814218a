package leasing

import (
	"errors"

	"seek_immo_v1_202610/internal/listing"
)

var (
	ErrTransitionNotAllowed = errors.New("Cette opération n'est pas disponible pour ce bail")
	ErrDateFinInvalide      = errors.New("La nouvelle date de fin doit être postérieure à la date actuelle")
	ErrFlowState            = errors.New("Cette étape n'est plus disponible")
	ErrContratInactif       = errors.New("Seul un contrat actif peut être renvoyé")
	ErrLocataireRequis      = errors.New("Le locataire est requis")
)

// UserMessage 面向用户的提示，规则同房源向导
func UserMessage(err error) string {
	for _, known := range []error{
		ErrTransitionNotAllowed, ErrDateFinInvalide, ErrFlowState, ErrContratInactif, ErrLocataireRequis,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return listing.UserMessage(err)
}
