package dashboarding

import "errors"

var (
	ErrSnapshotsDisabled = errors.New("snapshots mensais não estão disponíveis")
	ErrSnapshotNotFound  = errors.New("snapshot mensal não encontrado")
	ErrInvalidPeriod     = errors.New("período inválido, use mm-yyyy")
	ErrInvalidRange      = errors.New("data inicial posterior à data final")
)
