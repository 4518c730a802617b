package repository

import "github.com/stwalsh4118/househunt/internal/database"

// NewPostgresStores returns the PostgreSQL repositories sharing one pool.
func NewPostgresStores(db *database.Postgres) Stores {
	return Stores{
		Lots:       NewLotRepository(db),
		Properties: NewPropertyRepository(db),
		Targets:    NewTargetPropertyRepository(db),
		Hunts:      NewHuntRepository(db),
	}
}
