package store

import (
	"context"

	"mecarent/internal/models"
)

// SeedCatalogue inserts the starter machines on first launch so the
// catalogue is never empty. No-op when machines already exist.
func (s *Store) SeedCatalogue(ctx context.Context) int {
	s.mu.Lock()
	hasMachines := len(s.machines) > 0
	s.mu.Unlock()
	if hasMachines {
		return 0
	}

	seed := []models.Machine{
		{
			Name:        "Motopompe diesel",
			Type:        "motopompe",
			Location:    "Thiès",
			Capacity:    "5 HP",
			Consumption: "Diesel",
			PriceHour:   2000,
			PriceDay:    10000,
			Description: "Motopompe robuste pour l'irrigation",
			Available:   true,
			Modes:       []models.AccessMode{models.ModeRental, models.ModeLeasing},
		},
		{
			Name:        "Décortiqueuse à riz",
			Type:        "décortiqueuse",
			Location:    "Kaolack",
			Capacity:    "100 kg/h",
			Consumption: "Électrique",
			PriceHour:   3000,
			PriceDay:    15000,
			Description: "Machine adaptée au décorticage de riz pour coopératives",
			Available:   true,
			Modes:       []models.AccessMode{models.ModeRental, models.ModeShared},
		},
		{
			Name:        "Moulin à céréales",
			Type:        "moulin",
			Location:    "Saint-Louis",
			Capacity:    "50 kg/h",
			Consumption: "Électrique",
			PriceHour:   2500,
			PriceDay:    12000,
			Description: "Moulin polyvalent pour maïs, mil et sorgho",
			Available:   true,
			Modes:       []models.AccessMode{models.ModeRental, models.ModeLeasing},
		},
		{
			Name:        "Semoir manuel",
			Type:        "semoir",
			Location:    "Ziguinchor",
			Capacity:    "5 rangs",
			Consumption: "Manuel",
			PriceHour:   1000,
			PriceDay:    5000,
			Description: "Semoir léger pour petites exploitations",
			Available:   true,
			Modes:       []models.AccessMode{models.ModeRental},
		},
	}

	for _, m := range seed {
		if _, err := s.AddMachine(ctx, m); err != nil {
			s.logger.Error().Err(err).Str("machine", m.Name).Msg("seed machine failed")
		}
	}
	return len(seed)
}
