// Package store persists the reference data (players, stints) and the
// computed player value table.
package store

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/wcrlabs/lineup-engine/pkg/database"
	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// Repository wraps the database access for the valuation and recommendation
// services.
type Repository struct {
	db *database.DB
}

// NewRepository creates a repository over an open connection.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the backing tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&types.Player{}, &types.Stint{}, &types.PlayerValue{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ListPlayers returns every player, ordered by id.
func (r *Repository) ListPlayers() ([]types.Player, error) {
	var players []types.Player
	if err := r.db.Order("id").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// ListStints returns the full stint corpus in recording order.
func (r *Repository) ListStints() ([]types.Stint, error) {
	var stints []types.Stint
	if err := r.db.Order("id").Find(&stints).Error; err != nil {
		return nil, fmt.Errorf("failed to list stints: %w", err)
	}
	return stints, nil
}

// SaveStint appends one stint to the corpus.
func (r *Repository) SaveStint(stint *types.Stint) error {
	if err := r.db.Create(stint).Error; err != nil {
		return fmt.Errorf("failed to save stint: %w", err)
	}
	return nil
}

// ReplaceValues atomically swaps in a freshly computed value table. The
// blend's min-max normalization spans the whole player set, so partial
// updates are never valid.
func (r *Repository) ReplaceValues(values []types.PlayerValue) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&values).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to upsert player values: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit value table: %w", err)
	}
	return nil
}

// ListValues returns the current value table, ordered by player id.
func (r *Repository) ListValues() ([]types.PlayerValue, error) {
	var values []types.PlayerValue
	if err := r.db.Order("player_id").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to list player values: %w", err)
	}
	return values, nil
}

// ListTeamValues returns the value-table rows for one team.
func (r *Repository) ListTeamValues(team string) ([]types.PlayerValue, error) {
	var values []types.PlayerValue
	if err := r.db.Where("team = ?", team).Order("player_id").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to list values for team %s: %w", team, err)
	}
	return values, nil
}

// ListTeams returns the distinct team identifiers in the value table.
func (r *Repository) ListTeams() ([]string, error) {
	var teams []string
	if err := r.db.Model(&types.PlayerValue{}).Distinct("team").Order("team").Pluck("team", &teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}
