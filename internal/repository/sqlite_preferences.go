package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
)

// SQLitePreferencesRepo implements PreferencesRepo using a SQLite database.
// Category bias and the energy profile are stored as JSON text.
type SQLitePreferencesRepo struct {
	db db.DBTX
}

func NewSQLitePreferencesRepo(conn db.DBTX) *SQLitePreferencesRepo {
	return &SQLitePreferencesRepo{db: conn}
}

func (r *SQLitePreferencesRepo) Get(ctx context.Context) (*domain.SchedulerPreferences, error) {
	query := `SELECT id, weight_urgency, weight_importance, weight_difficulty, weight_size,
		category_bias, energy_profile
		FROM scheduler_preferences WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var p domain.SchedulerPreferences
	var biasJSON, energyJSON string
	err := row.Scan(
		&p.ID,
		&p.WeightUrgency,
		&p.WeightImportance,
		&p.WeightDifficulty,
		&p.WeightSize,
		&biasJSON,
		&energyJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scheduler preferences: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scheduler preferences: %w", err)
	}

	p.CategoryBias = map[string]float64{}
	if biasJSON != "" {
		if err := json.Unmarshal([]byte(biasJSON), &p.CategoryBias); err != nil {
			return nil, fmt.Errorf("decoding category_bias: %w", err)
		}
	}
	p.Energy = domain.DefaultEnergyProfile()
	if energyJSON != "" {
		var hours []float64
		if err := json.Unmarshal([]byte(energyJSON), &hours); err != nil {
			return nil, fmt.Errorf("decoding energy_profile: %w", err)
		}
		if len(hours) != len(p.Energy) {
			return nil, fmt.Errorf("energy_profile has %d hours, want %d", len(hours), len(p.Energy))
		}
		copy(p.Energy[:], hours)
	}
	return &p, nil
}

func (r *SQLitePreferencesRepo) Upsert(ctx context.Context, p *domain.SchedulerPreferences) error {
	bias := p.CategoryBias
	if bias == nil {
		bias = map[string]float64{}
	}
	biasJSON, err := json.Marshal(bias)
	if err != nil {
		return fmt.Errorf("encoding category_bias: %w", err)
	}
	energyJSON, err := json.Marshal(p.Energy[:])
	if err != nil {
		return fmt.Errorf("encoding energy_profile: %w", err)
	}
	id := p.ID
	if id == "" {
		id = "default"
	}

	query := `INSERT OR REPLACE INTO scheduler_preferences (id, weight_urgency, weight_importance,
		weight_difficulty, weight_size, category_bias, energy_profile)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		id,
		p.WeightUrgency,
		p.WeightImportance,
		p.WeightDifficulty,
		p.WeightSize,
		string(biasJSON),
		string(energyJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting scheduler preferences: %w", err)
	}
	return nil
}
