package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// CampaignStore persists the whole campaign collection as one opaque blob.
type CampaignStore interface {
	Load(ctx context.Context) ([]model.Campaign, error)
	Save(ctx context.Context, campaigns []model.Campaign) error
}

// PostgresStore keeps one JSONB snapshot row per store key.
type PostgresStore struct {
	DB  *sql.DB
	Key string
}

const createSnapshotTable = `
    CREATE TABLE IF NOT EXISTS campaign_snapshots (
        key        TEXT PRIMARY KEY,
        payload    JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )
`

func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("create campaign_snapshots: %w", err)
	}
	return nil
}

func (r *PostgresStore) Load(ctx context.Context) ([]model.Campaign, error) {
	query := `SELECT payload FROM campaign_snapshots WHERE key=$1`
	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, r.Key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return []model.Campaign{}, nil
		}
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	return decode(payload)
}

func (r *PostgresStore) Save(ctx context.Context, campaigns []model.Campaign) error {
	payload, err := encode(campaigns)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO campaign_snapshots (key, payload, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
    `
	if _, err := r.DB.ExecContext(ctx, query, r.Key, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("save campaigns: %w", err)
	}
	return nil
}

func encode(campaigns []model.Campaign) ([]byte, error) {
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	payload, err := json.Marshal(campaigns)
	if err != nil {
		return nil, fmt.Errorf("encode campaigns: %w", err)
	}
	return payload, nil
}

func decode(payload []byte) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	if len(payload) == 0 {
		return campaigns, nil
	}
	if err := json.Unmarshal(payload, &campaigns); err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	return campaigns, nil
}

var _ CampaignStore = (*PostgresStore)(nil)
