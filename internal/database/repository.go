package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pattern-engine/internal/filters"
	"pattern-engine/internal/patterns"
)

// Repository provides data access methods
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck performs a database health check
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// ============================================================================
// SIGNALS
// ============================================================================

// SaveSignal persists a signal and its filter decisions in one transaction.
// The generated signal id is written back to the model.
func (r *Repository) SaveSignal(ctx context.Context, sig *Signal) error {
	if sig.ID == uuid.Nil {
		sig.ID = uuid.New()
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO signals (id, symbol, pattern_number, pattern, direction, confidence, final_confidence, accepted, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = tx.QueryRow(
		ctx, query,
		sig.ID, sig.Symbol, sig.PatternNumber, sig.Pattern, sig.Direction,
		sig.Confidence, sig.FinalConfidence, sig.Accepted, sig.DetectedAt,
	).Scan(&sig.CreatedAt)
	if err != nil {
		return err
	}

	for i := range sig.Decisions {
		d := &sig.Decisions[i]
		d.SignalID = sig.ID
		err = tx.QueryRow(
			ctx,
			`INSERT INTO filter_decisions (signal_id, filter, accepted, reason, adjusted_confidence)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			d.SignalID, d.Filter, d.Accepted, d.Reason, d.AdjustedConfidence,
		).Scan(&d.ID, &d.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetRecentSignals retrieves the latest signals, newest first.
func (r *Repository) GetRecentSignals(ctx context.Context, limit int) ([]*Signal, error) {
	query := `
		SELECT id, symbol, pattern_number, pattern, direction, confidence, final_confidence, accepted, detected_at, created_at
		FROM signals
		ORDER BY detected_at DESC
		LIMIT $1
	`
	return r.querySignals(ctx, query, limit)
}

// GetSignalsByPattern retrieves signals for one pattern number.
func (r *Repository) GetSignalsByPattern(ctx context.Context, patternNumber, limit int) ([]*Signal, error) {
	query := `
		SELECT id, symbol, pattern_number, pattern, direction, confidence, final_confidence, accepted, detected_at, created_at
		FROM signals
		WHERE pattern_number = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`
	return r.querySignals(ctx, query, patternNumber, limit)
}

// GetSignalsBySymbol retrieves signals for one symbol.
func (r *Repository) GetSignalsBySymbol(ctx context.Context, symbol string, limit int) ([]*Signal, error) {
	query := `
		SELECT id, symbol, pattern_number, pattern, direction, confidence, final_confidence, accepted, detected_at, created_at
		FROM signals
		WHERE symbol = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`
	return r.querySignals(ctx, query, symbol, limit)
}

// GetSignalDecisions retrieves the filter decisions for one signal.
func (r *Repository) GetSignalDecisions(ctx context.Context, signalID uuid.UUID) ([]FilterDecision, error) {
	rows, err := r.db.Pool.Query(
		ctx,
		`SELECT id, signal_id, filter, accepted, reason, adjusted_confidence, created_at
		 FROM filter_decisions
		 WHERE signal_id = $1
		 ORDER BY id`,
		signalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []FilterDecision
	for rows.Next() {
		var d FilterDecision
		if err := rows.Scan(&d.ID, &d.SignalID, &d.Filter, &d.Accepted, &d.Reason, &d.AdjustedConfidence, &d.CreatedAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (r *Repository) querySignals(ctx context.Context, query string, args ...interface{}) ([]*Signal, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []*Signal
	for rows.Next() {
		sig := &Signal{}
		err := rows.Scan(
			&sig.ID, &sig.Symbol, &sig.PatternNumber, &sig.Pattern, &sig.Direction,
			&sig.Confidence, &sig.FinalConfidence, &sig.Accepted, &sig.DetectedAt, &sig.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// ============================================================================
// POSITIONS
// ============================================================================

// OpenPosition inserts a new open position.
func (r *Repository) OpenPosition(ctx context.Context, pos *Position) error {
	if pos.OpenedAt.IsZero() {
		pos.OpenedAt = time.Now().UTC()
	}
	pos.Status = PositionOpen
	return r.db.Pool.QueryRow(
		ctx,
		`INSERT INTO positions (symbol, direction, status, opened_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		pos.Symbol, pos.Direction, pos.Status, pos.OpenedAt,
	).Scan(&pos.ID, &pos.CreatedAt)
}

// ClosePosition marks a position closed.
func (r *Repository) ClosePosition(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(
		ctx,
		`UPDATE positions SET status = $2, closed_at = $3 WHERE id = $1`,
		id, PositionClosed, time.Now().UTC(),
	)
	return err
}

// GetOpenPositions retrieves all open positions in the form the correlation
// filter consumes.
func (r *Repository) GetOpenPositions(ctx context.Context) ([]filters.Position, error) {
	rows, err := r.db.Pool.Query(
		ctx,
		`SELECT symbol, direction FROM positions WHERE status = 'OPEN' ORDER BY opened_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []filters.Position
	for rows.Next() {
		var symbol, direction string
		if err := rows.Scan(&symbol, &direction); err != nil {
			return nil, err
		}
		positions = append(positions, filters.Position{
			Symbol:    symbol,
			Direction: patterns.Direction(direction),
		})
	}
	return positions, rows.Err()
}

// ============================================================================
// CORRELATIONS
// ============================================================================

// UpsertCorrelation stores one pairwise coefficient.
func (r *Repository) UpsertCorrelation(ctx context.Context, symbolA, symbolB string, coefficient float64) error {
	_, err := r.db.Pool.Exec(
		ctx,
		`INSERT INTO correlations (symbol_a, symbol_b, coefficient, updated_at)
		 VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		 ON CONFLICT (symbol_a, symbol_b)
		 DO UPDATE SET coefficient = EXCLUDED.coefficient, updated_at = CURRENT_TIMESTAMP`,
		symbolA, symbolB, coefficient,
	)
	return err
}

// GetCorrelations loads the full correlation matrix.
func (r *Repository) GetCorrelations(ctx context.Context) (filters.CorrelationMatrix, error) {
	rows, err := r.db.Pool.Query(
		ctx,
		`SELECT symbol_a, symbol_b, coefficient FROM correlations`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matrix := filters.CorrelationMatrix{}
	for rows.Next() {
		var a, b string
		var coefficient float64
		if err := rows.Scan(&a, &b, &coefficient); err != nil {
			return nil, err
		}
		if matrix[a] == nil {
			matrix[a] = map[string]float64{}
		}
		matrix[a][b] = coefficient
	}
	return matrix, rows.Err()
}
