// Package store durably persists active_plans and execution_results as
// canonical JSON blobs in an embedded, pure-Go SQLite database
// (modernc.org/sqlite). It is a write-behind mirror of the Orchestrator's
// in-memory maps, never required for correctness: reloading a plan MUST
// reproduce byte-identical canonical JSON for the same plan_id (spec.md
// §6's persisted-state round-trip requirement).
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	plan_id TEXT PRIMARY KEY,
	canonical_json BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS execution_results (
	plan_id TEXT NOT NULL,
	chunk_id TEXT NOT NULL,
	canonical_json BLOB NOT NULL,
	PRIMARY KEY (plan_id, chunk_id)
);
`

// Store wraps a SQLite database holding canonical-JSON mirrors of the
// Orchestrator's plan and execution-result caches.
type Store struct {
	db     *sql.DB
	hasher determinism.Hasher
}

// Open opens (creating if necessary) a SQLite database at path. Pass
// ":memory:" for an ephemeral, test-only store.
func Open(path string, hasher determinism.Hasher) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}
	return &Store{db: db, hasher: hasher}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlan persists plan's canonical JSON encoding keyed by plan_id.
func (s *Store) SavePlan(plan contracts.TaskPlan) error {
	canonical, err := s.hasher.Canonical(plan)
	if err != nil {
		return contracts.NewDeterminismViolation("failed to canonicalize plan for persistence", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO plans (plan_id, canonical_json) VALUES (?, ?)
		 ON CONFLICT(plan_id) DO UPDATE SET canonical_json = excluded.canonical_json`,
		plan.PlanID, canonical,
	)
	if err != nil {
		return fmt.Errorf("store: save plan %s: %w", plan.PlanID, err)
	}
	return nil
}

// LoadPlan returns the canonical JSON bytes stored for planID, exactly as
// written by SavePlan — a round trip is byte-identical by construction,
// since both sides go through the same Hasher.Canonical encoding.
func (s *Store) LoadPlan(planID string) ([]byte, error) {
	var canonical []byte
	err := s.db.QueryRow(`SELECT canonical_json FROM plans WHERE plan_id = ?`, planID).Scan(&canonical)
	if err == sql.ErrNoRows {
		return nil, contracts.NewNotFound(fmt.Sprintf("plan %q not found in store", planID))
	}
	if err != nil {
		return nil, fmt.Errorf("store: load plan %s: %w", planID, err)
	}
	return canonical, nil
}

// SaveExecutionResult persists result's canonical JSON keyed by
// (plan_id, chunk_id). result must already be canonicalizable JSON (the
// caller's own result record, marshaled by the standard library).
func (s *Store) SaveExecutionResult(planID, chunkID string, result interface{}) error {
	canonical, err := s.hasher.Canonical(result)
	if err != nil {
		return contracts.NewDeterminismViolation("failed to canonicalize execution result for persistence", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO execution_results (plan_id, chunk_id, canonical_json) VALUES (?, ?, ?)
		 ON CONFLICT(plan_id, chunk_id) DO UPDATE SET canonical_json = excluded.canonical_json`,
		planID, chunkID, canonical,
	)
	if err != nil {
		return fmt.Errorf("store: save execution result %s/%s: %w", planID, chunkID, err)
	}
	return nil
}

// LoadExecutionResult returns the canonical JSON bytes stored for
// (plan_id, chunk_id).
func (s *Store) LoadExecutionResult(planID, chunkID string) ([]byte, error) {
	var canonical []byte
	err := s.db.QueryRow(
		`SELECT canonical_json FROM execution_results WHERE plan_id = ? AND chunk_id = ?`,
		planID, chunkID,
	).Scan(&canonical)
	if err == sql.ErrNoRows {
		return nil, contracts.NewNotFound(fmt.Sprintf("execution result %q/%q not found in store", planID, chunkID))
	}
	if err != nil {
		return nil, fmt.Errorf("store: load execution result %s/%s: %w", planID, chunkID, err)
	}
	return canonical, nil
}
