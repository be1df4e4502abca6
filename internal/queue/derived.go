package queue

import (
	"context"
	"fmt"
)

// ReplaceEntities swaps the stored entity rows for an item in one
// transaction, so re-running the analyze stage never duplicates rows.
func (s *Store) ReplaceEntities(ctx context.Context, itemID int64, entities []Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin entities tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	for _, entity := range entities {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO entities (item_id, kind, value, unit_idx) VALUES (?, ?, ?, ?)`,
			itemID, entity.Kind, entity.Value, entity.UnitIdx,
		); err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entities: %w", err)
	}
	return nil
}

// EntitiesForItem returns the stored entities for an item in insertion order.
func (s *Store) EntitiesForItem(ctx context.Context, itemID int64) ([]Entity, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, item_id, kind, value, unit_idx FROM entities WHERE item_id = ? ORDER BY id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		var entity Entity
		if err := rows.Scan(&entity.ID, &entity.ItemID, &entity.Kind, &entity.Value, &entity.UnitIdx); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// ReplaceFacts swaps the stored fact rows for an item in one transaction.
func (s *Store) ReplaceFacts(ctx context.Context, itemID int64, facts []Fact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin facts tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM facts WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clear facts: %w", err)
	}
	for _, fact := range facts {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO facts (item_id, subject, value, evidence, unit_idx) VALUES (?, ?, ?, ?, ?)`,
			itemID, fact.Subject, fact.Value, nullableString(fact.Evidence), fact.UnitIdx,
		); err != nil {
			return fmt.Errorf("insert fact: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit facts: %w", err)
	}
	return nil
}

// FactsForItem returns the stored facts for an item in insertion order.
func (s *Store) FactsForItem(ctx context.Context, itemID int64) ([]Fact, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, item_id, subject, value, COALESCE(evidence, ''), unit_idx FROM facts WHERE item_id = ? ORDER BY id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var fact Fact
		if err := rows.Scan(&fact.ID, &fact.ItemID, &fact.Subject, &fact.Value, &fact.Evidence, &fact.UnitIdx); err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}
