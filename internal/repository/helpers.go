package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// nullStringValue unwraps a NullString to its value or "".
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// positionRow is one sibling in a collection's position order.
type positionRow struct {
	id       string
	position int
}

// positionWrite is one UPDATE of the two-step swap.
type positionWrite struct {
	id       string
	position int
}

// planSwap resolves a move against the siblings sorted by position ascending.
// It returns the two writes of the swap in issue order: first the mover takes
// the sibling's old position, then the sibling takes the mover's. A move off
// either end returns ok=false, which callers treat as a no-op.
func planSwap(rows []positionRow, id string, dir MoveDirection) (first, second positionWrite, ok bool) {
	idx := -1
	for i, r := range rows {
		if r.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return positionWrite{}, positionWrite{}, false
	}

	var sibling int
	switch dir {
	case MoveUp:
		sibling = idx - 1
	case MoveDown:
		sibling = idx + 1
	default:
		return positionWrite{}, positionWrite{}, false
	}
	if sibling < 0 || sibling >= len(rows) {
		return positionWrite{}, positionWrite{}, false
	}

	first = positionWrite{id: rows[idx].id, position: rows[sibling].position}
	second = positionWrite{id: rows[sibling].id, position: rows[idx].position}
	return first, second, true
}

// moveInTable runs the two-step position swap against one table. The writes
// are sequential (the second is issued only after the first resolved) so the
// siblings can never both observe pre-swap positions; a failure of the second
// write leaves the first applied until the admin retries.
func moveInTable(ctx context.Context, db *sql.DB, table, id string, dir MoveDirection) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, position FROM `+table+` ORDER BY position ASC`)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	defer rows.Close()

	var siblings []positionRow
	for rows.Next() {
		var pr positionRow
		if err := rows.Scan(&pr.id, &pr.position); err != nil {
			return fmt.Errorf("failed to scan position row: %w", err)
		}
		siblings = append(siblings, pr)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate position rows: %w", err)
	}

	first, second, ok := planSwap(siblings, id, dir)
	if !ok {
		return nil
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE `+table+` SET position = $2, updated_at = now() WHERE id = $1`,
		first.id, first.position); err != nil {
		return fmt.Errorf("failed to move entry: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE `+table+` SET position = $2, updated_at = now() WHERE id = $1`,
		second.id, second.position); err != nil {
		return fmt.Errorf("failed to move sibling (first write already applied): %w", err)
	}
	return nil
}
