package repository

import "testing"

func rows(pairs ...any) []positionRow {
	out := make([]positionRow, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, positionRow{id: pairs[i].(string), position: pairs[i+1].(int)})
	}
	return out
}

// Moving B up in [A(0), B(1), C(2)] must produce [B(0), A(1), C(2)]: B takes
// A's position first, then A takes B's.
func TestPlanSwap_MoveUp(t *testing.T) {
	siblings := rows("A", 0, "B", 1, "C", 2)

	first, second, ok := planSwap(siblings, "B", MoveUp)
	if !ok {
		t.Fatal("expected a swap plan")
	}
	if first.id != "B" || first.position != 0 {
		t.Errorf("first write = %+v, want B to position 0", first)
	}
	if second.id != "A" || second.position != 1 {
		t.Errorf("second write = %+v, want A to position 1", second)
	}
}

func TestPlanSwap_MoveDown(t *testing.T) {
	siblings := rows("A", 0, "B", 1, "C", 2)

	first, second, ok := planSwap(siblings, "B", MoveDown)
	if !ok {
		t.Fatal("expected a swap plan")
	}
	if first.id != "B" || first.position != 2 {
		t.Errorf("first write = %+v, want B to position 2", first)
	}
	if second.id != "C" || second.position != 1 {
		t.Errorf("second write = %+v, want C to position 1", second)
	}
}

// Moving the first element up, or the last down, is a no-op.
func TestPlanSwap_BoundariesNoOp(t *testing.T) {
	siblings := rows("A", 0, "B", 1, "C", 2)

	if _, _, ok := planSwap(siblings, "A", MoveUp); ok {
		t.Error("moving the first element up must be a no-op")
	}
	if _, _, ok := planSwap(siblings, "C", MoveDown); ok {
		t.Error("moving the last element down must be a no-op")
	}
}

// Positions need not be contiguous; the swap exchanges the stored values.
func TestPlanSwap_SparsePositions(t *testing.T) {
	siblings := rows("A", 3, "B", 7, "C", 20)

	first, second, ok := planSwap(siblings, "C", MoveUp)
	if !ok {
		t.Fatal("expected a swap plan")
	}
	if first.position != 7 || second.position != 20 {
		t.Errorf("swap = %+v / %+v, want the stored positions exchanged", first, second)
	}
}

func TestPlanSwap_UnknownID(t *testing.T) {
	if _, _, ok := planSwap(rows("A", 0), "missing", MoveUp); ok {
		t.Error("unknown id must not produce a plan")
	}
}

// Interface compliance of the Postgres implementations.
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ ReferenceRepository = (*PostgresReferenceRepo)(nil)
	var _ DomainRepository = (*PostgresDomainRepo)(nil)
	var _ CompetenceRepository = (*PostgresCompetenceRepo)(nil)
	var _ SiteTextRepository = (*PostgresSiteTextRepo)(nil)
	var _ SettingsRepository = (*PostgresSettingsRepo)(nil)
	var _ AdminRepository = (*PostgresAdminRepo)(nil)
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}
