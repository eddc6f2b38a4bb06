package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// Insert records a state-changing action inside the caller's transaction so
// the audit row commits or rolls back with the mutation it describes.
func Insert(ctx context.Context, tx pgx.Tx, actorID, entity, entityID, action string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (actor_id, entity, entity_id, action, metadata)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
`
	_, err := tx.Exec(ctx, q, actorID, entity, entityID, action, s)
	return err
}
