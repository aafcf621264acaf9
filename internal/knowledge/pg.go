package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	t "siteforge/internal/types"
)

// PGSearcher matches passages against a pgvector-indexed Postgres table.
type PGSearcher struct {
	db *sql.DB
}

func NewPGSearcher(db *sql.DB) *PGSearcher { return &PGSearcher{db: db} }

func (s *PGSearcher) Match(ctx context.Context, embedding []float32, threshold float64, topK int, propertyID string) ([]t.Passage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, 1 - (embedding <=> $1::vector) AS similarity
		FROM knowledge_passages
		WHERE property_id = $2
		  AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY embedding <=> $1::vector
		LIMIT $4`,
		vectorLiteral(embedding), propertyID, threshold, topK)
	if err != nil {
		return nil, fmt.Errorf("knowledge match: %w", err)
	}
	defer rows.Close()

	var out []t.Passage
	for rows.Next() {
		var p t.Passage
		var meta []byte
		if err := rows.Scan(&p.ID, &p.Content, &meta, &p.Similarity); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &p.Metadata)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// vectorLiteral renders the pgvector input format: [0.1,0.2,...]
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
