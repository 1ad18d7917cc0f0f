package stats

import (
	"context"
	"database/sql"
	"fmt"
)

type Summary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Remaining int64 `json:"remaining"`
}

type Store struct {
	db    *sql.DB
	query string
}

// NewStore 的 table 来自代码常量（todo.PostgresTable / todo.SQLiteTable），不接受外部输入
func NewStore(db *sql.DB, table string) *Store {
	return &Store{
		db: db,
		query: `
			SELECT COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed
			FROM ` + table,
	}
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	// 汇总 todo 完成情况
	var summary Summary
	row := s.db.QueryRowContext(ctx, s.query)
	if err := row.Scan(&summary.Total, &summary.Completed); err != nil {
		return Summary{}, fmt.Errorf("summarize todos: %w", err)
	}
	summary.Remaining = summary.Total - summary.Completed
	return summary, nil
}
