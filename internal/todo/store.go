package todo

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// PostgresTable 是 PostgreSQL 下的表名（含 schema）
const PostgresTable = "todo.list"

// Repository 是 Todo 的持久化接口，PostgreSQL 与 SQLite 各有一个实现
type Repository interface {
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id int64) (Todo, error)
	Create(ctx context.Context, title string) (Todo, error)
	Update(ctx context.Context, id int64, patch Patch) (Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Migrate 幂等地创建 todo.list 表
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate todo schema: %w", err)
	}
	return nil
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	// 数据访问层封装
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]Todo, error) {
	// 查询全部 todo，最新的在前
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, completed, time
		FROM todo.list
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]Todo, 0)
	for rows.Next() {
		var todo Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.Time); err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Todo, error) {
	// 按 ID 查询
	var todo Todo
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, completed, time
		FROM todo.list
		WHERE id = $1
	`, id)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.Time); err != nil {
		return Todo{}, notFoundOr(err, "get todo %d", id)
	}
	return todo, nil
}

func (s *PostgresStore) Create(ctx context.Context, title string) (Todo, error) {
	// 新建 todo，id 与 time 由数据库生成
	var todo Todo
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO todo.list (title, completed, time)
		VALUES ($1, false, NOW())
		RETURNING id, title, completed, time
	`, title)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.Time); err != nil {
		return Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, patch Patch) (Todo, error) {
	// 单条语句完成合并，未提供的字段保持数据库中的当前值
	var todo Todo
	row := s.db.QueryRowContext(ctx, `
		UPDATE todo.list
		SET title = COALESCE($1, title),
			completed = COALESCE($2, completed)
		WHERE id = $3
		RETURNING id, title, completed, time
	`, nullableString(patch.Title), nullableBool(patch.Completed), id)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.Time); err != nil {
		return Todo{}, notFoundOr(err, "update todo %d", id)
	}
	return todo, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	// 物理删除
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM todo.list
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// pgErrorFields 提取 PostgreSQL 错误细节，仅用于服务端日志
func pgErrorFields(err error) []any {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	return []any{
		"pg_code", pgErr.Code,
		"pg_detail", pgErr.Detail,
		"pg_schema", pgErr.SchemaName,
		"pg_table", pgErr.TableName,
		"pg_constraint", pgErr.ConstraintName,
		"pg_routine", pgErr.Routine,
	}
}
