package todo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SQLiteTable 是 GORM 模型对应的表名
const SQLiteTable = "todos"

func (Todo) TableName() string {
	return SQLiteTable
}

// SQLiteStore 基于 GORM 的本地存储，行为与 PostgresStore 一致
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore 迁移表结构后返回存储
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&Todo{}); err != nil {
		return nil, fmt.Errorf("migrate todo schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Todo, error) {
	todos := make([]Todo, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Todo, error) {
	var todo Todo
	if err := s.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return Todo{}, recordNotFoundOr(err, "get todo %d", id)
	}
	return todo, nil
}

func (s *SQLiteStore) Create(ctx context.Context, title string) (Todo, error) {
	todo := Todo{Title: title, Completed: false}
	if err := s.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, patch Patch) (Todo, error) {
	// 读取与写入放在同一事务内，避免未提供字段被旧值覆盖
	var merged Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Todo
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		merged = applyPatch(current, patch)
		return tx.Model(&current).Updates(map[string]any{
			"title":     merged.Title,
			"completed": merged.Completed,
		}).Error
	})
	if err != nil {
		return Todo{}, recordNotFoundOr(err, "update todo %d", id)
	}
	return merged, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Todo{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete todo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func recordNotFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
