package todo

import "database/sql"

func nullableString(value *string) sql.NullString {
	// nil 映射为 SQL NULL，交给 COALESCE 保留原值
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableBool(value *bool) sql.NullBool {
	if value == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *value, Valid: true}
}

// applyPatch 把提供的字段覆盖到当前记录上，id 与 time 不变
func applyPatch(current Todo, patch Patch) Todo {
	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Completed != nil {
		current.Completed = *patch.Completed
	}
	return current
}
