package database

import (
	sq "github.com/Masterminds/squirrel"
)

// StatementBuilder returns a squirrel builder with the placeholder style of
// the given GORM dialector name ("sqlite" or "postgres").
func StatementBuilder(dialect string) sq.StatementBuilderType {
	if dialect == "postgres" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}
