package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// DirectoryStats holds row counts across the directory tables.
type DirectoryStats struct {
	Persons         int64 `json:"persons"`
	Addresses       int64 `json:"addresses"`
	Phones          int64 `json:"phones"`
	Hobbies         int64 `json:"hobbies"`
	OrphanAddresses int64 `json:"orphan_addresses"`
}

// StatsStore runs read-only aggregate queries with squirrel on the
// connection pool behind GORM.
type StatsStore struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

func NewStatsStore(gdb *gorm.DB) (*StatsStore, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB for stats: %w", err)
	}
	return &StatsStore{db: sqlDB, psql: StatementBuilder(gdb.Dialector.Name())}, nil
}

func (s *StatsStore) count(ctx context.Context, name string, qb sq.SelectBuilder) (int64, error) {
	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for %s: %w", name, err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to execute %s query: %w", name, err)
	}
	return n, nil
}

func (s *StatsStore) CountPersons(ctx context.Context) (int64, error) {
	return s.count(ctx, "CountPersons", s.psql.Select("COUNT(*)").From("person"))
}

func (s *StatsStore) CountHobbies(ctx context.Context) (int64, error) {
	return s.count(ctx, "CountHobbies", s.psql.Select("COUNT(*)").From("hobby"))
}

// CountPersonsWithHobby returns 0 for an unknown hobby name.
func (s *StatsStore) CountPersonsWithHobby(ctx context.Context, name string) (int64, error) {
	qb := s.psql.Select("COUNT(DISTINCT hp.person_id)").
		From("hobby_person hp").
		Join("hobby h ON h.id = hp.hobby_id").
		Where(sq.Eq{"h.name": name})
	return s.count(ctx, "CountPersonsWithHobby", qb)
}

func (s *StatsStore) CountOrphanAddresses(ctx context.Context) (int64, error) {
	qb := s.psql.Select("COUNT(*)").
		From("address a").
		Where("NOT EXISTS (SELECT 1 FROM person p WHERE p.address_id = a.id)")
	return s.count(ctx, "CountOrphanAddresses", qb)
}

func (s *StatsStore) Stats(ctx context.Context) (DirectoryStats, error) {
	var st DirectoryStats
	var err error
	if st.Persons, err = s.CountPersons(ctx); err != nil {
		return DirectoryStats{}, err
	}
	if st.Addresses, err = s.count(ctx, "CountAddresses", s.psql.Select("COUNT(*)").From("address")); err != nil {
		return DirectoryStats{}, err
	}
	if st.Phones, err = s.count(ctx, "CountPhones", s.psql.Select("COUNT(*)").From("phone")); err != nil {
		return DirectoryStats{}, err
	}
	if st.Hobbies, err = s.CountHobbies(ctx); err != nil {
		return DirectoryStats{}, err
	}
	if st.OrphanAddresses, err = s.CountOrphanAddresses(ctx); err != nil {
		return DirectoryStats{}, err
	}
	return st, nil
}
