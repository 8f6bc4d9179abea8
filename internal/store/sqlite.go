package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"contacts-service/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	name  TEXT NOT NULL,
	phone TEXT NOT NULL
)`

// SQLite - хранилище в файле SQLite (или :memory:)
type SQLite struct {
	db *sql.DB
}

var _ ContactsStore = (*SQLite)(nil)

// OpenSQLite открывает базу и создает таблицу contacts при необходимости
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// :memory: живет в рамках одного соединения
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create contacts table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email, name, phone FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (s *SQLite) Get(ctx context.Context, id domain.ContactID) (domain.Contact, error) {
	key, ok := parseID(id)
	if !ok {
		return domain.Contact{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, email, name, phone FROM contacts WHERE id = ?`, key)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Contact{}, ErrNotFound
	}
	return c, err
}

func (s *SQLite) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (email, name, phone) VALUES (?, ?, ?)`, c.Email, c.Name, c.Phone)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to read contact id: %w", err)
	}

	c.ID = domain.ContactID(strconv.FormatInt(id, 10))
	return c, nil
}

func (s *SQLite) Update(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	key, ok := parseID(c.ID)
	if !ok {
		return domain.Contact{}, ErrNotFound
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET email = ?, name = ?, phone = ? WHERE id = ?`, c.Email, c.Name, c.Phone, key)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return domain.Contact{}, err
	}

	return c, nil
}

func (s *SQLite) Delete(ctx context.Context, id domain.ContactID) error {
	key, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return expectOneRow(res)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (domain.Contact, error) {
	var (
		id int64
		c  domain.Contact
	)
	if err := row.Scan(&id, &c.Email, &c.Name, &c.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, err
		}
		return domain.Contact{}, fmt.Errorf("failed to scan contact: %w", err)
	}
	c.ID = domain.ContactID(strconv.FormatInt(id, 10))
	return c, nil
}

func parseID(id domain.ContactID) (int64, bool) {
	key, err := strconv.ParseInt(string(id), 10, 64)
	return key, err == nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
