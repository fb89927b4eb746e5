package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/roster/internal/model"
)

// ErrNotFound is returned when a delete or lookup matches no row.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

//go:embed migrations/*.sql
var migrations embed.FS

const (
	tableContacts         = "contacts"
	tablePaymentTemplates = "payment_templates"
)

var contactColumns = []string{
	"id", "first_name", "last_name", "birthday", "pin", "email", "phone",
	"street_name", "street_number", "postal_code", "city",
	"is_member", "member_since", "member_until", "created_at", "updated_at",
}

var paymentTemplateColumns = []string{"id", "name", "amount", "description", "created_at"}

// DB is the SQLite-backed store for contacts and payment templates.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the database at path and applies any
// pending migrations.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) exec(ctx context.Context, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return d.sql.ExecContext(ctx, query, args...)
}

func (d *DB) query(ctx context.Context, b squirrel.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return d.sql.QueryContext(ctx, query, args...)
}

// CreateContact inserts c and sets its ID.
func (d *DB) CreateContact(ctx context.Context, c *model.Contact) error {
	id := uuid.NewString()
	insert := squirrel.Insert(tableContacts).
		Columns(contactColumns...).
		Values(id, c.FirstName, c.LastName, nullDate(c.Birthday), nullIfEmpty(c.PIN), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
			nullIfEmpty(c.StreetName), nullIfEmpty(c.StreetNumber), nullIfEmpty(c.PostalCode), nullIfEmpty(c.City),
			boolToInt(c.IsMember), nullDate(c.MemberSince), nullDate(c.MemberUntil), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if _, err := d.exec(ctx, insert); err != nil {
		return fmt.Errorf("inserting contact %s: %w", c.FullName(), err)
	}
	c.ID = id
	return nil
}

// ListContacts returns every contact ordered by last and first name.
func (d *DB) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return d.selectContacts(ctx, squirrel.Select(contactColumns...).
		From(tableContacts).
		OrderBy("last_name", "first_name", "id"))
}

// GetContact returns the contact with id.
func (d *DB) GetContact(ctx context.Context, id string) (model.Contact, error) {
	list, err := d.selectContacts(ctx, squirrel.Select(contactColumns...).
		From(tableContacts).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return model.Contact{}, err
	}
	if len(list) == 0 {
		return model.Contact{}, fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	return list[0], nil
}

func (d *DB) selectContacts(ctx context.Context, sel squirrel.SelectBuilder) ([]model.Contact, error) {
	rows, err := d.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		var (
			c                            model.Contact
			birthday, since, until       sql.NullString
			pin, email, phone            sql.NullString
			street, number, postal, city sql.NullString
			isMember                     int
			created, updated             string
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &birthday, &pin, &email, &phone,
			&street, &number, &postal, &city, &isMember, &since, &until, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		c.PIN, c.Email, c.Phone = pin.String, email.String, phone.String
		c.StreetName, c.StreetNumber, c.PostalCode, c.City = street.String, number.String, postal.String, city.String
		c.IsMember = isMember == 1
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		if c.Birthday, err = parseNullDate(birthday); err != nil {
			return nil, err
		}
		if c.MemberSince, err = parseNullDate(since); err != nil {
			return nil, err
		}
		if c.MemberUntil, err = parseNullDate(until); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}
	return out, nil
}

// SetMembership updates the membership window of a contact and bumps
// its update time.
func (d *DB) SetMembership(ctx context.Context, id string, member bool, since, until *time.Time, now time.Time) error {
	update := squirrel.Update(tableContacts).
		Set("is_member", boolToInt(member)).
		Set("member_since", nullDate(since)).
		Set("member_until", nullDate(until)).
		Set("updated_at", formatTime(now)).
		Where(squirrel.Eq{"id": id})
	return d.affectOne(ctx, update, "updating contact "+id)
}

// DeleteContact removes the contact with id.
func (d *DB) DeleteContact(ctx context.Context, id string) error {
	return d.affectOne(ctx, squirrel.Delete(tableContacts).Where(squirrel.Eq{"id": id}), "deleting contact "+id)
}

func (d *DB) affectOne(ctx context.Context, b squirrel.Sqlizer, what string) error {
	res, err := d.exec(ctx, b)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// CreatePaymentTemplate inserts p and sets its ID.
func (d *DB) CreatePaymentTemplate(ctx context.Context, p *model.PaymentTemplate) error {
	id := uuid.NewString()
	insert := squirrel.Insert(tablePaymentTemplates).
		Columns(paymentTemplateColumns...).
		Values(id, p.Name, p.Amount.StringFixed(2), nullIfEmpty(p.Description), formatTime(p.CreatedAt))
	if _, err := d.exec(ctx, insert); err != nil {
		return fmt.Errorf("inserting payment template %s: %w", p.Name, err)
	}
	p.ID = id
	return nil
}

// ListPaymentTemplates returns every payment template ordered by name.
func (d *DB) ListPaymentTemplates(ctx context.Context) ([]model.PaymentTemplate, error) {
	rows, err := d.query(ctx, squirrel.Select(paymentTemplateColumns...).
		From(tablePaymentTemplates).
		OrderBy("name", "id"))
	if err != nil {
		return nil, fmt.Errorf("querying payment templates: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentTemplate
	for rows.Next() {
		var (
			p       model.PaymentTemplate
			amount  string
			desc    sql.NullString
			created string
		)
		if err := rows.Scan(&p.ID, &p.Name, &amount, &desc, &created); err != nil {
			return nil, fmt.Errorf("scanning payment template: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q of %s: %w", amount, p.Name, err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		p.Description = desc.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment templates: %w", err)
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing stored date %q: %w", s.String, err)
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
