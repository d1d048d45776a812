package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finledger/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned
	// by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned on unique-constraint violations
	// (username, email, category name).
	ErrDuplicate = errors.New("already exists")

	// ErrInUse is returned when deleting a row still referenced by
	// other rows.
	ErrInUse = errors.New("still in use")
)

// sortColumns maps the accepted sort_by values to real columns. Anything
// not in this map is rejected before it ever reaches SQL.
var sortColumns = map[string]string{
	"date_purchase": "date_purchase",
	"amount":        "amount_cents",
	"type_expense":  "type_expense",
	"description":   "description",
	"id":            "id",
}

// SortColumn resolves a sort_by parameter to a column name. The empty
// string selects the default ordering by purchase date.
func SortColumn(name string) (string, bool) {
	if name == "" {
		return "date_purchase", true
	}
	col, ok := sortColumns[name]
	return col, ok
}

// ExpenseFilter is a conjunctive filter over one user's expenses. Each
// bound applies only when set.
type ExpenseFilter struct {
	Type       string
	MinAmount  *int64 // cents
	MaxAmount  *int64 // cents
	StartDate  time.Time
	EndDate    time.Time
	SortBy     string // must come from SortColumn
	Descending bool
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id))
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) UpdateUserProfile(ctx context.Context, id int64, username, email string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username = ?, email = ? WHERE id = ?",
		username, email, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(res)
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (*core.Category, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}
	return &core.Category{ID: id, Name: name}, nil
}

func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint") {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

// --- expenses ---

const expenseColumns = "id, type_expense, description, date_purchase, amount_cents, user_id, category_id, recurrence, recurrence_end"

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (type_expense, description, date_purchase, amount_cents, user_id, category_id, recurrence, recurrence_end)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Type, e.Description, e.DatePurchase, e.Amount.Cents, e.UserID, e.CategoryID,
		nullRecurrence(e.Recurrence), nullTime(e.RecurrenceEnd))
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("expense id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"user_id", e.UserID,
		"type", e.Type,
		"amount_cents", e.Amount.Cents)

	return &e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET type_expense = ?, description = ?, date_purchase = ?, amount_cents = ?, category_id = ?, recurrence = ?, recurrence_end = ?
		 WHERE id = ? AND user_id = ?`,
		e.Type, e.Description, e.DatePurchase, e.Amount.Cents, e.CategoryID,
		nullRecurrence(e.Recurrence), nullTime(e.RecurrenceEnd), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res)
}

// FilterExpenses builds the conjunctive filter query. SortBy must be a
// column returned by SortColumn.
func (r *SQLiteRepository) FilterExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if f.Type != "" {
		where = append(where, "type_expense = ?")
		args = append(args, f.Type)
	}
	if f.MinAmount != nil {
		where = append(where, "amount_cents >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		where = append(where, "amount_cents <= ?")
		args = append(args, *f.MaxAmount)
	}
	if !f.StartDate.IsZero() {
		where = append(where, "date_purchase >= ?")
		args = append(args, f.StartDate)
	}
	if !f.EndDate.IsZero() {
		where = append(where, "date_purchase <= ?")
		args = append(args, f.EndDate)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "date_purchase"
	}
	order := "ASC"
	if f.Descending {
		order = "DESC"
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE " +
		strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY %s %s, id %s", sortBy, order, order)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter expenses: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListRecurringTagged returns every expense, across all users, carrying a
// recurrence tag. Used by the recurring-expense generator.
func (r *SQLiteRepository) ListRecurringTagged(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE recurrence IS NOT NULL ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list recurring tagged: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// InsertExpensesBatch inserts all expenses inside a single transaction,
// committed once after the loop. Any failure rolls the whole batch back.
func (r *SQLiteRepository) InsertExpensesBatch(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (type_expense, description, date_purchase, amount_cents, user_id, category_id, recurrence, recurrence_end)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range expenses {
		if _, err := stmt.ExecContext(ctx,
			e.Type, e.Description, e.DatePurchase, e.Amount.Cents, e.UserID, e.CategoryID,
			nullRecurrence(e.Recurrence), nullTime(e.RecurrenceEnd)); err != nil {
			return fmt.Errorf("batch insert expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// MonthlySummary sums one user's expenses for the given month, grouped by
// expense type.
func (r *SQLiteRepository) MonthlySummary(ctx context.Context, userID int64, year, month int) (core.MonthlySummary, error) {
	summary := core.MonthlySummary{Year: year, Month: month}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT type_expense, SUM(amount_cents)
		 FROM expenses
		 WHERE user_id = ? AND date_purchase >= ? AND date_purchase < ?
		 GROUP BY type_expense
		 ORDER BY type_expense`,
		userID, start, end)
	if err != nil {
		return summary, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tt core.TypeTotal
		if err := rows.Scan(&tt.Type, &tt.Total.Cents); err != nil {
			return summary, fmt.Errorf("scan summary row: %w", err)
		}
		summary.ByType = append(summary.ByType, tt)
	}
	return summary, rows.Err()
}

// --- recurring expense templates ---

func (r *SQLiteRepository) CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) (*core.RecurringExpense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (amount_cents, type_expense, description, interval, start_date, end_date, user_id, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		re.Amount.Cents, re.Type, re.Description, string(re.Interval),
		re.StartDate, nullTime(re.EndDate), re.UserID, re.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("create recurring expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("recurring expense id: %w", err)
	}
	re.ID = id
	return &re, nil
}

func (r *SQLiteRepository) ListRecurringExpenses(ctx context.Context, userID int64) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, type_expense, description, interval, start_date, end_date, user_id, category_id
		 FROM recurring_expenses WHERE user_id = ? ORDER BY start_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringExpense
	for rows.Next() {
		var (
			re  core.RecurringExpense
			end sql.NullTime
		)
		if err := rows.Scan(&re.ID, &re.Amount.Cents, &re.Type, &re.Description,
			(*string)(&re.Interval), &re.StartDate, &end, &re.UserID, &re.CategoryID); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		if end.Valid {
			re.EndDate = end.Time
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteRecurringExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM recurring_expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return requireAffected(res)
}

// --- notifications ---

func (r *SQLiteRepository) CreateNotification(ctx context.Context, userID int64, message, notifType string) (*core.Notification, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, message, type) VALUES (?, ?, ?)",
		userID, message, notifType)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("notification id: %w", err)
	}

	var n core.Notification
	var read int
	err = r.db.QueryRowContext(ctx,
		"SELECT id, user_id, message, type, created_at, is_read FROM notifications WHERE id = ?", id).
		Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.CreatedAt, &read)
	if err != nil {
		return nil, fmt.Errorf("read back notification: %w", err)
	}
	n.Read = read != 0
	return &n, nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, type, created_at, is_read
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []core.Notification
	for rows.Next() {
		var (
			n    core.Notification
			read int
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.CreatedAt, &read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return requireAffected(res)
}

// --- token revocation ---

func (r *SQLiteRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)",
		jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM revoked_tokens WHERE jti = ?", jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}

// PurgeExpiredRevocations drops revocation entries whose tokens have
// expired anyway. Returns the number of rows removed.
func (r *SQLiteRepository) PurgeExpiredRevocations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("purge revocations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge revocations count: %w", err)
	}
	return n, nil
}

// --- helpers ---

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullRecurrence(r core.Recurrence) any {
	if r == "" {
		return nil
	}
	return string(r)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

type expenseScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row expenseScanner) (*core.Expense, error) {
	var (
		e          core.Expense
		recurrence sql.NullString
		recEnd     sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Type, &e.Description, &e.DatePurchase, &e.Amount.Cents,
		&e.UserID, &e.CategoryID, &recurrence, &recEnd)
	if err != nil {
		return nil, err
	}
	if recurrence.Valid {
		e.Recurrence = core.Recurrence(recurrence.String)
	}
	if recEnd.Valid {
		e.RecurrenceEnd = recEnd.Time
	}
	return &e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
