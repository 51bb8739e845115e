/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Production persistence for parties and their logs. The same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements exist for transactions or payments
  - Notes are the single exception: targeted text update and delete by id
  - Party deletion cascades through foreign keys, so logs never outlive
    their party

KEY TABLES:
  parties:       party records (client/supplier attributes)
  transactions:  append-only sale/purchase log
  line_items:    product lines belonging to one transaction
  payments:      append-only settlement log
  notes:         editable annotations

AMOUNT STORAGE:
  Monetary values are stored as decimal TEXT, never as REAL. SQLite's
  floating point would reintroduce exactly the drift the Money type
  exists to prevent.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/smartstock.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  registry := ledger.NewRegistry(store)

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smartstock/ledger-engine/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time, and a pooled second connection
	// to ":memory:" would see a different, empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('client', 'supplier')),
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Append-only sale/purchase log
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK (kind IN ('sale', 'purchase')),
		amount TEXT NOT NULL,
		date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_party
		ON transactions(party_id, date);

	CREATE TABLE IF NOT EXISTS line_items (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price TEXT NOT NULL,
		total_amount TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_line_items_transaction
		ON line_items(transaction_id);

	-- Append-only settlement log
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payments_party
		ON payments(party_id, date);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_party
		ON notes(party_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PARTIES
// =============================================================================

func (s *Store) CreateParty(ctx context.Context, p *ledger.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO parties (id, name, kind, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Name, string(p.Kind), p.Phone, p.Address,
		p.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert party: %w", err)
	}

	for _, txn := range p.Transactions {
		if err := insertTransaction(ctx, tx, p.ID, txn); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetParty(ctx context.Context, id ledger.PartyID) (*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, phone, address, created_at
		FROM parties WHERE id = ?`, string(id))

	p, err := scanParty(row)
	if err == sql.ErrNoRows {
		return nil, &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadLogs(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListParties(ctx context.Context, kind *ledger.PartyKind) ([]*ledger.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, kind, phone, address, created_at FROM parties`
	args := []any{}
	if kind != nil {
		query += ` WHERE kind = ?`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*ledger.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range parties {
		if err := s.loadLogs(ctx, p); err != nil {
			return nil, err
		}
	}
	return parties, nil
}

func (s *Store) UpdatePartyFields(ctx context.Context, id ledger.PartyID, name, phone, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE parties SET name = ?, phone = ?, address = ? WHERE id = ?`,
		name, phone, address, string(id))
	if err != nil {
		return err
	}
	return requireRow(res, "party", string(id))
}

func (s *Store) DeleteParty(ctx context.Context, id ledger.PartyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Logs cascade through foreign keys.
	res, err := s.db.ExecContext(ctx, `DELETE FROM parties WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return requireRow(res, "party", string(id))
}

// =============================================================================
// LOG APPENDS
// =============================================================================

func (s *Store) AppendTransaction(ctx context.Context, id ledger.PartyID, txn ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireParty(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, id, txn); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AppendPayment(ctx context.Context, id ledger.PartyID, pay ledger.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireParty(ctx, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, party_id, amount, date)
		VALUES (?, ?, ?, ?)`,
		string(pay.ID), string(id), pay.Amount.String(),
		pay.Date.Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) AppendNote(ctx context.Context, id ledger.PartyID, n ledger.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireParty(ctx, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, party_id, text, date)
		VALUES (?, ?, ?, ?)`,
		string(n.ID), string(id), n.Text, n.Date.Format(time.RFC3339Nano),
	)
	return err
}

// =============================================================================
// NOTE EDITS - The single exception to append-only
// =============================================================================

func (s *Store) UpdateNote(ctx context.Context, id ledger.PartyID, noteID ledger.NoteID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireParty(ctx, id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET text = ? WHERE id = ? AND party_id = ?`,
		text, string(noteID), string(id))
	if err != nil {
		return err
	}
	return requireRow(res, "note", string(noteID))
}

func (s *Store) DeleteNote(ctx context.Context, id ledger.PartyID, noteID ledger.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireParty(ctx, id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM notes WHERE id = ? AND party_id = ?`,
		string(noteID), string(id))
	if err != nil {
		return err
	}
	return requireRow(res, "note", string(noteID))
}

// =============================================================================
// INTERNAL
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanParty(row scanner) (*ledger.Party, error) {
	var (
		p         ledger.Party
		id, kind  string
		createdAt string
	)
	if err := row.Scan(&id, &p.Name, &kind, &p.Phone, &p.Address, &createdAt); err != nil {
		return nil, err
	}
	p.ID = ledger.PartyID(id)
	p.Kind = ledger.PartyKind(kind)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	p.CreatedAt = ts
	return &p, nil
}

func (s *Store) loadLogs(ctx context.Context, p *ledger.Party) error {
	if err := s.loadTransactions(ctx, p); err != nil {
		return err
	}
	if err := s.loadPayments(ctx, p); err != nil {
		return err
	}
	return s.loadNotes(ctx, p)
}

func (s *Store) loadTransactions(ctx context.Context, p *ledger.Party) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, amount, date FROM transactions
		WHERE party_id = ? ORDER BY date, rowid`, string(p.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, kind, amount, date string
		if err := rows.Scan(&id, &kind, &amount, &date); err != nil {
			return err
		}
		txn := ledger.Transaction{
			ID:   ledger.TransactionID(id),
			Kind: ledger.TransactionKind(kind),
		}
		if txn.Amount, err = ledger.ParseMoney(amount); err != nil {
			return err
		}
		if txn.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return fmt.Errorf("parse transaction date: %w", err)
		}
		p.Transactions = append(p.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Transactions {
		if err := s.loadLineItems(ctx, &p.Transactions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadLineItems(ctx context.Context, txn *ledger.Transaction) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_name, quantity, price, total_amount FROM line_items
		WHERE transaction_id = ? ORDER BY item_id`, string(txn.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			li           ledger.LineItem
			price, total string
		)
		if err := rows.Scan(&li.ProductName, &li.Quantity, &price, &total); err != nil {
			return err
		}
		if li.Price, err = ledger.ParseMoney(price); err != nil {
			return err
		}
		if li.TotalAmount, err = ledger.ParseMoney(total); err != nil {
			return err
		}
		txn.Details = append(txn.Details, li)
	}
	return rows.Err()
}

func (s *Store) loadPayments(ctx context.Context, p *ledger.Party) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, date FROM payments
		WHERE party_id = ? ORDER BY date, rowid`, string(p.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pay              ledger.Payment
			id, amount, date string
		)
		if err := rows.Scan(&id, &amount, &date); err != nil {
			return err
		}
		pay.ID = ledger.PaymentID(id)
		if pay.Amount, err = ledger.ParseMoney(amount); err != nil {
			return err
		}
		if pay.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return fmt.Errorf("parse payment date: %w", err)
		}
		p.Payments = append(p.Payments, pay)
	}
	return rows.Err()
}

func (s *Store) loadNotes(ctx context.Context, p *ledger.Party) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, date FROM notes
		WHERE party_id = ? ORDER BY date, rowid`, string(p.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n        ledger.Note
			id, date string
		)
		if err := rows.Scan(&id, &n.Text, &date); err != nil {
			return err
		}
		n.ID = ledger.NoteID(id)
		if n.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return fmt.Errorf("parse note date: %w", err)
		}
		p.Notes = append(p.Notes, n)
	}
	return rows.Err()
}

func insertTransaction(ctx context.Context, tx *sql.Tx, partyID ledger.PartyID, txn ledger.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, party_id, kind, amount, date)
		VALUES (?, ?, ?, ?, ?)`,
		string(txn.ID), string(partyID), string(txn.Kind),
		txn.Amount.String(), txn.Date.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	for _, li := range txn.Details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO line_items (transaction_id, product_name, quantity, price, total_amount)
			VALUES (?, ?, ?, ?, ?)`,
			string(txn.ID), li.ProductName, li.Quantity,
			li.Price.String(), li.TotalAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

func (s *Store) requireParty(ctx context.Context, id ledger.PartyID) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM parties WHERE id = ?`, string(id)).Scan(&one)
	if err == sql.ErrNoRows {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	return err
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &ledger.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}
