/*
store.go - Persistence interface for parties and their logs

PURPOSE:
  Defines the interface between the Registry and the database. Different
  implementations can use SQLite or in-memory storage; the Registry is
  agnostic.

CONTRACT:
  - Transactions and payments are append-only: no update or delete
    methods exist for them. Ever.
  - Notes support targeted edit/delete by id; edits change only the text.
  - DeleteParty cascades: a party's logs never outlive the party.
  - Loads return logs ordered by append time.
  - Unknown ids surface as NotFoundError; the store never invents rows.

VALIDATION:
  Input validation lives in the Registry, not here. By the time a write
  reaches the store it is well-formed; the store only persists.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go: production SQLite
*/
package ledger

import "context"

// Store handles persistence of parties and their per-party logs.
type Store interface {
	// CreateParty persists a new party, including any initial transaction
	// already attached to it.
	CreateParty(ctx context.Context, p *Party) error

	// GetParty returns a party with all logs loaded, ordered by append time.
	GetParty(ctx context.Context, id PartyID) (*Party, error)

	// ListParties returns all parties with logs loaded. A non-nil kind
	// restricts the result to that kind.
	ListParties(ctx context.Context, kind *PartyKind) ([]*Party, error)

	// UpdatePartyFields updates the mutable attributes. Kind is not here:
	// it is fixed at creation.
	UpdatePartyFields(ctx context.Context, id PartyID, name, phone, address string) error

	// DeleteParty removes the party and cascades to its logs.
	DeleteParty(ctx context.Context, id PartyID) error

	// AppendTransaction appends to the party's transaction log.
	AppendTransaction(ctx context.Context, id PartyID, tx Transaction) error

	// AppendPayment appends to the party's payment log.
	AppendPayment(ctx context.Context, id PartyID, pay Payment) error

	// AppendNote appends to the party's note log.
	AppendNote(ctx context.Context, id PartyID, n Note) error

	// UpdateNote replaces the text of one note, leaving its date and the
	// rest of the log untouched.
	UpdateNote(ctx context.Context, id PartyID, noteID NoteID, text string) error

	// DeleteNote removes one note by id.
	DeleteNote(ctx context.Context, id PartyID, noteID NoteID) error
}
