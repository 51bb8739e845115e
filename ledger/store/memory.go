// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/smartstock/ledger-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	parties map[ledger.PartyID]*ledger.Party
}

func NewMemory() *Memory {
	return &Memory{parties: make(map[ledger.PartyID]*ledger.Party)}
}

func (m *Memory) CreateParty(_ context.Context, p *ledger.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[p.ID] = p.Clone()
	return nil
}

func (m *Memory) GetParty(_ context.Context, id ledger.PartyID) (*ledger.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	return p.Clone(), nil
}

func (m *Memory) ListParties(_ context.Context, kind *ledger.PartyKind) ([]*ledger.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ledger.Party, 0, len(m.parties))
	for _, p := range m.parties {
		if kind != nil && p.Kind != *kind {
			continue
		}
		result = append(result, p.Clone())
	}
	// Deterministic order: oldest first, id as tiebreaker.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) UpdatePartyFields(_ context.Context, id ledger.PartyID, name, phone, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	p.Name, p.Phone, p.Address = name, phone, address
	return nil
}

func (m *Memory) DeleteParty(_ context.Context, id ledger.PartyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.parties[id]; !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	// Logs live inside the party record, so removal cascades for free.
	delete(m.parties, id)
	return nil
}

func (m *Memory) AppendTransaction(_ context.Context, id ledger.PartyID, tx ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	p.Transactions = append(p.Transactions, tx)
	return nil
}

func (m *Memory) AppendPayment(_ context.Context, id ledger.PartyID, pay ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	p.Payments = append(p.Payments, pay)
	return nil
}

func (m *Memory) AppendNote(_ context.Context, id ledger.PartyID, n ledger.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	p.Notes = append(p.Notes, n)
	return nil
}

func (m *Memory) UpdateNote(_ context.Context, id ledger.PartyID, noteID ledger.NoteID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	for i := range p.Notes {
		if p.Notes[i].ID == noteID {
			p.Notes[i].Text = text
			return nil
		}
	}
	return &ledger.NotFoundError{Kind: "note", ID: string(noteID)}
}

func (m *Memory) DeleteNote(_ context.Context, id ledger.PartyID, noteID ledger.NoteID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok {
		return &ledger.NotFoundError{Kind: "party", ID: string(id)}
	}
	for i := range p.Notes {
		if p.Notes[i].ID == noteID {
			p.Notes = append(p.Notes[:i], p.Notes[i+1:]...)
			return nil
		}
	}
	return &ledger.NotFoundError{Kind: "note", ID: string(noteID)}
}
