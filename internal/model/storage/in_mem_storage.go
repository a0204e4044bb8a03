package storage

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/entity/user"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

type InMemStorage struct {
	mu           sync.RWMutex
	users        map[int64]user.User
	userIDs      map[string]int64
	transactions map[int64]transaction.Transaction
	lastUserID   int64
	lastTxID     int64
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		users:        make(map[int64]user.User),
		userIDs:      make(map[string]int64),
		transactions: make(map[int64]transaction.Transaction),
	}
}

func (s *InMemStorage) Close() error {
	return nil
}

func (s *InMemStorage) CreateUser(_ context.Context, u user.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userIDs[u.Username]; ok {
		return 0, &customerr.ConflictError{Username: u.Username}
	}
	s.lastUserID++
	u.ID = s.lastUserID
	s.users[u.ID] = u
	s.userIDs[u.Username] = u.ID
	return u.ID, nil
}

func (s *InMemStorage) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userIDs[username]
	if !ok {
		return user.User{}, &customerr.NotFoundError{Entity: "user", ID: username}
	}
	return s.users[id], nil
}

func (s *InMemStorage) InsertTransaction(_ context.Context, tx transaction.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[tx.OwnerID]; !ok {
		return 0, &customerr.NotFoundError{Entity: "user", ID: strconv.FormatInt(tx.OwnerID, 10)}
	}
	s.lastTxID++
	tx.ID = s.lastTxID
	tx.OccurredOn = transaction.Day(tx.OccurredOn)
	s.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (s *InMemStorage) SelectTransactions(
	_ context.Context,
	ownerID int64,
	filter transaction.Filter,
) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]transaction.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.OwnerID == ownerID && filter.Matches(tx) {
			res = append(res, tx)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].OccurredOn.Equal(res[j].OccurredOn) {
			return res[i].OccurredOn.Before(res[j].OccurredOn)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// DeleteTransactions checks every id before touching the map, so a failure
// leaves the store as it was.
func (s *InMemStorage) DeleteTransactions(_ context.Context, ownerID int64, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		tx, ok := s.transactions[id]
		_, dup := seen[id]
		if !ok || tx.OwnerID != ownerID || dup {
			return 0, &customerr.NotFoundError{Entity: "transaction", ID: strconv.FormatInt(id, 10)}
		}
		seen[id] = struct{}{}
	}
	for id := range seen {
		delete(s.transactions, id)
	}
	return int64(len(seen)), nil
}

func (s *InMemStorage) DeleteAllTransactions(_ context.Context, ownerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, tx := range s.transactions {
		if tx.OwnerID == ownerID {
			delete(s.transactions, id)
			n++
		}
	}
	return n, nil
}
