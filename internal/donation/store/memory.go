package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	"donationdesk/pkg/platform/sentinel"
)

// InMemory keeps requesters and donation requests in maps behind a RWMutex.
// It backs unit tests and local development; production uses Postgres.
type InMemory struct {
	mu         sync.RWMutex
	requesters map[uuid.UUID]*models.Requester
	requests   map[uuid.UUID]*models.DonationRequest
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		requesters: make(map[uuid.UUID]*models.Requester),
		requests:   make(map[uuid.UUID]*models.DonationRequest),
	}
}

func (s *InMemory) CreateRequester(_ context.Context, r *models.Requester) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requesters[r.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *r
	s.requesters[r.ID] = &cp
	return nil
}

func (s *InMemory) UpdateRequester(_ context.Context, r *models.Requester) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requesters[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *r
	s.requesters[r.ID] = &cp
	return nil
}

func (s *InMemory) GetRequester(_ context.Context, id uuid.UUID) (*models.Requester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requesters[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// FindRequesterByEmail matches the intake dedup key. The match is
// case-insensitive; requesters without a contact email never match.
func (s *InMemory) FindRequesterByEmail(_ context.Context, email string) (*models.Requester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requesters {
		if r.ContactEmail != "" && strings.EqualFold(r.ContactEmail, email) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListRequesters returns all requesters ordered by organization name.
func (s *InMemory) ListRequesters(_ context.Context) ([]*models.Requester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Requester, 0, len(s.requesters))
	for _, r := range s.requesters {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].OrgName) < strings.ToLower(out[j].OrgName)
	})
	return out, nil
}

func (s *InMemory) CreateRequest(_ context.Context, r *models.DonationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *InMemory) UpdateRequest(_ context.Context, r *models.DonationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *InMemory) DeleteRequest(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *InMemory) GetRequest(_ context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.join(r), nil
}

// ListRequests returns all requests with their requester embedded, newest
// first.
func (s *InMemory) ListRequests(_ context.Context) ([]*models.RequestWithRequester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RequestWithRequester, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, s.join(r))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListRequestsByRequester returns one requester's requests, newest first.
func (s *InMemory) ListRequestsByRequester(_ context.Context, requesterID uuid.UUID) ([]*models.RequestWithRequester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RequestWithRequester, 0)
	for _, r := range s.requests {
		if r.RequesterID == requesterID {
			out = append(out, s.join(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// join embeds the owning requester; callers hold at least the read lock.
func (s *InMemory) join(r *models.DonationRequest) *models.RequestWithRequester {
	cp := *r
	joined := &models.RequestWithRequester{DonationRequest: cp}
	if req, ok := s.requesters[r.RequesterID]; ok {
		joined.Requester = *req
	}
	return joined
}
