package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"donationdesk/internal/donation/models"
	"donationdesk/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemorySuite) newRequester(orgName, email string) *models.Requester {
	now := time.Now()
	return &models.Requester{
		ID:           uuid.New(),
		OrgName:      orgName,
		ContactEmail: email,
		Category:     models.CategoryOther,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemorySuite) newRequest(requesterID uuid.UUID, createdAt time.Time) *models.DonationRequest {
	return &models.DonationRequest{
		ID:           uuid.New(),
		RequesterID:  requesterID,
		Description:  "banner sponsorship",
		RequestDate:  createdAt,
		DonationType: models.DonationGiftCard,
		Status:       models.StatusNew,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func (s *InMemorySuite) TestRequesterCreationAndLookups() {
	s.Run("creates and finds requester by ID", func() {
		r := s.newRequester("Lincoln PTA", "jane@x.org")
		s.Require().NoError(s.store.CreateRequester(s.ctx, r))

		found, err := s.store.GetRequester(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal("Lincoln PTA", found.OrgName)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.GetRequester(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		r := s.newRequester("Dup", "dup@x.org")
		s.Require().NoError(s.store.CreateRequester(s.ctx, r))
		s.Require().ErrorIs(s.store.CreateRequester(s.ctx, r), sentinel.ErrConflict)
	})
}

func (s *InMemorySuite) TestFindRequesterByEmail() {
	s.Run("matches case-insensitively", func() {
		r := s.newRequester("Scouts", "Troop@Example.org")
		s.Require().NoError(s.store.CreateRequester(s.ctx, r))

		found, err := s.store.FindRequesterByEmail(s.ctx, "troop@example.org")
		s.Require().NoError(err)
		s.Equal(r.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown email", func() {
		_, err := s.store.FindRequesterByEmail(s.ctx, "nobody@example.org")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("never matches requesters without an email", func() {
		r := s.newRequester("No Email Org", "")
		s.Require().NoError(s.store.CreateRequester(s.ctx, r))

		_, err := s.store.FindRequesterByEmail(s.ctx, "")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestListRequestersOrdering() {
	for _, name := range []string{"zeta club", "Alpha School", "midtown choir"} {
		s.Require().NoError(s.store.CreateRequester(s.ctx, s.newRequester(name, name+"@x.org")))
	}

	list, err := s.store.ListRequesters(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("Alpha School", list[0].OrgName)
	s.Equal("midtown choir", list[1].OrgName)
	s.Equal("zeta club", list[2].OrgName)
}

func (s *InMemorySuite) TestRequesterUpdates() {
	s.Run("persists field changes", func() {
		r := s.newRequester("Old Name", "org@x.org")
		s.Require().NoError(s.store.CreateRequester(s.ctx, r))

		r.OrgName = "New Name"
		s.Require().NoError(s.store.UpdateRequester(s.ctx, r))

		found, err := s.store.GetRequester(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal("New Name", found.OrgName)
	})

	s.Run("returns ErrNotFound for non-existent requester", func() {
		err := s.store.UpdateRequester(s.ctx, s.newRequester("Ghost", "ghost@x.org"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestRequestLifecycleInStore() {
	requester := s.newRequester("Food Bank", "help@foodbank.org")
	s.Require().NoError(s.store.CreateRequester(s.ctx, requester))

	req := s.newRequest(requester.ID, time.Now())
	s.Require().NoError(s.store.CreateRequest(s.ctx, req))

	s.Run("get embeds the requester", func() {
		found, err := s.store.GetRequest(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Equal("Food Bank", found.Requester.OrgName)
	})

	s.Run("update persists status", func() {
		req.Status = models.StatusApproved
		s.Require().NoError(s.store.UpdateRequest(s.ctx, req))

		found, err := s.store.GetRequest(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, found.Status)
	})

	s.Run("delete removes the request", func() {
		s.Require().NoError(s.store.DeleteRequest(s.ctx, req.ID))
		_, err := s.store.GetRequest(s.ctx, req.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Require().ErrorIs(s.store.DeleteRequest(s.ctx, req.ID), sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestListRequestsNewestFirst() {
	requester := s.newRequester("Band Boosters", "band@x.org")
	s.Require().NoError(s.store.CreateRequester(s.ctx, requester))

	base := time.Now()
	oldest := s.newRequest(requester.ID, base.Add(-2*time.Hour))
	middle := s.newRequest(requester.ID, base.Add(-time.Hour))
	newest := s.newRequest(requester.ID, base)
	for _, r := range []*models.DonationRequest{middle, oldest, newest} {
		s.Require().NoError(s.store.CreateRequest(s.ctx, r))
	}

	list, err := s.store.ListRequests(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(newest.ID, list[0].ID)
	s.Equal(middle.ID, list[1].ID)
	s.Equal(oldest.ID, list[2].ID)
}

func (s *InMemorySuite) TestListRequestsByRequester() {
	first := s.newRequester("First", "first@x.org")
	second := s.newRequester("Second", "second@x.org")
	s.Require().NoError(s.store.CreateRequester(s.ctx, first))
	s.Require().NoError(s.store.CreateRequester(s.ctx, second))

	s.Require().NoError(s.store.CreateRequest(s.ctx, s.newRequest(first.ID, time.Now())))
	s.Require().NoError(s.store.CreateRequest(s.ctx, s.newRequest(first.ID, time.Now())))
	s.Require().NoError(s.store.CreateRequest(s.ctx, s.newRequest(second.ID, time.Now())))

	list, err := s.store.ListRequestsByRequester(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *InMemorySuite) TestCopiesAreIsolated() {
	r := s.newRequester("Fixed Name", "fixed@x.org")
	s.Require().NoError(s.store.CreateRequester(s.ctx, r))

	// Mutating the caller's struct must not leak into the store.
	r.OrgName = "Mutated"
	found, err := s.store.GetRequester(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("Fixed Name", found.OrgName)
}
