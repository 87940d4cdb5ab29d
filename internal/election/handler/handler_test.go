package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"matadan/internal/election/models"
	"matadan/internal/election/service"
	"matadan/internal/election/store"
	jwttoken "matadan/internal/jwt_token"
	"matadan/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	stores store.Stores
	token  string
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.stores = store.NewMemoryStores()
	svc := service.New(s.stores, store.NewMemoryTx(s.stores), nil, nil, logger, nil)

	jwtService := jwttoken.NewJWTService("test-key", "matadan-test", time.Hour)
	token, err := jwtService.GenerateToken("admin", "admin")
	s.Require().NoError(err)
	s.token = token

	r := chi.NewRouter()
	New(svc, logger, jwttoken.NewJWTServiceAdapter(jwtService)).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) createParty(name string) *models.Participant {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/participants", map[string]any{
		"partyName":       name,
		"participantName": name + " Leader",
	})
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	type created struct {
		Participant models.Participant `json:"participant"`
	}
	return &testutil.UnmarshalResponse[created](s.T(), rr).Participant
}

func (s *HandlerSuite) registerVoter(voterID, citizenship string) {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/voters/register", map[string]any{
		"voterId":           voterID,
		"voterName":         "Voter " + voterID,
		"citizenshipNumber": citizenship,
	})
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
}

func (s *HandlerSuite) TestAuthGates() {
	s.Run("mutations without a token are unauthorized", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/participants", map[string]any{
			"partyName":       "No Token Party",
			"participantName": "Leader",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("garbage token is unauthorized", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/voters/register", map[string]any{
			"voterId": "V-1",
		})
		req.Header.Set("Authorization", "Bearer garbage")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("reads are public", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/participants"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}

func (s *HandlerSuite) TestParticipantEndpoints() {
	p := s.createParty("Handler Party")

	s.Run("get by id returns the party", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/participants/"+p.ID))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Participant](s.T(), rr)
		s.Equal("Handler Party", got.PartyName)
	})

	s.Run("unknown id is not found", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/participants/missing"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("duplicate name conflicts", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/participants", map[string]any{
			"partyName":       "Handler Party",
			"participantName": "Another",
		})
		req.Header.Set("Authorization", "Bearer "+s.token)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("malformed body is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/participants", "{nope")
		req.Header.Set("Authorization", "Bearer "+s.token)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("delete removes the party", func() {
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/api/participants/"+p.ID)
		req.Header.Set("Authorization", "Bearer "+s.token)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/participants/"+p.ID))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}

func (s *HandlerSuite) TestVoteFlow() {
	p := s.createParty("Vote Party")
	s.registerVoter("V-1", "C-1")

	s.Run("cast succeeds once", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{
			"voterId":       "V-1",
			"participantId": p.ID,
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONHasKey(s.T(), rr, "voter")
		testutil.AssertJSONHasKey(s.T(), rr, "participant")
	})

	s.Run("second cast is forbidden", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{
			"voterId":       "V-1",
			"participantId": p.ID,
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("check voter reflects the cast", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/voters/check/V-1"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		type status struct {
			Voter models.Voter        `json:"voter"`
			Party *models.Participant `json:"party"`
		}
		got := testutil.UnmarshalResponse[status](s.T(), rr)
		s.True(got.Voter.HasVoted)
		s.Require().NotNil(got.Party)
		s.Equal(p.ID, got.Party.ID)
	})

	s.Run("results report the tally", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/results"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "totalVotes", float64(1))
		testutil.AssertJSONContains(s.T(), rr, "turnoutPercentage", "100.00")
	})
}

func (s *HandlerSuite) TestMemberEndpoints() {
	p := s.createParty("Member Party")

	var memberID string
	s.Run("create member under the party", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/party-members", map[string]any{
			"participantId": p.ID,
			"memberName":    "Candidate",
			"position":      "Mayor",
			"type":          "direct",
		})
		req.Header.Set("Authorization", "Bearer "+s.token)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		type created struct {
			Member models.PartyMember `json:"member"`
		}
		memberID = testutil.UnmarshalResponse[created](s.T(), rr).Member.ID
		s.NotEmpty(memberID)
	})

	s.Run("list members of the party", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/party-members/"+p.ID))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]models.PartyMember](s.T(), rr)
		s.Require().Len(*got, 1)
		s.Equal("Candidate", (*got)[0].MemberName)
	})

	s.Run("delete member", func() {
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/api/party-members/"+memberID)
		req.Header.Set("Authorization", "Bearer "+s.token)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}
