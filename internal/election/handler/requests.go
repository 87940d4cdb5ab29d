package handler

import "matadan/internal/election/service"

// Request payloads mirror the field names the web clients send.

type participantRequest struct {
	PartyName         string `json:"partyName"`
	PartyNameNepali   string `json:"partyNameNepali"`
	ParticipantName   string `json:"participantName"`
	PartySymbol       string `json:"partySymbol"`
	PartyLogo         string `json:"partyLogo"`
	Description       string `json:"description"`
	DirectSeats       int    `json:"directSeats"`
	ProportionalSeats int    `json:"proportionalSeats"`
}

func (r participantRequest) toInput() service.ParticipantInput {
	return service.ParticipantInput{
		PartyName:         r.PartyName,
		PartyNameNepali:   r.PartyNameNepali,
		ParticipantName:   r.ParticipantName,
		PartySymbol:       r.PartySymbol,
		PartyLogo:         r.PartyLogo,
		Description:       r.Description,
		DirectSeats:       r.DirectSeats,
		ProportionalSeats: r.ProportionalSeats,
	}
}

type memberRequest struct {
	ParticipantID    string `json:"participantId"`
	MemberName       string `json:"memberName"`
	MemberNameNepali string `json:"memberNameNepali"`
	Position         string `json:"position"`
	PositionNepali   string `json:"positionNepali"`
	WardNumber       int    `json:"wardNumber"`
	Type             string `json:"type"`
}

func (r memberRequest) toInput() service.MemberInput {
	return service.MemberInput{
		ParticipantID:    r.ParticipantID,
		MemberName:       r.MemberName,
		MemberNameNepali: r.MemberNameNepali,
		Position:         r.Position,
		PositionNepali:   r.PositionNepali,
		WardNumber:       r.WardNumber,
		Type:             r.Type,
	}
}

type voterRequest struct {
	VoterID           string `json:"voterId"`
	VoterName         string `json:"voterName"`
	CitizenshipNumber string `json:"citizenshipNumber"`
}

type ballotRequest struct {
	VoterID       string   `json:"voterId"`
	ParticipantID string   `json:"participantId"`
	CandidateIDs  []string `json:"candidateIds"`
}
