package model

import (
	"fmt"
	"strings"
)

// AdmissionStatus is the administrative state of a player.
type AdmissionStatus string

// Admission statuses.
const (
	AdmissionPending     AdmissionStatus = "pending"
	AdmissionAdmitted    AdmissionStatus = "admitted"
	AdmissionNotAdmitted AdmissionStatus = "not_admitted"
)

// AdmissionStatuses lists every valid status.
var AdmissionStatuses = []AdmissionStatus{AdmissionPending, AdmissionAdmitted, AdmissionNotAdmitted}

// ParseAdmissionStatus validates s.
func ParseAdmissionStatus(s string) (AdmissionStatus, error) {
	for _, st := range AdmissionStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: admission status %q", ErrInvalidStatus, s)
}

// Label is the human form, e.g. "not admitted".
func (s AdmissionStatus) Label() string { return strings.ReplaceAll(string(s), "_", " ") }

// Positions are the playing positions offered by the academy.
var Positions = []string{"Striker", "Midfielder", "Defender", "Goalkeeper"}

// Player is a registered academy player.
type Player struct {
	ID          int64  `json:"id,omitempty"`
	PlayerImage string `json:"player_image"`

	ParentGuardianName    string `json:"parent_guardian_name"`
	ParentContactAddress  string `json:"parent_contact_address"`
	ParentTelephone       string `json:"parent_telephone"`
	RelationshipToStudent string `json:"relationship_to_student"`
	ParentHopes           string `json:"parent_hopes"`

	Surname        string `json:"surname"`
	MiddleName     string `json:"middle_name"`
	OtherName      string `json:"other_name"`
	ContactAddress string `json:"contact_address"`
	StateOfOrigin  string `json:"state_of_origin"`
	LGA            string `json:"lga"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
	Telephone      string `json:"telephone"`
	Gender         string `json:"gender"`
	Weight         Number `json:"weight,omitempty"`
	Height         Number `json:"height,omitempty"`
	AcademicStatus string `json:"academic_status"`

	PreviousTeam     string     `json:"previous_team"`
	ReasonForLeaving string     `json:"reason_for_leaving"`
	SoccerPosition   string     `json:"soccer_position"`
	PlayerHopes      string     `json:"player_hopes"`
	Weaknesses       Weaknesses `json:"weaknesses"`

	LastTreatedSickness   string `json:"last_treated_sickness"`
	BloodGroup            string `json:"blood_group"`
	Genotype              string `json:"genotype"`
	AnyMedicalProblem     bool   `json:"any_medical_problem"`
	MedicalProblemDetails string `json:"medical_problem_details"`
	CurrentlyOnMedication bool   `json:"currently_on_medication"`

	AdmissionStatus AdmissionStatus `json:"admission_status"`
	Notes           string          `json:"notes"`

	CreatedAt string `json:"created_at,omitempty"`
}

// NewPlayer returns the empty registration form.
func NewPlayer() Player {
	return Player{
		Nationality:     "Nigerian",
		Weaknesses:      Weaknesses{},
		AdmissionStatus: AdmissionPending,
	}
}

// DisplayName is "surname other_name".
func (p Player) DisplayName() string {
	return strings.TrimSpace(p.Surname + " " + p.OtherName)
}

// Validate checks the required registration fields.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Surname) == "" || strings.TrimSpace(p.ParentGuardianName) == "" {
		return &ValidationError{Message: "Please fill in required fields", Fields: missing(map[string]string{
			"surname":              p.Surname,
			"parent_guardian_name": p.ParentGuardianName,
		})}
	}
	return nil
}

// StatusPatch is the body of a status-only update.
type StatusPatch struct {
	AdmissionStatus AdmissionStatus `json:"admission_status"`
}

// PlayerFilters narrows the player list. Empty fields are omitted.
type PlayerFilters struct {
	Search   string          `json:"search,omitempty"`
	Position string          `json:"position,omitempty"`
	Status   AdmissionStatus `json:"status,omitempty"`
}
