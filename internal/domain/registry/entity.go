// Package registry manages the legal-officer roster and the load-balanced
// assignment engine that picks an officer for a consultation.
package registry

import (
	"strings"
	"time"

	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// Specialization is a field of law an officer practices.
type Specialization string

const (
	SpecializationLaborLaw          Specialization = "labor_law"
	SpecializationHarassmentLaw     Specialization = "harassment_law"
	SpecializationDiscriminationLaw Specialization = "discrimination_law"
)

// Specializations lists every valid specialization.
func Specializations() []Specialization {
	return []Specialization{
		SpecializationLaborLaw,
		SpecializationHarassmentLaw,
		SpecializationDiscriminationLaw,
	}
}

// Valid reports whether s is a known specialization.
func (s Specialization) Valid() bool {
	switch s {
	case SpecializationLaborLaw, SpecializationHarassmentLaw, SpecializationDiscriminationLaw:
		return true
	}
	return false
}

// Officer is a registry entry for one legal officer.  The two counters are
// the assignment engine's load signal: ActiveAppointmentCount is current load
// and LastAssignedAt breaks ties so rotation stays fair.
type Officer struct {
	ID                     common.ID        `json:"id"`
	OfficerID              string           `json:"officer_id"`
	Name                   string           `json:"name"`
	Email                  string           `json:"email"`
	Specializations        []Specialization `json:"specializations"`
	IsActive               bool             `json:"is_active"`
	TotalAssigned          int64            `json:"total_assigned"`
	ActiveAppointmentCount int64            `json:"active_appointment_count"`
	LastAssignedAt         *time.Time       `json:"last_assigned_at,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// NewOfficer builds a validated active Officer with zeroed counters.
func NewOfficer(officerID, name, email string, specs []Specialization, now time.Time) (*Officer, error) {
	officerID = strings.TrimSpace(officerID)
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if officerID == "" {
		return nil, errors.Validation("officer_id must not be empty")
	}
	if name == "" {
		return nil, errors.Validation("name must not be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.Validation("a valid email is required")
	}
	if err := validateSpecializations(specs); err != nil {
		return nil, err
	}

	return &Officer{
		ID:              common.NewID(),
		OfficerID:       officerID,
		Name:            name,
		Email:           email,
		Specializations: dedupe(specs),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func validateSpecializations(specs []Specialization) error {
	if len(specs) == 0 {
		return errors.Validation("at least one specialization is required")
	}
	for _, s := range specs {
		if !s.Valid() {
			return errors.Validation("invalid specialization %q", s)
		}
	}
	return nil
}

func dedupe(specs []Specialization) []Specialization {
	seen := make(map[Specialization]struct{}, len(specs))
	out := make([]Specialization, 0, len(specs))
	for _, s := range specs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// HasSpecialization reports whether the officer practices s.
func (o *Officer) HasSpecialization(s Specialization) bool {
	for _, v := range o.Specializations {
		if v == s {
			return true
		}
	}
	return false
}
