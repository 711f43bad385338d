package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/pkg/errors"
)

var now = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

func TestNewOfficer(t *testing.T) {
	o, err := NewOfficer("user-9", "  Nadia Perera ", " Nadia.Perera@Example.COM ",
		[]Specialization{SpecializationLaborLaw, SpecializationLaborLaw, SpecializationHarassmentLaw}, now)
	require.NoError(t, err)

	assert.Equal(t, "Nadia Perera", o.Name)
	assert.Equal(t, "nadia.perera@example.com", o.Email)
	assert.Equal(t, []Specialization{SpecializationLaborLaw, SpecializationHarassmentLaw}, o.Specializations)
	assert.True(t, o.IsActive)
	assert.Zero(t, o.TotalAssigned)
	assert.Zero(t, o.ActiveAppointmentCount)
	assert.Nil(t, o.LastAssignedAt)
}

func TestNewOfficer_Validation(t *testing.T) {
	cases := []struct {
		name      string
		officerID string
		oname     string
		email     string
		specs     []Specialization
	}{
		{"empty officer id", "", "n", "a@b.c", []Specialization{SpecializationLaborLaw}},
		{"empty name", "id", "", "a@b.c", []Specialization{SpecializationLaborLaw}},
		{"bad email", "id", "n", "not-an-email", []Specialization{SpecializationLaborLaw}},
		{"no specializations", "id", "n", "a@b.c", nil},
		{"unknown specialization", "id", "n", "a@b.c", []Specialization{"maritime_law"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOfficer(tc.officerID, tc.oname, tc.email, tc.specs, now)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
		})
	}
}

func TestOfficer_HasSpecialization(t *testing.T) {
	o := &Officer{Specializations: []Specialization{SpecializationHarassmentLaw}}
	assert.True(t, o.HasSpecialization(SpecializationHarassmentLaw))
	assert.False(t, o.HasSpecialization(SpecializationLaborLaw))
}
