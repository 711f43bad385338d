package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/registry"
)

func TestSpecializationFor(t *testing.T) {
	cases := []struct {
		category complaint.Category
		want     registry.Specialization
		ok       bool
	}{
		{complaint.CategoryWageTheft, registry.SpecializationLaborLaw, true},
		{complaint.CategoryWrongfulTermination, registry.SpecializationLaborLaw, true},
		{complaint.CategoryHarassment, registry.SpecializationHarassmentLaw, true},
		{complaint.CategoryDiscrimination, registry.SpecializationDiscriminationLaw, true},
		{complaint.CategoryUnsafeConditions, "", false},
		{complaint.CategoryUnpaidOvertime, "", false},
		{complaint.CategoryOther, "", false},
	}
	for _, tc := range cases {
		got, ok := SpecializationFor(tc.category)
		assert.Equal(t, tc.ok, ok, "category %s", tc.category)
		assert.Equal(t, tc.want, got, "category %s", tc.category)
	}
}

func TestNextConsultationSlot(t *testing.T) {
	at := func(year int, month time.Month, day, hour int) time.Time {
		return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		// 2024-03-11 is a Monday.
		{"monday to tuesday", at(2024, 3, 11, 14), at(2024, 3, 12, 9)},
		{"thursday to friday", at(2024, 3, 14, 8), at(2024, 3, 15, 9)},
		// Tomorrow is Saturday: shift to Monday.
		{"friday to monday", at(2024, 3, 15, 16), at(2024, 3, 18, 9)},
		// Tomorrow is Sunday: shift to Monday.
		{"saturday to monday", at(2024, 3, 16, 10), at(2024, 3, 18, 9)},
		{"sunday to monday", at(2024, 3, 17, 23), at(2024, 3, 18, 9)},
		{"late evening still next day", at(2024, 3, 11, 23), at(2024, 3, 12, 9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextConsultationSlot(tc.now)
			assert.Equal(t, tc.want, got)
			assert.NotEqual(t, time.Saturday, got.Weekday())
			assert.NotEqual(t, time.Sunday, got.Weekday())
		})
	}
}

func TestNextConsultationSlot_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*3600+1800)
	got := NextConsultationSlot(time.Date(2024, 3, 11, 12, 0, 0, 0, loc))
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, loc, got.Location())
}
