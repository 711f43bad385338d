package appointment

import (
	"time"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/registry"
)

// categorySpecialization maps complaint categories to the legal
// specialization that handles them.  Categories absent from the map never
// trigger automatic booking.
var categorySpecialization = map[complaint.Category]registry.Specialization{
	complaint.CategoryWageTheft:           registry.SpecializationLaborLaw,
	complaint.CategoryWrongfulTermination: registry.SpecializationLaborLaw,
	complaint.CategoryHarassment:          registry.SpecializationHarassmentLaw,
	complaint.CategoryDiscrimination:      registry.SpecializationDiscriminationLaw,
}

// SpecializationFor returns the specialization handling a complaint category.
func SpecializationFor(c complaint.Category) (registry.Specialization, bool) {
	s, ok := categorySpecialization[c]
	return s, ok
}

// consultationHour is the local hour consultations start at.
const consultationHour = 9

// NextConsultationSlot returns the next business-day slot after now:
// tomorrow at 09:00, shifted to Monday when tomorrow falls on a weekend.
func NextConsultationSlot(now time.Time) time.Time {
	day := now.AddDate(0, 0, 1)
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, 2)
	case time.Sunday:
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), consultationHour, 0, 0, 0, now.Location())
}
