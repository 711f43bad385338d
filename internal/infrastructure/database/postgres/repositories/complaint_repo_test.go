package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
)

func TestBuildComplaintWhere_Empty(t *testing.T) {
	where, args := buildComplaintWhere(complaint.ListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildComplaintWhere_Search(t *testing.T) {
	where, args := buildComplaintWhere(complaint.ListFilter{Search: "acme"})

	assert.Equal(t, " WHERE (title ILIKE $1 OR description ILIKE $1 OR organization_name ILIKE $1)", where)
	assert.Equal(t, []interface{}{"%acme%"}, args)
}

func TestBuildComplaintWhere_Combined(t *testing.T) {
	where, args := buildComplaintWhere(complaint.ListFilter{
		Status:     complaint.StatusPending,
		AssignedTo: "officer-1",
		Search:     "warehouse",
	})

	assert.Equal(t, " WHERE status = $1 AND assigned_to = $2 AND (title ILIKE $3 OR description ILIKE $3 OR organization_name ILIKE $3)", where)
	assert.Len(t, args, 3)
}
