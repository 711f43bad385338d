package complaint

import (
	"context"
	"time"

	"github.com/laborguard/complaint-service/pkg/types/common"
)

// ListFilter narrows and orders complaint listings.  Zero values mean
// "no constraint".
type ListFilter struct {
	Status     Status
	Category   Category
	Priority   Priority
	WorkerID   string
	AssignedTo string
	Search     string
	SortBy     string
	Order      common.SortOrder
	Pagination common.Pagination
}

// Stats aggregates complaint counts for the dashboard.
type Stats struct {
	Total        int64              `json:"total"`
	ByStatus     map[Status]int64   `json:"by_status"`
	ByCategory   map[Category]int64 `json:"by_category"`
	ByPriority   map[Priority]int64 `json:"by_priority"`
	RecentCount  int64              `json:"recent_count"`
	RecentWindow string             `json:"recent_window"`
}

// Repository is the persistence port for the complaint aggregate.
// Implementations must persist the status history and attachments together
// with the complaint row so that Update never loses audit entries.
type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id common.ID) (*Complaint, error)
	Update(ctx context.Context, c *Complaint) error
	Delete(ctx context.Context, id common.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Complaint, int64, error)
	Stats(ctx context.Context, recentSince time.Time) (*Stats, error)
}
