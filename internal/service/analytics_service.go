package service

import (
	"context"
	"fmt"
	"math"

	"taskmanager/internal/models"

	"github.com/google/uuid"
)

// AnalyticsService derives reports by scanning the caller's visible task
// set; nothing is materialized.
type AnalyticsService struct {
	tasks TaskRepository
}

func NewAnalyticsService(tasks TaskRepository) *AnalyticsService {
	return &AnalyticsService{tasks: tasks}
}

type OverviewReport struct {
	Total      int                     `json:"total"`
	ByStatus   map[models.Status]int   `json:"byStatus"`
	ByPriority map[models.Priority]int `json:"byPriority"`
}

func (s *AnalyticsService) Overview(ctx context.Context, callerID uuid.UUID) (*OverviewReport, error) {
	tasks, err := s.tasks.ListVisible(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}

	report := &OverviewReport{
		Total:      len(tasks),
		ByStatus:   map[models.Status]int{},
		ByPriority: map[models.Priority]int{},
	}
	for _, t := range tasks {
		report.ByStatus[t.Status]++
		report.ByPriority[t.Priority]++
	}
	return report, nil
}

type PerformanceReport struct {
	UserID        uuid.UUID `json:"userId"`
	TotalAssigned int       `json:"totalAssigned"`
	Completed     int       `json:"completed"`
	// nil when no completed task carries both timestamps
	AvgCompletionMs *int64 `json:"avgCompletionMs"`
}

// Performance reports on targetID's visible set; uuid.Nil targets the
// caller. Completed tasks missing either timestamp are excluded from the
// average, not counted as zero.
func (s *AnalyticsService) Performance(ctx context.Context, callerID, targetID uuid.UUID) (*PerformanceReport, error) {
	userID := targetID
	if userID == uuid.Nil {
		userID = callerID
	}

	tasks, err := s.tasks.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}

	report := &PerformanceReport{
		UserID:        userID,
		TotalAssigned: len(tasks),
	}

	var sum int64
	var eligible int64
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			continue
		}
		report.Completed++
		if t.CompletedAt == nil || t.CreatedAt.IsZero() {
			continue
		}
		sum += t.CompletedAt.Sub(t.CreatedAt).Milliseconds()
		eligible++
	}

	if eligible > 0 {
		avg := int64(math.Round(float64(sum) / float64(eligible)))
		report.AvgCompletionMs = &avg
	}
	return report, nil
}

type TrendBucket struct {
	Created   int `json:"created"`
	Completed int `json:"completed"`
}

// Trends buckets creations and completions by UTC calendar day. The
// result is sparse: days without activity are absent. Range bounds are
// inclusive and compared lexicographically on the "YYYY-MM-DD" form.
func (s *AnalyticsService) Trends(ctx context.Context, callerID uuid.UUID, from, to string) (map[string]*TrendBucket, error) {
	tasks, err := s.tasks.ListVisible(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}

	results := map[string]*TrendBucket{}
	add := func(day string, completed bool) {
		if day == "" {
			return
		}
		if from != "" && day < from {
			return
		}
		if to != "" && day > to {
			return
		}
		bucket, ok := results[day]
		if !ok {
			bucket = &TrendBucket{}
			results[day] = bucket
		}
		if completed {
			bucket.Completed++
		} else {
			bucket.Created++
		}
	}

	for _, t := range tasks {
		add(t.CreatedAt.UTC().Format("2006-01-02"), false)
		if t.CompletedAt != nil {
			add(t.CompletedAt.UTC().Format("2006-01-02"), true)
		}
	}
	return results, nil
}

// Export returns the caller's full visible list, unpaginated and without
// child expansion.
func (s *AnalyticsService) Export(ctx context.Context, callerID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.tasks.ListVisible(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}
	return tasks, nil
}
