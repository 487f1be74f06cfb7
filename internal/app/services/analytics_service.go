package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// AnalyticsService computes the dashboard aggregate. The projection is
// recomputed on demand over the full request snapshot rather than kept
// as materialized counters, so it can never drift from the store.
type AnalyticsService interface {
	Snapshot(ctx context.Context, actor models.Actor) (*dto.AnalyticsResponse, error)
}

type analyticsServiceImpl struct {
	requestRepo  repositories.IRequestRepository
	userRepo     repositories.IUserRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	requestRepo repositories.IRequestRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsServiceImpl{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// Snapshot recomputes the aggregate over all requests. Staff and admins
// only.
func (s *analyticsServiceImpl) Snapshot(ctx context.Context, actor models.Actor) (*dto.AnalyticsResponse, error) {
	if actor.IsStudent() {
		return nil, apperrors.NewForbiddenError("analytics are restricted to staff and admins")
	}

	requests, err := s.requestRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &dto.AnalyticsResponse{
		ByEnrollmentStatus: map[string]int64{},
		ByCollectionMethod: map[string]int64{},
		ByInstitutionType:  map[string]int64{},
	}
	workloads := map[int64]int64{}
	monthly := map[string]int64{}

	for _, r := range requests {
		counts := &resp.Transcripts
		if r.RequestType == models.RequestTypeRecommendation {
			counts = &resp.Recommendations
		}
		tally(counts, r.Status)

		if r.Overdue(now) {
			resp.OverdueCount++
		}
		if r.EnrollmentStatus != "" {
			resp.ByEnrollmentStatus[r.EnrollmentStatus]++
		}
		resp.ByCollectionMethod[r.CollectionMethod.Label()]++
		resp.ByInstitutionType[classifyInstitution(r.InstitutionName)]++

		if r.AssignedStaffID != nil && !r.Status.IsTerminal() {
			workloads[*r.AssignedStaffID]++
		}
		monthly[helpers.MonthKey(r.CreatedAt)]++
	}

	resp.StaffWorkloads, err = s.resolveWorkloads(ctx, workloads)
	if err != nil {
		return nil, err
	}
	resp.MonthlyVolume = trailingMonths(monthly, now, 6)

	if len(resp.ByEnrollmentStatus) == 0 {
		resp.ByEnrollmentStatus = nil
	}
	if len(resp.ByCollectionMethod) == 0 {
		resp.ByCollectionMethod = nil
	}
	if len(resp.ByInstitutionType) == 0 {
		resp.ByInstitutionType = nil
	}
	return resp, nil
}

func tally(counts *dto.StatusCounts, status models.RequestStatus) {
	counts.Total++
	switch status {
	case models.StatusPending:
		counts.Pending++
	case models.StatusInProgress:
		counts.InProgress++
	case models.StatusProcessing:
		counts.Processing++
	case models.StatusReady:
		counts.Ready++
	case models.StatusCompleted:
		counts.Completed++
	case models.StatusRejected:
		counts.Rejected++
	}
}

// classifyInstitution buckets the free-text destination institution by
// name keywords. Unmatched names land in Other.
func classifyInstitution(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "universit"):
		return "University"
	case strings.Contains(lower, "college") || strings.Contains(lower, "institute") || strings.Contains(lower, "school"):
		return "College/Institute"
	case strings.Contains(lower, "ministry") || strings.Contains(lower, "government") || strings.Contains(lower, "embassy"):
		return "Government"
	case strings.Contains(lower, "inc") || strings.Contains(lower, "ltd") || strings.Contains(lower, "gmbh") || strings.Contains(lower, "corp"):
		return "Employer"
	default:
		return "Other"
	}
}

func (s *analyticsServiceImpl) resolveWorkloads(ctx context.Context, workloads map[int64]int64) ([]dto.StaffWorkload, error) {
	if len(workloads) == 0 {
		return nil, nil
	}

	result := make([]dto.StaffWorkload, 0, len(workloads))
	for staffID, count := range workloads {
		name := "Unknown"
		if staff, err := s.userRepo.GetByID(ctx, staffID); err == nil {
			name = staff.FullName()
		} else {
			s.logger.Warn().Err(err).Int64("staffID", staffID).Msg("Failed to resolve staff name for workload")
		}
		result = append(result, dto.StaffWorkload{StaffID: staffID, StaffName: name, OpenCount: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OpenCount != result[j].OpenCount {
			return result[i].OpenCount > result[j].OpenCount
		}
		return result[i].StaffID < result[j].StaffID
	})
	return result, nil
}

// trailingMonths materializes the last n calendar months oldest first,
// including zero-valued buckets so chart axes stay contiguous.
func trailingMonths(monthly map[string]int64, now time.Time, n int) []dto.MonthlyCount {
	// Step from the first of the current month: AddDate normalizes
	// non-existent dates (Sep 31 becomes Oct 1), which would skip and
	// duplicate buckets when now falls on the 29th-31st.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	result := make([]dto.MonthlyCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0)
		key := helpers.MonthKey(month)
		result = append(result, dto.MonthlyCount{Month: key, Count: monthly[key]})
	}
	return result
}
