package dashboard

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"rekindle/internal/intake"
	"rekindle/internal/logging"
)

const (
	contentCacheSize = 4
	contentCacheTTL  = 5 * time.Minute
	contentCacheKey  = "content"
)

// HousingView is the housing page shaped by one profile.
type HousingView struct {
	// NeedsHousing surfaces the temporary options first in the UI.
	NeedsHousing     bool      `json:"needs_housing"`
	TemporaryHousing []Shelter `json:"temporary_housing"`
	Rentals          []Rental  `json:"rentals"`
	// BudgetApplied is the rent ceiling used to filter Rentals, 0 when the
	// profile carries no budget.
	BudgetApplied int64 `json:"budget_applied"`
}

// SchoolsView is the schools page; only produced for households with
// children.
type SchoolsView struct {
	SchoolStatus    string            `json:"school_status,omitempty"`
	Schools         []School          `json:"schools"`
	EnrollmentSteps []EnrollmentStep  `json:"enrollment_steps"`
	Resources       []SupportResource `json:"resources"`
}

// EmploymentView is the employment page shaped by one profile.
type EmploymentView struct {
	// Priority marks profiles whose income changed; the job search and
	// income bridge sections lead the page.
	Priority       bool                 `json:"priority"`
	JobSearch      []EmploymentResource `json:"job_search"`
	Retraining     []EmploymentResource `json:"retraining"`
	Accommodations []EmploymentResource `json:"accommodations"`
}

// InsuranceView is the insurance page shaped by one profile.
type InsuranceView struct {
	Insured     bool     `json:"insured"`
	PolicyType  string   `json:"policy_type,omitempty"`
	ClaimStatus string   `json:"claim_status,omitempty"`
	NextSteps   []string `json:"next_steps"`
}

// ResourcesView is the recovery insights page; the school card only appears
// for households with children.
type ResourcesView struct {
	RecoveryTimeline  []ResourceInsight `json:"recovery_timeline"`
	ImpactAssessment  []ResourceInsight `json:"impact_assessment"`
	FinancialInsights []ResourceInsight `json:"financial_insights"`
	SchoolInsights    []ResourceInsight `json:"school_insights,omitempty"`
	Updates           []ResourceUpdate  `json:"updates"`
}

// CommunityView is the regional support feed.
type CommunityView struct {
	Regions []string        `json:"regions"`
	Posts   []CommunityPost `json:"posts"`
}

// Overview bundles every page for the landing dashboard.
type Overview struct {
	Housing    HousingView    `json:"housing"`
	Schools    *SchoolsView   `json:"schools,omitempty"`
	Employment EmploymentView `json:"employment"`
	Insurance  InsuranceView  `json:"insurance"`
	Resources  ResourcesView  `json:"resources"`
}

type contentEntry struct {
	content  Content
	storedAt time.Time
}

// Service shapes loaded content by household profile. Loads are deduplicated
// across concurrent requests and cached with a TTL.
type Service struct {
	loader Loader
	cache  *lru.Cache[string, contentEntry]
	group  singleflight.Group
	ttl    time.Duration
	logger logging.Logger
}

// NewService creates a dashboard service over the given loader; nil means
// the static loader.
func NewService(loader Loader) *Service {
	if loader == nil {
		loader = StaticLoader{}
	}
	cache, err := lru.New[string, contentEntry](contentCacheSize)
	if err != nil {
		// lru.New only errors on a non-positive size.
		panic(err)
	}
	return &Service{
		loader: loader,
		cache:  cache,
		ttl:    contentCacheTTL,
		logger: logging.NewComponentLogger("DashboardService"),
	}
}

func (s *Service) content(ctx context.Context) (Content, error) {
	if entry, ok := s.cache.Get(contentCacheKey); ok {
		if time.Since(entry.storedAt) < s.ttl {
			return entry.content, nil
		}
		s.cache.Remove(contentCacheKey)
	}

	result, err, _ := s.group.Do(contentCacheKey, func() (any, error) {
		content, err := s.loader.Load(ctx)
		if err != nil {
			return Content{}, err
		}
		s.cache.Add(contentCacheKey, contentEntry{content: content, storedAt: time.Now()})
		return content, nil
	})
	if err != nil {
		s.logger.Error("content load failed: %v", err)
		return Content{}, err
	}
	return result.(Content), nil
}

// Housing returns the housing page. Rentals are filtered to the profile's
// monthly budget when one is set; a budget that excludes everything still
// returns the temporary options.
func (s *Service) Housing(ctx context.Context, profile intake.Profile) (HousingView, error) {
	content, err := s.content(ctx)
	if err != nil {
		return HousingView{}, err
	}

	rentals := content.Rentals
	if profile.HousingBudget > 0 {
		filtered := make([]Rental, 0, len(rentals))
		for _, rental := range rentals {
			if rental.Rent <= profile.HousingBudget {
				filtered = append(filtered, rental)
			}
		}
		rentals = filtered
	}
	return HousingView{
		NeedsHousing:     profile.NeedsHousing,
		TemporaryHousing: content.TemporaryHousing,
		Rentals:          rentals,
		BudgetApplied:    profile.HousingBudget,
	}, nil
}

// Schools returns the schools page, or nil for households without children.
func (s *Service) Schools(ctx context.Context, profile intake.Profile) (*SchoolsView, error) {
	if !profile.HasChildren {
		return nil, nil
	}
	content, err := s.content(ctx)
	if err != nil {
		return nil, err
	}
	return &SchoolsView{
		SchoolStatus:    profile.SchoolStatus,
		Schools:         content.Schools,
		EnrollmentSteps: content.EnrollmentSteps,
		Resources:       content.SchoolResources,
	}, nil
}

// Employment returns the employment page.
func (s *Service) Employment(ctx context.Context, profile intake.Profile) (EmploymentView, error) {
	content, err := s.content(ctx)
	if err != nil {
		return EmploymentView{}, err
	}
	view := EmploymentView{
		Priority:       profile.NeedsEmployment,
		Retraining:     content.Retraining,
		Accommodations: content.Accommodations,
	}
	if profile.NeedsEmployment {
		view.JobSearch = content.JobSearch
	}
	return view, nil
}

// Insurance returns the insurance page with next steps keyed by the
// profile's claim status; uninsured households get the uninsured track.
func (s *Service) Insurance(ctx context.Context, profile intake.Profile) (InsuranceView, error) {
	content, err := s.content(ctx)
	if err != nil {
		return InsuranceView{}, err
	}

	view := InsuranceView{
		Insured:     profile.HasInsurance,
		PolicyType:  profile.InsuranceType,
		ClaimStatus: profile.InsuranceClaimStatus,
	}
	key := "uninsured"
	if profile.HasInsurance {
		key = profile.InsuranceClaimStatus
	}
	steps, ok := content.ClaimNextSteps[key]
	if !ok && profile.HasInsurance {
		// Insured but the claim status is unknown to the content set.
		steps = content.ClaimNextSteps["Don't know"]
	}
	view.NextSteps = steps
	return view, nil
}

// Resources returns the recovery insights page.
func (s *Service) Resources(ctx context.Context, profile intake.Profile) (ResourcesView, error) {
	content, err := s.content(ctx)
	if err != nil {
		return ResourcesView{}, err
	}
	view := ResourcesView{
		RecoveryTimeline:  content.RecoveryTimeline,
		ImpactAssessment:  content.ImpactAssessment,
		FinancialInsights: content.FinancialInsights,
		Updates:           content.Updates,
	}
	if profile.HasChildren {
		view.SchoolInsights = content.SchoolInsights
	}
	return view, nil
}

// Community returns the support feed. The feed is shared; nothing in it is
// conditioned on the caller's profile.
func (s *Service) Community(ctx context.Context) (CommunityView, error) {
	content, err := s.content(ctx)
	if err != nil {
		return CommunityView{}, err
	}
	return CommunityView{
		Regions: content.CommunityRegions,
		Posts:   content.CommunityPosts,
	}, nil
}

// BuildOverview assembles every page for one profile.
func (s *Service) BuildOverview(ctx context.Context, profile intake.Profile) (Overview, error) {
	housing, err := s.Housing(ctx, profile)
	if err != nil {
		return Overview{}, err
	}
	schools, err := s.Schools(ctx, profile)
	if err != nil {
		return Overview{}, err
	}
	employment, err := s.Employment(ctx, profile)
	if err != nil {
		return Overview{}, err
	}
	insurance, err := s.Insurance(ctx, profile)
	if err != nil {
		return Overview{}, err
	}
	resources, err := s.Resources(ctx, profile)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Housing:    housing,
		Schools:    schools,
		Employment: employment,
		Insurance:  insurance,
		Resources:  resources,
	}, nil
}
