package model

// Plan is a subscription tier. Tiers determine the monthly project and
// request ceilings enforced by the usage middleware.
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// PlanFromString canonicalizes stored plan identifiers. Historical rows may
// still carry "free"; it reads as basic and is never written back.
func PlanFromString(s string) Plan {
	switch s {
	case "pro":
		return PlanPro
	case "enterprise":
		return PlanEnterprise
	case "basic", "free", "":
		return PlanBasic
	default:
		return PlanBasic
	}
}

// PlanLimits holds the usage ceilings of a plan. Zero means unlimited.
type PlanLimits struct {
	Projects         int
	RequestsPerMonth int
}

// planLimits is the authoritative limit table.
var planLimits = map[Plan]PlanLimits{
	PlanBasic:      {Projects: 2, RequestsPerMonth: 1000},
	PlanPro:        {Projects: 10, RequestsPerMonth: 10000},
	PlanEnterprise: {Projects: 0, RequestsPerMonth: 0},
}

// Limits returns the usage ceilings for the plan.
func (p Plan) Limits() PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanBasic]
}

// Unlimited reports whether the plan bypasses usage checks entirely.
func (p Plan) Unlimited() bool {
	return p == PlanEnterprise
}
