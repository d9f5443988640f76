// Package subscription holds the static per-plan resource ceilings. There is
// no state machine here: a create is allowed while the live count stays under
// the plan's ceiling.
package subscription

// Resource names checked against plan limits.
const (
	ResourceShows         = "shows"
	ResourceProps         = "props"
	ResourceBoards        = "boards"
	ResourcePackingBoxes  = "packingBoxes"
	ResourceCollaborators = "collaborators"
	ResourceArchivedShows = "archivedShows"
)

// Plan names.
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPro      = "pro"
)

var planLimits = map[string]map[string]int{
	PlanFree: {
		ResourceShows:         3,
		ResourceProps:         40,
		ResourceBoards:        3,
		ResourcePackingBoxes:  20,
		ResourceCollaborators: 2,
		ResourceArchivedShows: 1,
	},
	PlanStandard: {
		ResourceShows:         20,
		ResourceProps:         500,
		ResourceBoards:        20,
		ResourcePackingBoxes:  200,
		ResourceCollaborators: 10,
		ResourceArchivedShows: 5,
	},
	PlanPro: {
		ResourceShows:         100,
		ResourceProps:         5000,
		ResourceBoards:        100,
		ResourcePackingBoxes:  1000,
		ResourceCollaborators: 50,
		ResourceArchivedShows: 25,
	},
}

// Limit returns the ceiling for a resource on a plan. Unknown plans fall back
// to the free tier.
func Limit(plan, resource string) int {
	limits, ok := planLimits[plan]
	if !ok {
		limits = planLimits[PlanFree]
	}
	return limits[resource]
}

// CanCreate reports whether one more resource fits under the plan's ceiling
func CanCreate(plan, resource string, currentCount int64) bool {
	return currentCount < int64(Limit(plan, resource))
}

// ArchivedShowsLimit returns how many show archives a plan may hold
func ArchivedShowsLimit(plan string) int {
	return Limit(plan, ResourceArchivedShows)
}
