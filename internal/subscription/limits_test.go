package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	assert.Equal(t, 3, Limit(PlanFree, ResourceShows))
	assert.Equal(t, 500, Limit(PlanStandard, ResourceProps))
	assert.Equal(t, 1000, Limit(PlanPro, ResourcePackingBoxes))
}

func TestLimit_UnknownPlanFallsBackToFree(t *testing.T) {
	assert.Equal(t, Limit(PlanFree, ResourceShows), Limit("enterprise", ResourceShows))
	assert.Equal(t, Limit(PlanFree, ResourceArchivedShows), Limit("", ResourceArchivedShows))
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(PlanFree, ResourceShows, 2))
	assert.False(t, CanCreate(PlanFree, ResourceShows, 3))
	assert.False(t, CanCreate(PlanFree, ResourceShows, 4))

	assert.True(t, CanCreate(PlanStandard, ResourceCollaborators, 9))
	assert.False(t, CanCreate(PlanStandard, ResourceCollaborators, 10))
}

func TestArchivedShowsLimit(t *testing.T) {
	assert.Equal(t, 1, ArchivedShowsLimit(PlanFree))
	assert.Equal(t, 5, ArchivedShowsLimit(PlanStandard))
	assert.Equal(t, 25, ArchivedShowsLimit(PlanPro))
}
