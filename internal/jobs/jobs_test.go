package jobs

import (
	"testing"

	"github.com/dentalab/milldash/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessions() []record.JobSession {
	return []record.JobSession{
		{SessionID: 3, StartDate: "2025-03-12", MaterialType: "Zirconia", MaterialColor: "A2", Status: record.StatusCompleted, DurationMinutes: 45},
		{SessionID: 1, StartDate: "2025-03-10", MaterialType: "PMMA", MaterialColor: "B1", Status: record.StatusIncomplete, DurationMinutes: 20},
		{SessionID: 2, StartDate: "2025-03-11", MaterialType: "Zirconia", MaterialColor: "A3", Status: record.StatusInProgress, DurationMinutes: 60},
		{SessionID: 4, StartDate: "2025-03-13", MaterialType: "Wax", MaterialColor: "", Status: record.StatusCompleted, DurationMinutes: 10},
	}
}

func TestApply_Defaults(t *testing.T) {
	page := Apply(testSessions(), Query{})

	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPerPage, page.PerPage)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 4)
	// Default sort is ascending session id.
	assert.Equal(t, 1, page.Items[0].SessionID)
	assert.Equal(t, 4, page.Items[3].SessionID)
}

func TestApply_Empty(t *testing.T) {
	page := Apply(nil, Query{})

	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestApply_StatusFilter(t *testing.T) {
	page := Apply(testSessions(), Query{Status: record.StatusCompleted})

	assert.Equal(t, 2, page.Total)
	for _, item := range page.Items {
		assert.Equal(t, record.StatusCompleted, item.Status)
	}
}

func TestApply_MaterialFilter(t *testing.T) {
	page := Apply(testSessions(), Query{Material: "Zirconia"})

	assert.Equal(t, 2, page.Total)
}

func TestApply_SearchMatchesAcrossFields(t *testing.T) {
	sessions := testSessions()

	byColor := Apply(sessions, Query{Search: "a3"})
	assert.Equal(t, 1, byColor.Total)
	assert.Equal(t, 2, byColor.Items[0].SessionID)

	byStatus := Apply(sessions, Query{Search: "incomplete"})
	assert.Equal(t, 1, byStatus.Total)

	byID := Apply(sessions, Query{Search: "4"})
	assert.Equal(t, 1, byID.Total)
	assert.Equal(t, 4, byID.Items[0].SessionID)

	none := Apply(sessions, Query{Search: "titanium"})
	assert.Zero(t, none.Total)
}

func TestApply_SortByDurationDesc(t *testing.T) {
	page := Apply(testSessions(), Query{SortBy: "duration", SortDesc: true})

	require.Len(t, page.Items, 4)
	assert.Equal(t, 60.0, page.Items[0].DurationMinutes)
	assert.Equal(t, 10.0, page.Items[3].DurationMinutes)
}

func TestApply_SortByDate(t *testing.T) {
	page := Apply(testSessions(), Query{SortBy: "date"})

	assert.Equal(t, "2025-03-10", page.Items[0].StartDate)
	assert.Equal(t, "2025-03-13", page.Items[3].StartDate)
}

func TestApply_Pagination(t *testing.T) {
	page1 := Apply(testSessions(), Query{PerPage: 3, Page: 1})
	page2 := Apply(testSessions(), Query{PerPage: 3, Page: 2})

	assert.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Items, 3)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, 4, page2.Items[0].SessionID)
}

func TestApply_PageClamped(t *testing.T) {
	past := Apply(testSessions(), Query{PerPage: 3, Page: 99})
	assert.Equal(t, 2, past.Page)
	require.Len(t, past.Items, 1)

	negative := Apply(testSessions(), Query{PerPage: 3, Page: -1})
	assert.Equal(t, 1, negative.Page)
}

func TestApply_PerPageClamped(t *testing.T) {
	page := Apply(testSessions(), Query{PerPage: 10_000})
	assert.Equal(t, maxPerPage, page.PerPage)
}

func TestApply_InputNotMutated(t *testing.T) {
	sessions := testSessions()

	Apply(sessions, Query{SortBy: "duration", SortDesc: true})

	assert.Equal(t, 3, sessions[0].SessionID)
	assert.Equal(t, 1, sessions[1].SessionID)
}
