package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicease/complaint-service/internal/repository"
)

// TestDefaultDepartments pins the fixed seed list: thirteen entries,
// no duplicates, stable names.  The unique name key in the schema is
// what keeps re-seeding idempotent, so the names must never drift.
func TestDefaultDepartments(t *testing.T) {
	assert.Len(t, repository.DefaultDepartments, 13)

	seen := map[string]bool{}
	for _, name := range repository.DefaultDepartments {
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate seed department %q", name)
		seen[name] = true
	}

	assert.Contains(t, repository.DefaultDepartments, "Waste Management Department")
	assert.Contains(t, repository.DefaultDepartments, "Public Grievance and Feedback Cell")
}

// TestDefaultCareEmail checks the derived helpline address format.
func TestDefaultCareEmail(t *testing.T) {
	assert.Equal(t, "wastemanagementdepartment@civicease.gov",
		repository.DefaultCareEmail("Waste Management Department"))
	assert.Equal(t, "publicworksdepartment(pwd)@civicease.gov",
		repository.DefaultCareEmail("Public Works Department (PWD)"))
}
