package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhollow/staff-rota/pkg/core/model"
)

func TestListStaff(t *testing.T) {
	env := newTestEnv(t)
	env.db.staff = []model.StaffMember{
		testMember("st-alice", "Alice", "Hart", model.RoleCareStaff, model.RoleShiftLeader),
		testMember("st-bob", "Bob", "Reid", model.RoleDriver),
	}

	rec := env.request(t, http.MethodGet, "/api/staff", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	staff := decode(t, rec)["staff"].([]any)
	require.Len(t, staff, 2)

	alice := staff[0].(map[string]any)
	assert.Equal(t, "Alice Hart", alice["name"])
	assert.Equal(t, "compliant", alice["compliance_band"])
	assert.Len(t, alice["roles"], 2)
}

func TestListStaff_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.db.staffErr = assert.AnError

	rec := env.request(t, http.MethodGet, "/api/staff", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
