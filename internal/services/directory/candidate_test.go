package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/staffapi/internal/model"
)

func validationFields(t *testing.T, body string) map[string]string {
	t.Helper()
	c, err := ParseCandidate([]byte(body))
	require.NoError(t, err)
	_, err = c.Employee()
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestParseCandidateRejectsNonObject(t *testing.T) {
	for _, body := range []string{`[]`, `"alice"`, `42`, `null`, `{bad json`, ``} {
		_, err := ParseCandidate([]byte(body))
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr, "body %q", body)
	}
}

func TestCandidateValid(t *testing.T) {
	c, err := ParseCandidate([]byte(aliceJSON))
	require.NoError(t, err)
	assert.NoError(t, c.Validate())
}

func TestCandidateDropsUnknownKeys(t *testing.T) {
	body := `{"name":"Eve","age":3,"phone":{"personal":"1","work":"2","ext":"3","fax":"4"},
		"privileges":"admin","favorites":{"artist":"a","food":"b"},"finished":[],
		"badges":[],"points":[{"points":1,"bonus":2}],"salary":100000}`
	c, err := ParseCandidate([]byte(body))
	require.NoError(t, err)

	e, err := c.Employee()
	require.NoError(t, err)
	assert.Equal(t, "Eve", e.Name)
	assert.Equal(t, model.PrivilegeAdmin, e.Privileges)
}

func TestCandidateAllowsEmptyName(t *testing.T) {
	body := `{"name":"","age":0,"phone":{"personal":"","work":"","ext":""},
		"privileges":"user","favorites":{"artist":"","food":""},"finished":[0],
		"badges":[],"points":[{"points":0,"bonus":0}]}`
	c, err := ParseCandidate([]byte(body))
	require.NoError(t, err)

	e, err := c.Employee()
	require.NoError(t, err)
	assert.Equal(t, "", e.Name)
	assert.Equal(t, []int{0}, e.Finished)
	assert.NotNil(t, e.Badges)
}

func TestCandidateMissingFields(t *testing.T) {
	fields := validationFields(t, `{}`)
	for _, key := range []string{"name", "age", "phone", "privileges", "favorites", "finished", "badges", "points"} {
		assert.Equal(t, "is required", fields[key], key)
	}
}

func TestCandidateNullIsMissing(t *testing.T) {
	fields := validationFields(t, `{"name":null}`)
	assert.Equal(t, "is required", fields["name"])
}

func TestCandidateFieldRules(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		field string
	}{
		{"negative age", `"age":-1`, "age"},
		{"fractional age", `"age":29.5`, "age"},
		{"age as string", `"age":"29"`, "age"},
		{"unknown privilege", `"privileges":"root"`, "privileges"},
		{"empty privilege", `"privileges":""`, "privileges"},
		{"privilege wrong case", `"privileges":"Admin"`, "privileges"},
		{"empty points", `"points":[]`, "points"},
		{"points not array", `"points":{"points":1,"bonus":1}`, "points"},
		{"point missing bonus", `"points":[{"points":1}]`, "points.0.bonus"},
		{"negative finished", `"finished":[1,-2]`, "finished.1"},
		{"fractional finished", `"finished":[1.5]`, "finished.0"},
		{"badges not strings", `"badges":[1]`, "badges"},
		{"phone missing ext", `"phone":{"personal":"1","work":"2"}`, "phone.ext"},
		{"phone field wrong type", `"phone":{"personal":1,"work":"2","ext":"3"}`, "phone.personal"},
		{"phone not object", `"phone":"555"`, "phone"},
		{"favorites missing food", `"favorites":{"artist":"x"}`, "favorites.food"},
		{"name wrong type", `"name":42`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := withField(aliceJSON, tt.patch)
			fields := validationFields(t, body)
			assert.Contains(t, fields, tt.field, "got %v", fields)
		})
	}
}

func TestCandidateRejectsNullArrayElements(t *testing.T) {
	fields := validationFields(t, withField(aliceJSON, `"finished":[1,null]`))
	assert.Equal(t, "is required", fields["finished.1"])

	fields = validationFields(t, withField(aliceJSON, `"badges":[null]`))
	assert.Equal(t, "is required", fields["badges.0"])

	fields = validationFields(t, withField(aliceJSON, `"points":[null]`))
	assert.Contains(t, fields, "points.0.points")
}

func TestCandidateKeepsArrayValues(t *testing.T) {
	c, err := ParseCandidate([]byte(withField(aliceJSON, `"finished":[3,0],"badges":["blue",""]`)))
	require.NoError(t, err)

	e, err := c.Employee()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0}, e.Finished)
	assert.Equal(t, []string{"blue", ""}, e.Badges)
}

func TestCandidateTypeErrorMessage(t *testing.T) {
	fields := validationFields(t, withField(aliceJSON, `"age":"old"`))
	assert.Equal(t, "must be a number", fields["age"])

	fields = validationFields(t, withField(aliceJSON, `"phone":[]`))
	assert.Equal(t, "must be an object", fields["phone"])
}

func TestCandidateAcceptsExponentInteger(t *testing.T) {
	c, err := ParseCandidate([]byte(withField(aliceJSON, `"age":3e1`)))
	require.NoError(t, err)

	e, err := c.Employee()
	require.NoError(t, err)
	assert.Equal(t, 30, e.Age)
}

// withField overrides one top-level key of an object literal. Later keys
// win in encoding/json, so appending is enough.
func withField(body, field string) string {
	return body[:len(body)-1] + "," + field + "}"
}
