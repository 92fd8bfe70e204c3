package college

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedDomain(t *testing.T) {
	assert.Equal(t, "mit.edu", NormalizedDomain("MIT.EDU"))
	assert.Equal(t, "mit.edu", NormalizedDomain("  mit.edu  "))
	assert.Equal(t, "", NormalizedDomain("   "))
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := CreateRequest{Name: "MIT", Description: "Massachusetts Institute of Technology", Domain: "mit.edu"}
	assert.Empty(t, valid.Validate())

	invalid := CreateRequest{Name: "M", Description: "short", Domain: "ab"}
	errs := invalid.Validate()
	assert.Len(t, errs, 3)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "description", errs[1].Field)
	assert.Equal(t, "domain", errs[2].Field)
}

func TestUpdateRequest_Validate(t *testing.T) {
	empty := UpdateRequest{}
	assert.Empty(t, empty.Validate(), "partial update with no fields is valid")

	nameOnly := UpdateRequest{Name: "Stanford"}
	assert.Empty(t, nameOnly.Validate())

	badDomain := UpdateRequest{Domain: "ab"}
	errs := badDomain.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "domain", errs[0].Field)
}
