package subgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"prodiny/internal/auth"
)

func TestSubgroup_HasMember(t *testing.T) {
	member := primitive.NewObjectID()
	s := &Subgroup{Members: []primitive.ObjectID{member}}

	assert.True(t, s.HasMember(member))
	assert.False(t, s.HasMember(primitive.NewObjectID()))
	assert.False(t, (&Subgroup{}).HasMember(member))
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := CreateRequest{Name: "Robotics", Description: "Campus robotics enthusiasts"}
	assert.Empty(t, valid.Validate())

	invalid := CreateRequest{Name: "R", Description: "short"}
	errs := invalid.Validate()
	assert.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "description", errs[1].Field)
}

func TestCreatePostRequest_Validate(t *testing.T) {
	valid := CreatePostRequest{Title: "Meetup", Content: "Friday at the lab"}
	assert.Empty(t, valid.Validate())

	invalid := CreatePostRequest{Title: "ab", Content: "hey"}
	errs := invalid.Validate()
	assert.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "content", errs[1].Field)
}

func TestAllowPin(t *testing.T) {
	assert.True(t, allowPin(auth.RoleFaculty, true))
	assert.True(t, allowPin(auth.RoleAdmin, true))
	assert.False(t, allowPin(auth.RoleStudent, true), "students cannot pin")
	assert.False(t, allowPin(auth.RoleFaculty, false))
	assert.False(t, allowPin(auth.RoleAdmin, false))
}
