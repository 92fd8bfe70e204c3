package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusOpen))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus("Open"))
}

func TestProject_HasMember(t *testing.T) {
	member := primitive.NewObjectID()
	p := &Project{Members: []primitive.ObjectID{primitive.NewObjectID(), member}}

	assert.True(t, p.HasMember(member))
	assert.False(t, p.HasMember(primitive.NewObjectID()))
	assert.False(t, (&Project{}).HasMember(member))
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := CreateRequest{Title: "API gateway", Description: "A gateway for campus services"}
	assert.Empty(t, valid.Validate())

	invalid := CreateRequest{Title: "ab", Description: "short"}
	errs := invalid.Validate()
	assert.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "description", errs[1].Field)
}

func TestUpdateRequest_Validate(t *testing.T) {
	empty := UpdateRequest{}
	assert.Empty(t, empty.Validate(), "partial update with no fields is valid")

	status := UpdateRequest{Status: StatusCompleted}
	assert.Empty(t, status.Validate())

	badStatus := UpdateRequest{Status: "archived"}
	errs := badStatus.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
	assert.Equal(t, "Status must be open, in-progress, or completed", errs[0].Message)

	shortTitle := UpdateRequest{Title: "ab"}
	errs = shortTitle.Validate()
	assert.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}
