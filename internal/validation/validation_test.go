package validation

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-be/internal/apperror"
	"notes-be/internal/models"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterOn(v))
	return v
}

func TestIsNoteColor(t *testing.T) {
	assert.True(t, IsNoteColor("#ffffff"))
	assert.True(t, IsNoteColor("#A1b2C3"))
	assert.False(t, IsNoteColor("ffffff"))
	assert.False(t, IsNoteColor("#fff"))
	assert.False(t, IsNoteColor("#gggggg"))
	assert.False(t, IsNoteColor("#ffffff0"))
}

func TestCreateNoteRequest_Valid(t *testing.T) {
	v := newValidator(t)
	req := models.CreateNoteRequest{
		Title:   "Groceries",
		Content: "milk, eggs",
		Tags:    []string{"home", "errands"},
		Color:   "#ffeeaa",
	}
	assert.NoError(t, v.Struct(req))
}

func TestCreateNoteRequest_FieldErrors(t *testing.T) {
	v := newValidator(t)
	req := models.CreateNoteRequest{
		Title:   "   ",
		Content: "",
		Tags:    []string{"ok", strings.Repeat("x", 21)},
		Color:   "red",
	}

	fields := FieldErrors(v.Struct(req))

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "title cannot be empty", byField["title"])
	assert.Equal(t, "content is required", byField["content"])
	assert.Equal(t, "tags[1] cannot exceed 20 characters", byField["tags[1]"])
	assert.Equal(t, "Color must be a valid hex color", byField["color"])
}

func TestCreateNoteRequest_TooManyTags(t *testing.T) {
	v := newValidator(t)
	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "t"
	}
	fields := FieldErrors(v.Struct(models.CreateNoteRequest{Title: "a", Content: "b", Tags: tags}))

	require.Len(t, fields, 1)
	assert.Equal(t, apperror.FieldError{Field: "tags", Message: "tags cannot have more than 10 items"}, fields[0])
}

func TestRegisterRequest_Email(t *testing.T) {
	v := newValidator(t)
	fields := FieldErrors(v.Struct(models.RegisterRequest{Name: "T", Email: "nope", Password: "password123"}))

	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "Please enter a valid email", fields[0].Message)
}

func TestFieldErrors_MalformedBodies(t *testing.T) {
	assert.Equal(t, "Request body is required", FieldErrors(io.EOF)[0].Message)

	var syntaxErr *json.SyntaxError
	err := json.Unmarshal([]byte("{"), &struct{}{})
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, []apperror.FieldError{{Field: "body", Message: "Request body must be valid JSON"}}, FieldErrors(err))

	var req models.CreateNoteRequest
	err = json.Unmarshal([]byte(`{"title": 5}`), &req)
	fields := FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].Field)
}

func TestError(t *testing.T) {
	err := Error(io.EOF)
	assert.Equal(t, apperror.KindValidation, err.Kind)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Fields, 1)
}

func TestRegister_GinEngine(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}
