package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Substitution(t *testing.T) {
	got := Render("Hello {{name}}", map[string]string{"name": "Sara"})
	assert.Equal(t, "Hello Sara", got)
}

func TestRender_MissingFieldRendersEmpty(t *testing.T) {
	// Silent-miss policy: no raw token may leak into recipient-facing text.
	got := Render("Hello {{name}}", map[string]string{})
	assert.Equal(t, "Hello ", got)

	got = Render("Hello {{name}}", nil)
	assert.Equal(t, "Hello ", got)
}

func TestRender_MultilineAndMultipleFields(t *testing.T) {
	body := "New lecture in {{course}}:\n{{title}}\n\nEnjoy!"
	got := Render(body, map[string]string{"course": "Algebra", "title": "Matrices"})
	assert.Equal(t, "New lecture in Algebra:\nMatrices\n\nEnjoy!", got)
}

func TestRender_Unicode(t *testing.T) {
	got := Render("تم نشر دورة جديدة: {{title}}", map[string]string{"title": "الجبر الخطي"})
	assert.Equal(t, "تم نشر دورة جديدة: الجبر الخطي", got)
}

func TestRender_WhitespaceInsideBraces(t *testing.T) {
	got := Render("Hi {{ name }}!", map[string]string{"name": "Omar"})
	assert.Equal(t, "Hi Omar!", got)
}

func TestRender_Idempotent(t *testing.T) {
	body := "Payment of {{amount}} confirmed"
	data := map[string]string{"amount": "250 EGP"}
	first := Render(body, data)
	second := Render(body, data)
	assert.Equal(t, first, second)
}

func TestRender_EmptyBody(t *testing.T) {
	assert.Equal(t, "", Render("", map[string]string{"x": "y"}))
}
