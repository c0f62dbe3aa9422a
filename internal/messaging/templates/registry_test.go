package templates

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewCareRegistry("en")
	require.NoError(t, err)
	return r
}

func textParams(values ...string) []messaging.ParamBinding {
	params := make([]messaging.ParamBinding, 0, len(values))
	for _, v := range values {
		params = append(params, messaging.ParamBinding{Type: messaging.ParamText, Value: v})
	}
	return params
}

func TestRenderRoundTrip(t *testing.T) {
	r := testRegistry(t)

	payload, err := r.Render(TemplateAppointmentReminder, textParams("Asha", "District Hospital", "10 Mar, 9:30 AM"))
	require.NoError(t, err)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var parsed struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []struct {
			Type       string `json:"type"`
			Parameters []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"parameters"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	require.Equal(t, TemplateAppointmentReminder, parsed.Name)
	require.Equal(t, "en", parsed.Language.Code)
	require.Len(t, parsed.Components, 1)
	require.Equal(t, "body", parsed.Components[0].Type)
	require.Len(t, parsed.Components[0].Parameters, 3)
	require.Equal(t, "Asha", parsed.Components[0].Parameters[0].Text)
	require.Equal(t, "District Hospital", parsed.Components[0].Parameters[1].Text)
	require.Equal(t, "10 Mar, 9:30 AM", parsed.Components[0].Parameters[2].Text)
}

func TestRenderDeterministic(t *testing.T) {
	r := testRegistry(t)
	params := textParams("one")

	a, err := r.Render(TemplateMedications, params)
	require.NoError(t, err)
	b, err := r.Render(TemplateMedications, params)
	require.NoError(t, err)

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	require.Equal(t, string(aj), string(bj))
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Render("no_such_template", nil)
	require.True(t, errors.Is(err, messaging.ErrUnknownTemplate))
}

func TestRenderArityMismatch(t *testing.T) {
	r := testRegistry(t)

	// 3-slot reminder given 2 params.
	_, err := r.Render(TemplateAppointmentReminder, textParams("Asha", "District Hospital"))
	require.True(t, errors.Is(err, messaging.ErrParameterMismatch))

	// And given 4.
	_, err = r.Render(TemplateAppointmentReminder, textParams("a", "b", "c", "d"))
	require.True(t, errors.Is(err, messaging.ErrParameterMismatch))
}

func TestRenderTypeMismatch(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Render(TemplateMedications, []messaging.ParamBinding{
		{Type: messaging.ParamCurrency, Value: "100 INR"},
	})
	require.True(t, errors.Is(err, messaging.ErrParameterMismatch))
}

func TestRenderButtonComponent(t *testing.T) {
	r := testRegistry(t)
	payload, err := r.Render(TemplateOTP, textParams("123456", "123456"))
	require.NoError(t, err)

	require.Len(t, payload.Components, 2)
	require.Equal(t, "body", payload.Components[0].Type)
	require.Equal(t, "button", payload.Components[1].Type)
	require.Equal(t, "url", payload.Components[1].SubType)
	require.NotNil(t, payload.Components[1].Index)
	require.Equal(t, 0, *payload.Components[1].Index)
}

func TestZeroSlotTemplate(t *testing.T) {
	r := testRegistry(t)
	payload, err := r.Render(TemplateHelpPatient, nil)
	require.NoError(t, err)
	require.Empty(t, payload.Components)

	_, err = r.Render(TemplateHelpPatient, textParams("extra"))
	require.True(t, errors.Is(err, messaging.ErrParameterMismatch))
}

func TestDuplicateDefinitionRejected(t *testing.T) {
	_, err := NewRegistry("en",
		Definition{Name: "dup"},
		Definition{Name: "dup"},
	)
	require.Error(t, err)
}
