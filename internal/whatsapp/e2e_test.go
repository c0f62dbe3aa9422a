package whatsapp_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohcnetwork/care-whatsapp/internal/care"
	"github.com/ohcnetwork/care-whatsapp/internal/handlers"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/delivery"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/dispatch"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/templates"
	"github.com/ohcnetwork/care-whatsapp/internal/whatsapp"
)

const e2eSecret = "e2e-app-secret"

// graphRecorder fakes the Graph API /messages endpoint and records every
// payload it receives.
type graphRecorder struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func newGraphRecorder() *graphRecorder {
	return &graphRecorder{}
}

func (g *graphRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		g.mu.Lock()
		g.payloads = append(g.payloads, payload)
		g.mu.Unlock()
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.reply"}]}`))
	}
}

func (g *graphRecorder) recorded() []map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string]any(nil), g.payloads...)
}

func signedEvent(t *testing.T, from, body string) *http.Request {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{"id": "1", "changes": [{"field": "messages", "value": {
			"messaging_product": "whatsapp",
			"messages": [{"from": %q, "id": "wamid.e2e-%d", "timestamp": "1724800000", "type": "text", "text": {"body": %q}}]
		}}]}]
	}`, from, time.Now().UnixNano(), body))

	mac := hmac.New(sha256.New, []byte(e2eSecret))
	mac.Write(payload)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", bytes.NewReader(payload))
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestFullPipeline_MedicationsCommand(t *testing.T) {
	graph := newGraphRecorder()
	srv := httptest.NewServer(graph.handler())
	t.Cleanup(srv.Close)

	client, err := whatsapp.NewClient(whatsapp.ClientConfig{
		AccessToken:   "token",
		PhoneNumberID: "111222333",
		BaseURL:       srv.URL,
	})
	require.NoError(t, err)

	registry, err := templates.NewCareRegistry("en")
	require.NoError(t, err)

	store := care.NewMemoryStore()
	store.AddPatient(care.Patient{ID: "PAT-9", Name: "Asha Kumar", Phone: "+919876543210", Age: "34"})
	store.SetMedications("PAT-9", []care.Medication{{Name: "Paracetamol", Dosage: "500mg"}})

	policy := delivery.NewPolicy(client, registry, nil).WithBaseDelay(time.Millisecond)
	dispatcher := dispatch.New(policy, dispatch.NewMemoryDedupe(0, 0), nil, nil)
	handlers.RegisterAll(dispatcher, handlers.Deps{Directory: store, Records: store}, handlers.FallbackHelp)

	h := whatsapp.NewWebhookHandler("verify-me", e2eSecret, dispatcher, client, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleEvents(rec, signedEvent(t, "919876543210", "medications"))
	assert.Equal(t, http.StatusOK, rec.Code)

	payloads := graph.recorded()
	// One mark-read for the inbound message, one template send.
	require.Len(t, payloads, 2)
	assert.Equal(t, "read", payloads[0]["status"])

	send := payloads[1]
	assert.Equal(t, "template", send["type"])
	tpl, ok := send["template"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "care_medications", tpl["name"])
}

func TestFullPipeline_UnregisteredSenderGetsOnboarding(t *testing.T) {
	graph := newGraphRecorder()
	srv := httptest.NewServer(graph.handler())
	t.Cleanup(srv.Close)

	client, err := whatsapp.NewClient(whatsapp.ClientConfig{
		AccessToken:   "token",
		PhoneNumberID: "111222333",
		BaseURL:       srv.URL,
	})
	require.NoError(t, err)

	registry, err := templates.NewCareRegistry("en")
	require.NoError(t, err)

	policy := delivery.NewPolicy(client, registry, nil).WithBaseDelay(time.Millisecond)
	dispatcher := dispatch.New(policy, nil, nil, nil)
	store := care.NewMemoryStore()
	handlers.RegisterAll(dispatcher, handlers.Deps{Directory: store, Records: store}, handlers.FallbackHelp)

	h := whatsapp.NewWebhookHandler("verify-me", e2eSecret, dispatcher, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleEvents(rec, signedEvent(t, "919000000000", "medications"))
	assert.Equal(t, http.StatusOK, rec.Code)

	payloads := graph.recorded()
	require.Len(t, payloads, 1)
	assert.Equal(t, "text", payloads[0]["type"])
	text, ok := payloads[0]["text"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, text["body"], "register")
}
