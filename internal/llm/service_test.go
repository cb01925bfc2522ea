package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefind/sitefind/internal/llm"
	"github.com/sitefind/sitefind/internal/ratelimit"
	"github.com/sitefind/sitefind/internal/resolve"
	"github.com/sitefind/sitefind/internal/testutil"
)

const testEndpoint = "https://llm.test/v1/chat/completions"

func newService(t *testing.T) *llm.Service {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return llm.NewService(client, ratelimit.New(1000, 1000), testEndpoint, "test-key", "test-model", true, testutil.NopLogger())
}

func respondWith(t *testing.T, content string) {
	t.Helper()
	body := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusOK, body))
}

func TestResolve_Hostname(t *testing.T) {
	svc := newService(t)
	respondWith(t, "www.acmewidgets.com")

	cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, "www.acmewidgets.com", cand.Hostname)
	assert.Equal(t, resolve.ConfidenceMedium, cand.Confidence)
	assert.Equal(t, resolve.SourceAI, cand.Source)
}

func TestResolve_NormalizesReply(t *testing.T) {
	svc := newService(t)
	respondWith(t, "  https://acmewidgets.com/about\n")

	cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, "www.acmewidgets.com", cand.Hostname)
}

func TestResolve_NotFoundSentinel(t *testing.T) {
	svc := newService(t)
	for _, reply := range []string{"NOT_FOUND", "NOT_FOUND.", "Sorry, NOT_FOUND"} {
		respondWith(t, reply)
		cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
		require.NoError(t, err)
		assert.Nil(t, cand, "reply %q should be a miss", reply)
	}
}

func TestResolve_ImplausibleReplyIsMiss(t *testing.T) {
	svc := newService(t)
	respondWith(t, "I could not find a website for this business.")

	cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestResolve_TransportErrorIsMiss(t *testing.T) {
	svc := newService(t)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestResolve_MalformedBodyIsMiss(t *testing.T) {
	svc := newService(t)
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusOK, `{"choices":[]}`))

	cand, err := svc.Resolve(context.Background(), resolve.Query{Name: "Acme Widgets"})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestResolve_RequestIsDeterministic(t *testing.T) {
	svc := newService(t)
	var got map[string]any
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(r *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			return httpmock.NewStringResponse(http.StatusOK, `{"choices":[]}`), nil
		})

	_, err := svc.Resolve(context.Background(), resolve.Query{
		Name: "Acme Widgets", City: "Springfield", State: "IL", Phone: "555-0100",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, float64(0), got["temperature"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "Acme Widgets")
	assert.Contains(t, user, "Springfield")
	assert.Contains(t, user, "IL")
	assert.Contains(t, user, "555-0100")
}
