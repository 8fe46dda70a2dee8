package outbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaUsesLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/subjects/habit_events-weight_logged-value/versions/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"subject":"habit_events-weight_logged-value","version":3,"id":17}`))
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL+"/", time.Second)
	id, err := client.EnsureSchema(context.Background(), "habit_events-weight_logged-value", weightLoggedSchema)
	require.NoError(t, err)
	require.Equal(t, 17, id)
}

func TestEnsureSchemaRegistersUnknownSubject(t *testing.T) {
	var registered map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":40401,"message":"Subject not found."}`))
		case http.MethodPost:
			require.Equal(t, "/subjects/competition_events-finalized-value/versions", r.URL.Path)
			require.Equal(t, "application/vnd.schemaregistry.v1+json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
			_, _ = w.Write([]byte(`{"id":23}`))
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL, time.Second)
	id, err := client.EnsureSchema(context.Background(), "competition_events-finalized-value", competitionFinalizedSchema)
	require.NoError(t, err)
	require.Equal(t, 23, id)
	require.Equal(t, "JSON", registered["schemaType"])
	require.JSONEq(t, competitionFinalizedSchema, registered["schema"])
}

func TestEnsureSchemaSurfacesRegistryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL, time.Second)
	_, err := client.EnsureSchema(context.Background(), "habit_events-goal_completed-value", goalCompletedSchema)
	require.ErrorContains(t, err, "schema registry lookup error")
}
