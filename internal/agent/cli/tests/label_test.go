package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/cli"
)

func TestLabelCmd_Names(t *testing.T) {
	require.Equal(t, "tag", cli.NewLabelCmd(newApp(t, "", ""), api.KindTags).Name())
	require.Equal(t, "ingredient", cli.NewLabelCmd(newApp(t, "", ""), api.KindIngredients).Name())
}

func TestLabelList_AssignedOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ingredients/", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("assigned_only"))
		w.Write([]byte(`[{"id":"i1","name":"Salt"}]`))
	}))
	defer srv.Close()

	out, err := run(cli.NewLabelCmd(newApp(t, srv.URL, "access-1"), api.KindIngredients), "list", "--assigned-only")
	require.NoError(t, err)
	require.Contains(t, out, "i1")
	require.Contains(t, out, "Salt")
}

func TestLabelRename_JoinsWords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/tags/t1/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Quick dinner", req["name"])

		w.Write([]byte(`{"id":"t1","name":"Quick dinner"}`))
	}))
	defer srv.Close()

	out, err := run(cli.NewLabelCmd(newApp(t, srv.URL, "access-1"), api.KindTags), "rename", "t1", "Quick", "dinner")
	require.NoError(t, err)
	require.Contains(t, out, `renamed tag t1 to "Quick dinner"`)
}

func TestLabelDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/ingredients/i1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	out, err := run(cli.NewLabelCmd(newApp(t, srv.URL, "access-1"), api.KindIngredients), "delete", "i1")
	require.NoError(t, err)
	require.Contains(t, out, "deleted ingredient i1")
}

func TestLabelList_NotLoggedIn(t *testing.T) {
	_, err := run(cli.NewLabelCmd(newApp(t, "http://127.0.0.1:1", ""), api.KindTags), "list")
	require.Error(t, err)
}
