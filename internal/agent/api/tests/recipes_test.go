package tests

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

func TestClient_ListRecipes_PassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/recipes/", r.URL.Path)
		require.Equal(t, "t1,t2", r.URL.Query().Get("tags"))
		require.Equal(t, "", r.URL.Query().Get("ingredients"))
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		w.Write([]byte(`[{"id":"r1","title":"Soup","time_minutes":10,"price":"5.25","link":"","tags":[],"ingredients":[]}]`))
	}))
	defer srv.Close()

	list, err := api.NewClient(srv.URL).ListRecipes("token", []string{"t1", "t2"}, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Soup", list[0].Title)
	require.True(t, list[0].Price.Equal(decimal.RequireFromString("5.25")))
}

func TestClient_ListRecipes_NoFilters_NoQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	list, err := api.NewClient(srv.URL).ListRecipes("token", nil, nil)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestClient_CreateRecipe_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recipes/", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Soup", req["title"])
		require.Equal(t, "5.25", req["price"])
		require.Equal(t, []any{map[string]any{"name": "Vegan"}}, req["tags"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r1","title":"Soup","time_minutes":10,"price":"5.25","tags":[{"id":"t1","name":"Vegan"}],"ingredients":[],"description":"","image":null}`))
	}))
	defer srv.Close()

	minutes := 10
	price := decimal.RequireFromString("5.25")
	got, err := api.NewClient(srv.URL).CreateRecipe("token", models.CreateRecipeRequest{
		Title:       "Soup",
		TimeMinutes: &minutes,
		Price:       &price,
		Tags:        []models.LabelRequest{{Name: "Vegan"}},
	})
	require.NoError(t, err)
	require.Equal(t, "r1", got.ID)
	require.Nil(t, got.Image)
	require.Equal(t, "Vegan", got.Tags[0].Name)
}

func TestClient_UpdateRecipe_PatchOrPut(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/r1/", r.URL.Path)
		methods = append(methods, r.Method)
		w.Write([]byte(`{"id":"r1","title":"New"}`))
	}))
	defer srv.Close()

	title := "New"
	c := api.NewClient(srv.URL)

	_, err := c.UpdateRecipe("token", "r1", models.UpdateRecipeRequest{Title: &title}, true)
	require.NoError(t, err)
	_, err = c.UpdateRecipe("token", "r1", models.UpdateRecipeRequest{Title: &title}, false)
	require.NoError(t, err)

	require.Equal(t, []string{http.MethodPatch, http.MethodPut}, methods)
}

func TestClient_GetRecipe_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).GetRecipe("token", "missing")
	require.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestClient_DeleteRecipe_204(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/recipes/r1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, api.NewClient(srv.URL).DeleteRecipe("token", "r1"))
}

func TestClient_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recipes/r1/image/", r.URL.Path)

		f, _, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		require.Equal(t, "IMG", string(data))

		w.Write([]byte(`{"id":"r1","image":"http://h/media/uploads/recipe/x.png"}`))
	}))
	defer srv.Close()

	resp, err := api.NewClient(srv.URL).UploadImage("token", "r1", "x.png", strings.NewReader("IMG"))
	require.NoError(t, err)
	require.Equal(t, "r1", resp.ID)
	require.Equal(t, "http://h/media/uploads/recipe/x.png", resp.Image)
}
