package tests

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/memory"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

const recipeJSON = `{"id":"r1","title":"Soup","time_minutes":30,"price":"5.50","link":"","tags":[{"id":"t1","name":"Vegan"}],"ingredients":[],"description":"hot","image":null}`

func TestRecipeList_Server_PassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/", r.URL.Path)
		require.Equal(t, "t1,t2", r.URL.Query().Get("tags"))
		require.Equal(t, "i1", r.URL.Query().Get("ingredients"))
		w.Write([]byte(`[{"id":"r1","title":"Soup","time_minutes":30,"price":"5.5","tags":[{"id":"t1","name":"Vegan"}],"ingredients":[]}]`))
	}))
	defer srv.Close()

	out, err := run(cli.RecipeList(newApp(t, srv.URL, "access-1")), "--tags", "t1, t2", "--ingredients", "i1")
	require.NoError(t, err)
	require.Contains(t, out, "Soup")
	require.Contains(t, out, "5.50")
	require.Contains(t, out, "Vegan")
}

func TestRecipeList_JSON_EmptyIsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	app := newApp(t, srv.URL, "access-1")
	app.JSON = true
	out, err := run(cli.RecipeList(app))
	require.NoError(t, err)
	require.JSONEq(t, `[]`, out)
}

func TestRecipeList_Cached_WithoutSync(t *testing.T) {
	out, err := run(cli.RecipeList(newApp(t, "http://127.0.0.1:1", "")), "--cached")
	require.NoError(t, err)
	require.Contains(t, out, "no local recipes")
}

func TestRecipeList_Cached_Filters(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "")
	app.Recipes.ReplaceAll([]models.RecipeDetail{
		{Recipe: models.Recipe{ID: "r1", Title: "Soup", Tags: []models.Label{{ID: "t1", Name: "Vegan"}}}},
		{Recipe: models.Recipe{ID: "r2", Title: "Cake"}},
	}, time.Now())

	out, err := run(cli.RecipeList(app), "--cached", "--tags", "t1")
	require.NoError(t, err)
	require.Contains(t, out, "Soup")
	require.NotContains(t, out, "Cake")
}

func TestRecipeGet_Server(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/r1/", r.URL.Path)
		w.Write([]byte(recipeJSON))
	}))
	defer srv.Close()

	out, err := run(cli.RecipeGet(newApp(t, srv.URL, "access-1")), "r1")
	require.NoError(t, err)
	require.Contains(t, out, "Title: Soup")
	require.Contains(t, out, "Description: hot")
	require.Contains(t, out, "Tags: Vegan")
}

func TestRecipeGet_Cached_NotFound(t *testing.T) {
	_, err := run(cli.RecipeGet(newApp(t, "http://127.0.0.1:1", "")), "missing", "--cached")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestRecipeCreate_SendsFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Soup", req["title"])
		require.Equal(t, float64(30), req["time_minutes"])
		require.Equal(t, "5.5", req["price"])
		require.Equal(t, []any{map[string]any{"name": "Vegan"}}, req["tags"])
		require.Equal(t, []any{map[string]any{"name": "Salt"}, map[string]any{"name": "Water"}}, req["ingredients"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(recipeJSON))
	}))
	defer srv.Close()

	out, err := run(cli.RecipeCreate(newApp(t, srv.URL, "access-1")),
		"--title", "Soup", "--time", "30", "--price", "5.50",
		"--tag", "Vegan", "--ingredient", "Salt", "--ingredient", "Water")
	require.NoError(t, err)
	require.Contains(t, out, "created recipe r1")
}

// без --time и --price поля не отправляются
func TestRecipeCreate_OmitsUnsetRequiredFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Nil(t, req["time_minutes"])
		require.Nil(t, req["price"])

		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid input","fields":{"price":"this field is required","time_minutes":"this field is required"}}`))
	}))
	defer srv.Close()

	_, err := run(cli.RecipeCreate(newApp(t, srv.URL, "access-1")), "--title", "Soup")
	require.Error(t, err)
	require.Contains(t, err.Error(), "time_minutes: this field is required")
}

func TestRecipeCreate_BadPrice(t *testing.T) {
	_, err := run(cli.RecipeCreate(newApp(t, "http://127.0.0.1:1", "access-1")), "--title", "Soup", "--price", "abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --price")
}

func TestRecipeUpdate_PatchOnlyChangedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/recipes/r1/", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, map[string]any{"title": "New", "tags": []any{}}, req)

		w.Write([]byte(recipeJSON))
	}))
	defer srv.Close()

	_, err := run(cli.RecipeUpdate(newApp(t, srv.URL, "access-1")), "r1", "--title", "New", "--clear-tags")
	require.NoError(t, err)
}

func TestRecipeUpdate_Put(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(recipeJSON))
	}))
	defer srv.Close()

	_, err := run(cli.RecipeUpdate(newApp(t, srv.URL, "access-1")), "r1", "--put", "--title", "T", "--time", "1", "--price", "1")
	require.NoError(t, err)
}

func TestRecipeUpdate_ClearConflictsWithTag(t *testing.T) {
	_, err := run(cli.RecipeUpdate(newApp(t, "http://127.0.0.1:1", "access-1")), "r1", "--tag", "A", "--clear-tags")
	require.EqualError(t, err, "--clear-tags conflicts with --tag")
}

// после sync изменения попадают в офлайн-копию
func TestRecipeUpdate_UpdatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(recipeJSON))
	}))
	defer srv.Close()

	app := newApp(t, srv.URL, "access-1")
	app.Recipes.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "r1", Title: "Old"}}}, time.Now())

	_, err := run(cli.RecipeUpdate(app), "r1", "--title", "Soup")
	require.NoError(t, err)

	stored := memory.NewRecipes()
	require.NoError(t, memory.LoadFromFile(app.RecipesPath, stored))
	got, err := stored.Get("r1")
	require.NoError(t, err)
	require.Equal(t, "Soup", got.Title)
}

func TestRecipeDelete_RemovesFromCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	app := newApp(t, srv.URL, "access-1")
	app.Recipes.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "r1"}}, {Recipe: models.Recipe{ID: "r2"}}}, time.Now())

	out, err := run(cli.RecipeDelete(app), "r1")
	require.NoError(t, err)
	require.Contains(t, out, "deleted recipe r1")
	require.Len(t, app.Recipes.List(), 1)
}

func TestRecipeDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	_, err := run(cli.RecipeDelete(newApp(t, srv.URL, "access-1")), "r1")
	require.EqualError(t, err, "404: not found")
}

func TestRecipeImage_UploadsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/r1/image/", r.URL.Path)
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		require.Equal(t, "cake.png", hdr.Filename)
		require.Equal(t, "PNG", string(data))
		w.Write([]byte(`{"id":"r1","image":"http://h/media/uploads/recipe/x.png"}`))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "cake.png")
	require.NoError(t, os.WriteFile(file, []byte("PNG"), 0o600))

	app := newApp(t, srv.URL, "access-1")
	app.Recipes.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "r1"}}}, time.Now())

	out, err := run(cli.RecipeImage(app), "r1", file)
	require.NoError(t, err)
	require.Contains(t, out, "image uploaded: http://h/media/uploads/recipe/x.png")

	got, err := app.Recipes.Get("r1")
	require.NoError(t, err)
	require.Equal(t, "http://h/media/uploads/recipe/x.png", *got.Image)
}

func TestRecipeImage_MissingFile(t *testing.T) {
	_, err := run(cli.RecipeImage(newApp(t, "http://127.0.0.1:1", "access-1")), "r1", filepath.Join(t.TempDir(), "none.png"))
	require.Error(t, err)
}

func TestRecipeSync_ReplacesAndSaves(t *testing.T) {
	var details atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/recipes/" {
			w.Write([]byte(`[{"id":"a","title":"A"},{"id":"b","title":"B"}]`))
			return
		}
		details.Add(1)
		id := filepath.Base(r.URL.Path)
		w.Write([]byte(`{"id":"` + id + `","title":"` + id + `-detail","description":"d"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, "access-1")
	app.Recipes.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "old"}}}, time.Now())

	saved := false
	orig := cli.SaveRecipesToFile
	t.Cleanup(func() { cli.SaveRecipesToFile = orig })
	cli.SaveRecipesToFile = func(_ string, s *memory.RecipesStore) error {
		saved = true
		return nil
	}

	out, err := run(cli.RecipeSync(app))
	require.NoError(t, err)
	require.Contains(t, out, "synced 2 recipes")
	require.True(t, saved)
	require.EqualValues(t, 2, details.Load())

	list := app.Recipes.List()
	require.Len(t, list, 2)
	// порядок сервера сохраняется
	require.Equal(t, "a-detail", list[0].Title)
	require.Equal(t, "b-detail", list[1].Title)
	require.False(t, app.Recipes.SyncedAt().IsZero())
}

func TestRecipeSync_EmptyID_ModelMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"no id"}]`))
	}))
	defer srv.Close()

	_, err := run(cli.RecipeSync(newApp(t, srv.URL, "access-1")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "model mismatch")
}

func TestRecipeSync_DetailError_KeepsOldCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/recipes/" {
			w.Write([]byte(`[{"id":"a"}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal error"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, "access-1")
	app.Recipes.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "old"}}}, time.Now())

	_, err := run(cli.RecipeSync(app))
	require.Error(t, err)
	require.Contains(t, err.Error(), "sync recipe a")

	_, err = app.Recipes.Get("old")
	require.NoError(t, err)
}
