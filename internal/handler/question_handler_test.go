package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
	"github.com/yourusername/spatial-quiz-api/internal/repository/postgres"
	"github.com/yourusername/spatial-quiz-api/internal/service"
	"github.com/yourusername/spatial-quiz-api/internal/storage"
)

type questionEnv struct {
	router *gin.Engine
	blobs  *storage.FSStore
}

func newQuestionEnv(t *testing.T) *questionEnv {
	t.Helper()
	db := newTestDB(t)
	blobs, err := storage.NewFSStore(t.TempDir(), "/static")
	require.NoError(t, err)

	svc := service.NewQuestionService(
		postgres.NewQuestionRepo(db), newMemCache(), blobs,
		service.NewImageProcessor(256, 1), logger.NewNop(),
	)
	r := gin.New()
	RegisterRoutes(r, Handlers{Question: NewQuestionHandler(svc, logger.NewNop())}, RouteOptions{})
	return &questionEnv{router: r, blobs: blobs}
}

func validForm() map[string]string {
	return map[string]string{
		"square_x": "0", "square_y": "2",
		"triangle_x": "2", "triangle_y": "1",
		"circle_x": "1", "circle_y": "0",
		"answer_down": "S,C,T", "answer_up": "T,C,S",
		"answer_right": "C,T,S", "answer_left": "S,T,C",
		"answer_ne": "C,T", "answer_nw": "S,C,T",
		"answer_se": "T,S", "answer_sw": "C,S",
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doMultipart(t *testing.T, r http.Handler, method, path string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "question.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuestionHandler_CreateAndGet(t *testing.T) {
	// Arrange
	env := newQuestionEnv(t)

	// Act
	w := doMultipart(t, env.router, http.MethodPost, "/api/admin/questions", validForm(), testPNG(t))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := parseJSONResponse(t, w)
	assert.Equal(t, true, created["is_active"])
	assert.Equal(t, float64(2), created["triangle_x"])
	imageURL := created["image_url"].(string)
	assert.Regexp(t, `^/static/questions/[0-9a-f]{32}\.png$`, imageURL)

	key := imageURL[len("/static/"):]
	_, err := os.Stat(filepath.Join(env.blobs.Dir(), filepath.FromSlash(key)))
	assert.NoError(t, err, "изображение должно быть сохранено")

	id := strconv.Itoa(int(created["id"].(float64)))
	w = doJSON(t, env.router, http.MethodGet, "/api/admin/questions/"+id, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "C,T", parseJSONResponse(t, w)["answer_ne"])
}

func TestQuestionHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]string)
		withImage  bool
		wantStatus int
	}{
		{"нет изображения", func(map[string]string) {}, false, http.StatusUnprocessableEntity},
		{"координата вне сетки", func(f map[string]string) { f["square_x"] = "3" }, true, http.StatusUnprocessableEntity},
		{"нет координаты", func(f map[string]string) { delete(f, "circle_y") }, true, http.StatusUnprocessableEntity},
		{"объект в центре", func(f map[string]string) { f["circle_x"], f["circle_y"] = "1", "1" }, true, http.StatusUnprocessableEntity},
		{"плохой вариант ответа", func(f map[string]string) { f["answer_up"] = "S,S,T" }, true, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newQuestionEnv(t)
			form := validForm()
			tt.mutate(form)
			var img []byte
			if tt.withImage {
				img = testPNG(t)
			}

			w := doMultipart(t, env.router, http.MethodPost, "/api/admin/questions", form, img)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestQuestionHandler_ToggleAndDelete(t *testing.T) {
	// Arrange
	env := newQuestionEnv(t)
	w := doMultipart(t, env.router, http.MethodPost, "/api/admin/questions", validForm(), testPNG(t))
	require.Equal(t, http.StatusCreated, w.Code)
	id := strconv.Itoa(int(parseJSONResponse(t, w)["id"].(float64)))

	// Act
	wToggle := doJSON(t, env.router, http.MethodPost, "/api/admin/questions/"+id+"/toggle", nil, nil)
	wBatch := doJSON(t, env.router, http.MethodPost, "/api/admin/questions/batch-toggle",
		map[string]interface{}{"question_ids": []int{1}, "is_active": true}, nil)
	wDelete := doJSON(t, env.router, http.MethodDelete, "/api/admin/questions/"+id, nil, nil)
	wGone := doJSON(t, env.router, http.MethodGet, "/api/admin/questions/"+id, nil, nil)
	wBadID := doJSON(t, env.router, http.MethodGet, "/api/admin/questions/abc", nil, nil)

	// Assert
	require.Equal(t, http.StatusOK, wToggle.Code)
	assert.Equal(t, false, parseJSONResponse(t, wToggle)["is_active"])
	assert.Equal(t, http.StatusOK, wBatch.Code)
	assert.Equal(t, http.StatusOK, wDelete.Code)
	assert.Equal(t, http.StatusNotFound, wGone.Code)
	assert.Equal(t, http.StatusBadRequest, wBadID.Code)

	list := doJSON(t, env.router, http.MethodGet, "/api/admin/questions", nil, nil)
	assert.Equal(t, "[]", list.Body.String())
}

func TestQuestionHandler_GenerateAndPreview(t *testing.T) {
	env := newQuestionEnv(t)
	placement := map[string]interface{}{
		"square_x": 0, "square_y": 2,
		"triangle_x": 2, "triangle_y": 1,
		"circle_x": 1, "circle_y": 0,
	}

	t.Run("ответы для основных направлений", func(t *testing.T) {
		w := doJSON(t, env.router, http.MethodPost, "/api/admin/answers/generate", placement, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseJSONResponse(t, w)
		for _, k := range []string{"answer_up", "answer_down", "answer_left", "answer_right"} {
			assert.Len(t, resp[k], len("S,C,T"), k)
		}
	})

	t.Run("неполная расстановка", func(t *testing.T) {
		w := doJSON(t, env.router, http.MethodPost, "/api/admin/answers/generate", map[string]interface{}{"square_x": 0, "square_y": 2}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("превью", func(t *testing.T) {
		body := map[string]interface{}{"square_x": 0, "square_y": 2, "size": 128}
		w := doJSON(t, env.router, http.MethodPost, "/api/admin/placement/preview", body, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("превью с объектами в одной строке", func(t *testing.T) {
		body := map[string]interface{}{"square_x": 0, "square_y": 2, "triangle_x": 2, "triangle_y": 2}
		w := doJSON(t, env.router, http.MethodPost, "/api/admin/placement/preview", body, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestQuestionHandler_ListEmpty(t *testing.T) {
	env := newQuestionEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/admin/questions", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
