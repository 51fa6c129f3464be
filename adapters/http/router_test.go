package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/pjackim/webbuddy/adapters/media_storage"
	"github.com/pjackim/webbuddy/adapters/persistence"
	"github.com/pjackim/webbuddy/adapters/realtime"
	"github.com/pjackim/webbuddy/internal/application/service"
	assetUC "github.com/pjackim/webbuddy/internal/application/usecase/asset"
	mediaUC "github.com/pjackim/webbuddy/internal/application/usecase/media"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	screenUC "github.com/pjackim/webbuddy/internal/application/usecase/screen"
	"github.com/pjackim/webbuddy/internal/testutil"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type noVideoProber struct{}

func (noVideoProber) Probe(context.Context, string) (service.VideoProbe, error) {
	return service.VideoProbe{}, errors.New("no video in these tests")
}

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
	hub    *realtime.Hub
	relay  *testutil.Relay
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	dir := s.T().TempDir()

	store := persistence.NewMemoryStore(log)
	s.hub = realtime.NewHub(log)
	s.relay = &testutil.Relay{}
	notifier := notify.NewNotifier(s.hub, &testutil.Publisher{}, log)

	storage, err := media_storage.NewLocalStorage(filepath.Join(dir, "uploads"), log)
	s.Require().NoError(err)
	pipeline := mediaUC.NewPipeline(noVideoProber{}, 1, time.Second, log)
	const maxBytes = 64 * 1024

	handlers := Handlers{
		Screens: NewScreenHandler(screenUC.NewScreenUseCase(store, s.relay, notifier, log)),
		Assets: NewAssetHandler(
			assetUC.NewListAssetsUseCase(store),
			assetUC.NewCreateAssetUseCase(store, s.relay, notifier, log),
			assetUC.NewUpdateAssetUseCase(store, s.relay, notifier, log),
			assetUC.NewDeleteAssetUseCase(store, s.relay, notifier, log),
		),
		Media: NewMediaHandler(
			mediaUC.NewUploadMediaUseCase(pipeline, storage, &testutil.Publisher{}, maxBytes, "", log),
			mediaUC.NewGetRawMediaUseCase(storage),
			mediaUC.NewGetMediaInfoUseCase(pipeline, storage, nil, time.Minute, log),
			maxBytes,
			log,
		),
		WebSocket: s.hub.ServeWS,
	}
	s.router = NewRouter(handlers, RouterOptions{
		ServiceName: "webbuddy-test",
		CORSOrigins: []string{"http://localhost:5173"},
		UploadDir:   storage.Dir(),
	}, log)
}

func (s *RouterTestSuite) TearDownTest() {
	s.hub.Close()
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *RouterTestSuite) upload(filename string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(data)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) pngBytes(w, h int) []byte {
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func (s *RouterTestSuite) Test_Health() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *RouterTestSuite) Test_Metrics_Exposed() {
	w := s.do(http.MethodGet, "/metrics", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "go_goroutines")
}

func (s *RouterTestSuite) Test_Screen_Lifecycle() {
	w := s.do(http.MethodPost, "/api/screens", gin.H{"name": "Lobby", "width": 1920, "height": 1080})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	created := s.decode(w)
	id := created["id"].(string)
	s.NotEmpty(id)
	s.Equal("Lobby", created["name"])

	w = s.do(http.MethodPut, "/api/screens/"+id, gin.H{"x": 100})
	s.Require().Equal(http.StatusOK, w.Code)
	updated := s.decode(w)
	s.Equal(float64(100), updated["x"])
	s.Equal(float64(1920), updated["width"])

	w = s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": id, "type": "text"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/screens/"+id, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"ok":true}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/assets?screen_id="+id, nil)
	s.JSONEq(`[]`, w.Body.String())
	w = s.do(http.MethodGet, "/api/screens", nil)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *RouterTestSuite) Test_Screen_Errors() {
	w := s.do(http.MethodPost, "/api/screens", gin.H{"name": "Bad", "width": 0, "height": 10})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperror.ErrInvalidInput.Error(), s.decode(w)["error"])

	w = s.do(http.MethodPut, "/api/screens/missing", gin.H{"x": 1})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/screens/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/screens", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) Test_Asset_Defaults_And_Filter() {
	w := s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": "s1", "type": "text"})
	s.Require().Equal(http.StatusOK, w.Code)
	text := s.decode(w)
	s.Equal("text", text["type"])
	s.Equal("New Text", text["text"])
	s.Equal(24.0, text["font_size"])
	s.Equal("#ffffff", text["color"])
	s.Equal(1.0, text["scale_x"])

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/assets", gin.H{
		"screen_id": "s2", "type": "image", "src": "/uploads/a.png",
	}).Code)

	var onS1 []map[string]any
	w = s.do(http.MethodGet, "/api/assets?screen_id=s1", nil)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &onS1))
	s.Len(onS1, 1)

	var all []map[string]any
	w = s.do(http.MethodGet, "/api/assets", nil)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &all))
	s.Len(all, 2)

	w = s.do(http.MethodPut, "/api/assets/"+text["id"].(string), gin.H{"text": "Hello", "rotation": 45})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Hello", s.decode(w)["text"])

	w = s.do(http.MethodDelete, "/api/assets/"+text["id"].(string), nil)
	s.JSONEq(`{"ok":true}`, w.Body.String())
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/assets/"+text["id"].(string), nil).Code)
}

func (s *RouterTestSuite) Test_Asset_Update_Ignores_Type_And_Screen() {
	w := s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": "s1", "type": "text"})
	s.Require().Equal(http.StatusOK, w.Code)
	id := s.decode(w)["id"].(string)

	w = s.do(http.MethodPut, "/api/assets/"+id, gin.H{"type": "video", "screen_id": "s2", "x": 5})
	s.Require().Equal(http.StatusOK, w.Code)
	updated := s.decode(w)
	s.Equal("text", updated["type"])
	s.Equal("s1", updated["screen_id"])
	s.Equal(5.0, updated["x"])
}

func (s *RouterTestSuite) Test_Asset_Validation_And_Relay_Failure() {
	w := s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": "s1", "type": "hologram"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": "s1", "type": "video"})
	s.Equal(http.StatusBadRequest, w.Code)

	s.relay.FailFor = map[string]error{"*": apperror.NewExternalService("apply", errors.New("connection refused"))}
	w = s.do(http.MethodPost, "/api/assets", gin.H{"screen_id": "s1", "type": "text"})
	s.Equal(http.StatusBadGateway, w.Code)
	s.Equal(apperror.ErrExternalService.Error(), s.decode(w)["error"])
}

func (s *RouterTestSuite) Test_Upload_Raw_Info() {
	data := s.pngBytes(200, 150)
	w := s.upload("banner.png", data)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	out := s.decode(w)
	s.Equal("image", out["media_type"])
	s.Equal("image/png", out["mime_type"])
	s.Equal("banner.png", out["filename"])
	s.Equal(200.0, out["width"])
	s.Equal(150.0, out["height"])
	stored := out["stored_filename"].(string)
	s.Equal("/uploads/"+stored, out["url"])

	w = s.do(http.MethodGet, "/api/assets/raw/"+stored, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.Equal(data, w.Body.Bytes())

	w = s.do(http.MethodGet, "/api/assets/info/"+stored, nil)
	s.Equal(http.StatusOK, w.Code)
	info := s.decode(w)
	s.Equal(200.0, info["width"])
	s.Equal(stored, info["filename"])

	w = s.do(http.MethodGet, "/uploads/"+stored, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(data, w.Body.Bytes())
}

func (s *RouterTestSuite) Test_Upload_Errors() {
	w := s.upload("notes.txt", []byte("hello"))
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.upload("empty.png", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.upload("huge.png", make([]byte, 64*1024+1))
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/assets/raw/nope.png", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/assets/info/nope.png", nil).Code)
}

func (s *RouterTestSuite) Test_WebSocket_Receives_Canvas_Events() {
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	s.Require().NoError(err)
	defer conn.Close()
	s.Require().Eventually(func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/screens", "application/json",
		strings.NewReader(`{"name":"Wall","width":800,"height":600}`))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, msg, err := conn.ReadMessage()
	s.Require().NoError(err)

	var frame struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(msg, &frame))
	s.Equal("screen_added", frame.Event)
	s.Equal("Wall", frame.Data["name"])
}
