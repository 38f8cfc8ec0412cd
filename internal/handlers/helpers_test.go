package handlers

import (
	"net/http"

	"motor_monitoring/internal/service"

	"github.com/gin-gonic/gin"
)

// newTestRouter wires the full route table against mock services.
// The hub is nil: WebSocket behavior is covered in internal/ws.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	return hdr
}

func addAuth(req *http.Request, token string) {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
}
