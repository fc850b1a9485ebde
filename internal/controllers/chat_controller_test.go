package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"finchat/internal/chat"
	"finchat/internal/config"
	"finchat/internal/db"
	"finchat/internal/models"
	"finchat/internal/pkg/maturity"
	"finchat/internal/routes"
	"finchat/internal/testhelpers"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type stubLister struct {
	products []models.Product
}

func (s *stubLister) List(_ context.Context, _ maturity.Category) ([]models.Product, error) {
	return s.products, nil
}

type stubRecommender struct {
	text string
}

func (s *stubRecommender) Recommend(_ context.Context, _, _, _, _ string) (string, error) {
	return s.text, nil
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
}

func postChat(router *gin.Engine, payload string) (*httptest.ResponseRecorder, chatResponse) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	var body chatResponse
	if resp.Code == http.StatusOK {
		Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
	}
	return resp, body
}

var _ = Describe("ChatController", func() {
	var (
		dbConn *gorm.DB
		router *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)

		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			Skip("database not available: " + err.Error())
		}

		Expect(dbConn.AutoMigrate(&models.Product{}, &models.ProductOption{})).To(Succeed())
		testhelpers.CleanupDB(dbConn)

		lister := &stubLister{products: []models.Product{
			{Category: "deposit", CompanyName: "케이뱅크", ProductName: "코드K 정기예금"},
		}}
		recommender := &stubRecommender{text: "1위: 코드K 정기예금, 연 3.5%입니다."}

		advisor := chat.NewAdvisor(lister, recommender)
		router = routes.SetupRouter(dbConn, chat.NewStore(), advisor)
	})

	Describe("POST /api/v1/chat", func() {
		It("opens a session and greets on an empty first message", func() {
			resp, body := postChat(router, `{"message": ""}`)

			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(body.SessionID).NotTo(BeEmpty())
			Expect(body.Reply).To(ContainSubstring("안녕하세요"))
			Expect(body.Stage).To(Equal("risk"))
		})

		It("keeps conversation state across turns", func() {
			_, opened := postChat(router, `{"message": ""}`)

			resp, body := postChat(router, `{"session_id": "`+opened.SessionID+`", "message": "안정적"}`)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(body.SessionID).To(Equal(opened.SessionID))
			Expect(body.Stage).To(Equal("goal"))
		})

		It("runs a full cycle through to a maturity calculation", func() {
			_, opened := postChat(router, `{"message": ""}`)
			id := opened.SessionID

			postChat(router, `{"session_id": "`+id+`", "message": "안정적"}`)
			postChat(router, `{"session_id": "`+id+`", "message": "비상금"}`)
			postChat(router, `{"session_id": "`+id+`", "message": "1년"}`)

			_, body := postChat(router, `{"session_id": "`+id+`", "message": "예금"}`)
			Expect(body.Reply).To(ContainSubstring("1위: 코드K 정기예금"))
			Expect(body.Stage).To(Equal("calculate"))

			_, body = postChat(router, `{"session_id": "`+id+`", "message": "코드K 정기예금, 500만원"}`)
			Expect(body.Reply).To(ContainSubstring("세후 수령액"))
		})

		It("rejects an unknown session id", func() {
			resp, _ := postChat(router, `{"session_id": "missing", "message": "안정적"}`)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a malformed body", func() {
			resp, _ := postChat(router, `{`)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
