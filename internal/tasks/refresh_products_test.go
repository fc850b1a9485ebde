package tasks_test

import (
	"context"

	"finchat/internal/cache"
	"finchat/internal/config"
	"finchat/internal/db"
	"finchat/internal/models"
	"finchat/internal/tasks"
	"finchat/internal/testhelpers"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("HandleRefreshProductsTask", func() {
	var dbConn *gorm.DB
	var store *cache.MemoryCache
	var p *tasks.TaskProcessor

	var depositList = `{
		"result": {
			"prdt_div": "D",
			"total_count": 1,
			"max_page_no": 1,
			"now_page_no": 1,
			"err_cd": "000",
			"err_msg": "정상",
			"baseList": [
				{
					"dcls_month": "202508",
					"fin_co_no": "0010927",
					"kor_co_nm": "케이뱅크",
					"fin_prdt_cd": "CODEK",
					"fin_prdt_nm": "코드K 정기예금",
					"join_way": "스마트폰",
					"mtrt_int": "만기 후 1개월 이내: 기본금리의 50%",
					"spcl_cnd": "해당사항 없음",
					"join_deny": "1",
					"join_member": "실명의 개인",
					"etc_note": "",
					"max_limit": null
				}
			],
			"optionList": [
				{
					"fin_co_no": "0010927",
					"fin_prdt_cd": "CODEK",
					"intr_rate_type": "S",
					"intr_rate_type_nm": "단리",
					"save_trm": "12",
					"intr_rate": 3.5,
					"intr_rate2": 3.5
				}
			]
		}
	}`

	var savingsList = `{
		"result": {
			"prdt_div": "S",
			"total_count": 1,
			"max_page_no": 1,
			"now_page_no": 1,
			"err_cd": "000",
			"err_msg": "정상",
			"baseList": [
				{
					"dcls_month": "202508",
					"fin_co_no": "0010001",
					"kor_co_nm": "우리은행",
					"fin_prdt_cd": "WRJG",
					"fin_prdt_nm": "우리 주거래 적금",
					"join_way": "영업점,스마트폰",
					"mtrt_int": "만기 후 1개월 이내: 기본금리의 50%",
					"spcl_cnd": "급여이체 실적",
					"join_deny": "1",
					"join_member": "실명의 개인",
					"etc_note": "",
					"max_limit": 50000000
				}
			],
			"optionList": [
				{
					"fin_co_no": "0010001",
					"fin_prdt_cd": "WRJG",
					"intr_rate_type": "S",
					"intr_rate_type_nm": "단리",
					"rsrv_type_nm": "정액적립식",
					"save_trm": "12",
					"intr_rate": 3.0,
					"intr_rate2": 3.8
				}
			]
		}
	}`

	var errList = `{"result": {"err_cd": "010", "err_msg": "등록되지 않은 인증키입니다.", "baseList": [], "optionList": []}}`

	BeforeEach(func() {
		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			Skip("database not available: " + err.Error())
		}

		Expect(dbConn.AutoMigrate(&models.Product{}, &models.ProductOption{})).To(Succeed())
		testhelpers.CleanupDB(dbConn)

		store = cache.NewMemoryCache()
		p = tasks.NewTaskProcessor(dbConn, cfg, store)

		testhelpers.Activate()
		p.GetFinlifeClient().UseDefaultClient()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	It("stores both deposit and savings listings", func() {
		testhelpers.New("http://finlife.fss.or.kr").
			Get("/finlifeapi/depositProductsSearch.json").Reply(200).
			BodyString(depositList).
			Header("Content-Type", "application/json")

		testhelpers.New("http://finlife.fss.or.kr").
			Get("/finlifeapi/savingProductsSearch.json").Reply(200).
			BodyString(savingsList).
			Header("Content-Type", "application/json")

		ctx := context.Background()
		err := p.HandleRefreshProductsTask(ctx, asynq.NewTask(tasks.TypeTaskRefreshProducts, []byte("{}")))
		Expect(err).NotTo(HaveOccurred())
		Expect(testhelpers.IsDone()).To(BeTrue())

		var deposits []models.Product
		Expect(dbConn.Preload("Options").Where("category = ?", "deposit").Find(&deposits).Error).NotTo(HaveOccurred())
		Expect(deposits).To(HaveLen(1))
		Expect(deposits[0].ProductName).To(Equal("코드K 정기예금"))
		Expect(deposits[0].Options).To(HaveLen(1))
		Expect(deposits[0].Options[0].SaveTerm).To(Equal(12))

		var savings []models.Product
		Expect(dbConn.Preload("Options").Where("category = ?", "savings").Find(&savings).Error).NotTo(HaveOccurred())
		Expect(savings).To(HaveLen(1))
		Expect(savings[0].ProductName).To(Equal("우리 주거래 적금"))
		Expect(savings[0].MaxLimit).To(Equal(int64(50000000)))

		_, cached := store.Get("products:deposit")
		Expect(cached).To(BeTrue())
	})

	It("replaces previously stored listings for the category", func() {
		stale := models.Product{
			Category:    "deposit",
			FinCoNo:     "0000000",
			ProductCode: "OLD",
			ProductName: "단종된 예금",
		}
		Expect(dbConn.Create(&stale).Error).NotTo(HaveOccurred())

		testhelpers.New("http://finlife.fss.or.kr").
			Get("/finlifeapi/depositProductsSearch.json").Reply(200).
			BodyString(depositList)

		category := "deposit"
		task, err := tasks.NewRefreshProductsTask(&category)
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleRefreshProductsTask(context.Background(), task)
		Expect(err).NotTo(HaveOccurred())

		var deposits []models.Product
		Expect(dbConn.Where("category = ?", "deposit").Find(&deposits).Error).NotTo(HaveOccurred())
		Expect(deposits).To(HaveLen(1))
		Expect(deposits[0].ProductName).To(Equal("코드K 정기예금"))
	})

	It("keeps stored listings when the API rejects the key", func() {
		testhelpers.New("http://finlife.fss.or.kr").
			Get("/finlifeapi/depositProductsSearch.json").Reply(200).
			BodyString(errList)

		category := "deposit"
		task, err := tasks.NewRefreshProductsTask(&category)
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleRefreshProductsTask(context.Background(), task)
		Expect(err).NotTo(HaveOccurred())

		var count int64
		Expect(dbConn.Model(&models.Product{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("skips retry on an unknown category", func() {
		category := "loan"
		task, err := tasks.NewRefreshProductsTask(&category)
		Expect(err).NotTo(HaveOccurred())

		err = p.HandleRefreshProductsTask(context.Background(), task)
		Expect(err).To(MatchError(asynq.SkipRetry))
	})
})
