package finlife

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finchat/internal/models"
	"finchat/internal/pkg/maturity"
)

const baseURL = "http://finlife.fss.or.kr/finlifeapi"

// 권역코드: 020000 은행
const topBankGroup = "020000"

// Client calls the FSS 금융상품통합비교공시 open API.
// https://finlife.fss.or.kr/finlife/api/fdrmDpsitGuide.do
type Client struct {
	key    string
	client *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		key: apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// UseDefaultClient makes the client use http.DefaultClient so tests can
// swap its transport.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

type baseProduct struct {
	DclsMonth string `json:"dcls_month"`
	FinCoNo   string `json:"fin_co_no"`
	KorCoNm   string `json:"kor_co_nm"`
	FinPrdtCd string `json:"fin_prdt_cd"`
	FinPrdtNm string `json:"fin_prdt_nm"`
	JoinWay   string `json:"join_way"`
	MtrtInt   string `json:"mtrt_int"`
	SpclCnd   string `json:"spcl_cnd"`
	JoinDeny  string `json:"join_deny"`
	JoinMemb  string `json:"join_member"`
	EtcNote   string `json:"etc_note"`
	MaxLimit  *int64 `json:"max_limit"`
}

type productOption struct {
	FinCoNo        string              `json:"fin_co_no"`
	FinPrdtCd      string              `json:"fin_prdt_cd"`
	IntrRateType   string              `json:"intr_rate_type"`
	IntrRateTypeNm string              `json:"intr_rate_type_nm"`
	RsrvTypeNm     string              `json:"rsrv_type_nm"`
	SaveTrm        string              `json:"save_trm"`
	IntrRate       decimal.NullDecimal `json:"intr_rate"`
	IntrRate2      decimal.NullDecimal `json:"intr_rate2"`
}

type searchResponse struct {
	Result struct {
		PrdtDiv    string          `json:"prdt_div"`
		TotalCount int             `json:"total_count"`
		MaxPageNo  int             `json:"max_page_no"`
		NowPageNo  int             `json:"now_page_no"`
		ErrCd      string          `json:"err_cd"`
		ErrMsg     string          `json:"err_msg"`
		BaseList   []baseProduct   `json:"baseList"`
		OptionList []productOption `json:"optionList"`
	} `json:"result"`
}

// 상품 검색 API는 예금/적금이 경로만 다르고 응답 형태는 같다.
var searchPaths = map[maturity.Category]string{
	maturity.CategoryDeposit: "/depositProductsSearch.json",
	maturity.CategorySavings: "/savingProductsSearch.json",
}

// SearchProducts fetches every page of bank listings for the category and
// joins each product with its term/rate options.
func (c *Client) SearchProducts(category maturity.Category) ([]models.Product, error) {
	path, ok := searchPaths[category]
	if !ok {
		return nil, fmt.Errorf("finlife: unknown category %q", category)
	}

	products := []models.Product{}
	options := map[string][]models.ProductOption{}

	page := 1
	for {
		res, err := c.search(path, page)
		if err != nil {
			return nil, err
		}

		for _, base := range res.Result.BaseList {
			products = append(products, toProduct(base, category))
		}
		for _, opt := range res.Result.OptionList {
			key := opt.FinCoNo + "/" + opt.FinPrdtCd
			options[key] = append(options[key], toOption(opt))
		}

		if page >= res.Result.MaxPageNo {
			break
		}
		page++
	}

	for i := range products {
		key := products[i].FinCoNo + "/" + products[i].ProductCode
		products[i].Options = options[key]
	}

	return products, nil
}

func (c *Client) search(path string, page int) (*searchResponse, error) {
	u, _ := url.Parse(baseURL + path)
	q := u.Query()
	q.Set("auth", c.key)
	q.Set("topFinGrpNo", topBankGroup)
	q.Set("pageNo", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	resp, err := c.client.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finlife: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	if out.Result.ErrCd != "000" { // 000: 정상
		return nil, fmt.Errorf("finlife error %s: %s", out.Result.ErrCd, out.Result.ErrMsg)
	}

	return &out, nil
}

func toProduct(base baseProduct, category maturity.Category) models.Product {
	var maxLimit int64
	if base.MaxLimit != nil {
		maxLimit = *base.MaxLimit
	}

	return models.Product{
		Category:         string(category),
		DisclosureMonth:  base.DclsMonth,
		FinCoNo:          base.FinCoNo,
		CompanyName:      base.KorCoNm,
		ProductCode:      base.FinPrdtCd,
		ProductName:      base.FinPrdtNm,
		JoinWay:          base.JoinWay,
		MaturityInterest: base.MtrtInt,
		SpecialCondition: base.SpclCnd,
		JoinDeny:         base.JoinDeny,
		JoinMember:       base.JoinMemb,
		EtcNote:          base.EtcNote,
		MaxLimit:         maxLimit,
	}
}

func toOption(opt productOption) models.ProductOption {
	term, err := strconv.Atoi(opt.SaveTrm)
	if err != nil {
		term = 0
	}

	return models.ProductOption{
		RateType:     opt.IntrRateType,
		RateTypeName: opt.IntrRateTypeNm,
		ReserveType:  opt.RsrvTypeNm,
		SaveTerm:     term,
		Rate:         opt.IntrRate.Decimal,
		PreferRate:   opt.IntrRate2.Decimal,
	}
}
