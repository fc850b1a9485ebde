package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"finchat/internal/models"
	"finchat/internal/pkg/maturity"
	"finchat/internal/pkg/won"
)

// Recommender produces the ranked recommendation prose for a profile and a
// product listing JSON.
type Recommender interface {
	Recommend(ctx context.Context, risk, goal, horizon, productListJSON string) (string, error)
}

// ProductLister returns the current listings for a category.
type ProductLister interface {
	List(ctx context.Context, category maturity.Category) ([]models.Product, error)
}

const greeting = `안녕하세요! 투자 성향에 맞는 예금·적금 상품을 찾아드릴게요.
투자 시 원금 손실을 얼마나 감수할 수 있으신가요? (안정적 / 중립적 / 공격적)`

const calculateHint = `만기 수령액이 궁금하면 "상품명, 금액" 형식으로 입력해주세요.
예) 코드K 정기예금, 500만원 (적금은 월 납입액 기준)`

// Advisor drives the conversation. Every core failure becomes a Korean
// retry message; nothing here terminates the session.
type Advisor struct {
	products    ProductLister
	recommender Recommender
	calculator  *maturity.Calculator
}

func NewAdvisor(products ProductLister, recommender Recommender) *Advisor {
	return &Advisor{
		products:    products,
		recommender: recommender,
		calculator:  maturity.Default(),
	}
}

// Greeting opens a new conversation.
func (a *Advisor) Greeting() string {
	return greeting
}

// Handle advances the session with one user message and returns the reply
// to display verbatim.
func (a *Advisor) Handle(ctx context.Context, session *Session, input string) string {
	input = strings.TrimSpace(input)

	switch session.Stage {
	case StageRisk:
		return a.handleRisk(session, input)
	case StageGoal:
		return a.handleGoal(session, input)
	case StageHorizon:
		return a.handleHorizon(session, input)
	case StageProductType:
		return a.handleProductType(ctx, session, input)
	case StageCalculate:
		return a.handleCalculate(session, input)
	default:
		session.Stage = StageRisk
		return greeting
	}
}

func (a *Advisor) handleRisk(session *Session, input string) string {
	risk := ""
	switch {
	case strings.Contains(input, "안정"):
		risk = "안정적"
	case strings.Contains(input, "중립"):
		risk = "중립적"
	case strings.Contains(input, "공격"):
		risk = "공격적"
	}

	if risk == "" {
		return "안정적 / 중립적 / 공격적 중에서 골라주세요."
	}

	session.Profile.Risk = risk
	session.Stage = StageGoal
	return "무엇을 위해 모으시나요? (예: 내집마련, 비상금, 여행)"
}

func (a *Advisor) handleGoal(session *Session, input string) string {
	if input == "" {
		return "저축 목표를 알려주세요. (예: 내집마련, 비상금, 여행)"
	}

	session.Profile.Goal = input
	session.Stage = StageHorizon
	return "얼마나 오래 모으실 계획인가요? (예: 1년, 3년)"
}

func (a *Advisor) handleHorizon(session *Session, input string) string {
	if input == "" {
		return "저축 기간을 알려주세요. (예: 1년, 3년)"
	}

	session.Profile.Horizon = input
	session.Stage = StageProductType
	return "어떤 상품을 알아볼까요? 목돈을 한 번에 맡기는 '예금', 매달 나눠 넣는 '적금' 중 선택해주세요."
}

func (a *Advisor) handleProductType(ctx context.Context, session *Session, input string) string {
	category, ok := maturity.ParseCategory(input)
	if !ok {
		switch {
		case strings.Contains(input, "예금"):
			category = maturity.CategoryDeposit
		case strings.Contains(input, "적금"):
			category = maturity.CategorySavings
		default:
			return "'예금' 또는 '적금'으로 답해주세요."
		}
	}

	session.Category = category
	return a.recommend(ctx, session)
}

func (a *Advisor) recommend(ctx context.Context, session *Session) string {
	listings, err := a.products.List(ctx, session.Category)
	if err != nil {
		log.Printf("failed to load product listings: %v", err)
		return "금융상품 정보를 불러오는 중 오류가 발생했어요. 잠시 후 다시 '예금' 또는 '적금'을 입력해주세요."
	}

	if len(listings) == 0 {
		return "현재 조회 가능한 상품이 없습니다. 잠시 후 다시 시도해주세요."
	}

	listJSON, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		log.Printf("failed to marshal product listings: %v", err)
		return "금융상품 정보를 처리하는 중 오류가 발생했어요. 잠시 후 다시 시도해주세요."
	}

	recommendation, err := a.recommender.Recommend(ctx, session.Profile.Risk, session.Profile.Goal, session.Profile.Horizon, string(listJSON))
	if err != nil {
		log.Printf("failed to generate recommendation: %v", err)
		return "추천을 생성하는 중 오류가 발생했어요. 잠시 후 다시 '예금' 또는 '적금'을 입력해주세요."
	}

	// overwritten on each new recommendation cycle
	session.Recommendation = recommendation
	session.Stage = StageCalculate

	return recommendation + "\n\n" + calculateHint
}

func (a *Advisor) handleCalculate(session *Session, input string) string {
	name, amountText, found := strings.Cut(input, ",")
	if !found {
		return `"상품명, 금액" 형식으로 입력해주세요. 예) 코드K 정기예금, 500만원`
	}

	name = strings.TrimSpace(name)

	principal, err := won.Parse(amountText)
	if err != nil {
		return `금액을 이해하지 못했어요. "500만원", "1억원", "1,200,000"처럼 숫자를 넣어 다시 입력해주세요.`
	}

	result, err := a.calculator.Compute(name, principal, session.Recommendation, session.Category)
	switch {
	case err == nil:
		return result.Format() + "\n\n다른 상품도 같은 형식으로 계산해드릴 수 있어요."
	case errors.Is(err, maturity.ErrRateNotFound):
		return "추천 내용에서 '" + name + "' 상품의 금리를 찾지 못했어요. 추천받은 상품명을 그대로 입력해주세요."
	default:
		log.Printf("maturity calculation failed: %v", err)
		return "계산 중 오류가 발생했어요. 상품명과 금액을 다시 확인해주세요."
	}
}
