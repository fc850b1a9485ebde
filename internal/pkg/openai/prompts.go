package openai

import "strings"

const systemPrompt = `당신은 최고의 금융 컨설턴트입니다.
'사용자 정보'와 '전체 금융상품 리스트'를 바탕으로 사용자에게 가장 적합한
금융상품 3가지를 추천하고 그 이유를 구체적으로 설명하라.`

const outputFormat = `[출력 형식]
- 추천은 순위 형식으로 1, 2, 3위로 나누어 설명한다.
- 각 상품에 대한 추천 이유를 사용자의 정보와 연결지어 논리적으로 설명한다.
- 각 상품의 상품명은 리스트의 fin_prdt_nm 그대로 표기하고,
  12개월 기준 금리를 반드시 "연 N.NN%" 형식으로 함께 표기한다.
- 말투는 친절하고 이해하기 쉽게 작성한다.`

func buildPrompt(risk, goal, horizon, productListJSON string) string {
	if len(productListJSON) > previewByteLimit {
		productListJSON = productListJSON[:previewByteLimit] + "\n\n[...truncated for brevity...]"
	}

	builder := strings.Builder{}
	builder.WriteString("[사용자 정보]\n")
	builder.WriteString("- 위험 감수 성향: " + risk + "\n")
	builder.WriteString("- 저축 목표: " + goal + "\n")
	builder.WriteString("- 저축 기간: " + horizon + "\n\n")
	builder.WriteString("[전체 금융상품 리스트 (JSON 형식)]\n")
	builder.WriteString(productListJSON)
	builder.WriteString("\n\n")
	builder.WriteString(outputFormat)

	return builder.String()
}
