package assess

import "fmt"

// promptTemplate instructs the model to classify Korean-language fraud
// patterns, cross-check against current public scam intelligence, and answer
// strictly as the four-field JSON object this package decodes.
const promptTemplate = `당신은 한국어 온라인 사기(피싱, 보이스피싱, 구인·구직 사기, 인신매매·강제 노동 유도) 탐지 전문가입니다.
아래 텍스트가 사용자를 위험한 상황으로 유도하는지 평가하세요.

[주요 관심 대상]
- 금융 사기: 대출·투자 권유, 수수료·보증금 선입금 요구, 계좌/OTP/보안코드/인증번호 요구 등
- 보이스피싱·메신저 피싱: 가족·지인·기관(검찰, 경찰, 금융감독원 등) 사칭, 급한 송금 요청, 의심스러운 링크 클릭 유도 등
- 구인·구직/알바 사기: 비정상적으로 높은 급여, 구체적 업무 설명 없이 고수익 보장, 선입금 요구, 계좌·휴대폰·신분증을 대신 만들어 달라는 요청, 불투명한 해외 근무 제안 등
- 인신매매·강제 노동/성착취 위험: 해외 콜센터·가상자산·도박 사이트 운영 인력 모집, 여권/신분증·지문 등 민감 정보 제출 요구, 출국·숙소·교통편을 모두 대신 준비해 준다는 제안, 계약 해지 시 벌금·위협·구금 가능성을 암시하는 표현 등

검색 도구를 사용할 수 있다면 최신 피싱/스캠 정보를 확인하고, 의심스러운 회사·전화번호·사이트·키워드가 실제로 사기 사례와 연관되어 있는지 교차 검증한 뒤 판단하세요.

[분석할 텍스트]
` + "```" + `
%s
` + "```" + `

다음 JSON 형식으로만 응답하세요:
{
  "risk_level": "HIGH" | "MEDIUM" | "LOW",
  "dangerous_keywords": ["위험한", "키워드", "목록"],
  "reason": "위험한 핵심 이유를 한국어로 간단히 설명 (1-2문장)",
  "advice": "사용자를 위한 조언 (1-2문장)"
}

[판단 기준]
- "HIGH": 위 항목과 명확히 연결되는 사기/착취 가능성이 크고, 돈·개인정보·신분증·계좌·출국/이동 등을 직접 요구하거나 강하게 유도함.
- "MEDIUM": 위 항목과 일부 유사한 표현이나 패턴이 있으나 확신하기 어렵고, 추가 확인이 필요함.
- "LOW": 일반적인 안내·광고·뉴스·검색 결과 등으로 보이며, 위 항목과 뚜렷한 관련성이 없음.

dangerous_keywords에는 실제 텍스트에 등장한 표현만 넣고, JSON 이외의 다른 텍스트는 출력하지 마세요.`

// BuildPrompt renders the analysis prompt for one scan's joined text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
