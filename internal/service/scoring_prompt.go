package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/AbdellahBM/orema-camp/internal/dto"
)

const unspecified = "غير محدد"

var (
	scoreRE       = regexp.MustCompile(`(?i)SCORE:\s*(\d+)`)
	explanationRE = regexp.MustCompile(`(?is)EXPLANATION:\s*(.+)`)
	emphasis      = strings.NewReplacer("**", "", "*", "")
)

// buildScoringPrompt renders the fixed evaluation prompt for one applicant.
func buildScoringPrompt(p dto.ScoreParticipantRequest) string {
	age := unspecified
	if p.Age != nil && *p.Age > 0 {
		age = strconv.Itoa(*p.Age)
	}

	var b strings.Builder
	b.WriteString("\nأنت خبير في تقييم المشاركين في المخيمات الصيفية التعليمية والتربوية. سأعطيك معلومات عن مشارك محتمل، وأريدك أن تعطيه درجة من 1 إلى 100 بناءً على مدى ملاءمته للمخيم.\n\n")
	b.WriteString("معايير التقييم:\n")
	b.WriteString("- التحفيز والاهتمام (30%)\n")
	b.WriteString("- الخلفية التعليمية والعمر المناسب (25%)\n")
	b.WriteString("- القدرة المالية والالتزام (20%)\n")
	b.WriteString("- الخبرة السابقة والنضج (15%)\n")
	b.WriteString("- وضوح التوقعات والأهداف (10%)\n\n")
	b.WriteString("معلومات المشارك:\n")
	line(&b, "الاسم", p.Name)
	line(&b, "العمر", age+" سنة")
	line(&b, "المؤسسة التعليمية", orUnspecified(p.School))
	line(&b, "المستوى الدراسي", orUnspecified(p.NiveauScolaire))
	line(&b, "الحالة التنظيمية", orUnspecified(p.OrgStatus))
	line(&b, "المشاركة في مخيمات سابقة", p.PreviousCamps.Arabic(unspecified))
	line(&b, "القدرة على دفع 350 درهم", p.CanPay350DH.Arabic(unspecified))
	line(&b, "توقعات المشارك من المخيم", orUnspecified(p.CampExpectation))
	line(&b, "معلومات إضافية/صحية", orUnspecified(p.ExtraInfo))
	b.WriteString("\nيرجى الرد بالتنسيق التالي بالضبط:\n")
	b.WriteString("SCORE: [رقم من 1 إلى 100]\n")
	b.WriteString("EXPLANATION: [شرح مختصر باللغة العربية لا يتجاوز 150 كلمة يوضح أسباب هذه الدرجة]\n\n")
	b.WriteString("مثال على الرد:\n")
	b.WriteString("SCORE: 85\n")
	b.WriteString("EXPLANATION: المشارك يظهر تحفيزاً عالياً وتوقعات واضحة من المخيم. العمر مناسب والمستوى التعليمي جيد. القدرة المالية متوفرة مما يدل على الالتزام. ينصح بقبوله.\n")
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return unspecified
	}
	return s
}

// parseScoringReply extracts the tagged fields. A missing marker yields nil / "".
func parseScoringReply(text string) (score *int, explanation string) {
	if m := scoreRE.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = math.MaxInt32
		}
		score = &n
	}
	if m := explanationRE.FindStringSubmatch(text); m != nil {
		explanation = strings.TrimSpace(emphasis.Replace(strings.TrimSpace(m[1])))
	}
	return score, explanation
}

// clampScore pulls n into [1,100].
func clampScore(n int) int {
	switch {
	case n < 1:
		return 1
	case n > 100:
		return 100
	}
	return n
}
