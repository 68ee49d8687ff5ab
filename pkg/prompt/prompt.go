// Package prompt assembles the text sent to the generation model.
package prompt

// Instruction is the persona prepended to every prompt when enabled.
const Instruction = `
أنت البروفيسور أطلس، خبير أكاديمي طبي متخصص.
دورك هو مساعدة الطلاب في حل الأسئلة الطبية وتحليل التقارير.
عندما تستلم سؤالاً، قم بحله وشرح السبب.
إذا طلب الطالب حل أسئلة (MCQs)، قم بتحليل كل خيار ولماذا هو صح أو خطأ.
لغة التواصل: العربية بشكل أساسي، مع ذكر المصطلحات الطبية بالإنجليزية بين أقواس.
في نهاية كل رسالة، ذكرهم بالقناة: https://t.me/atlas_medical.
`

// FallbackRequest stands in for messages that carry neither text nor caption.
const FallbackRequest = "أكتب سؤالاً طبيًا أو تقرير وسيتم تحليله."

type Builder struct {
	IncludeInstruction bool
}

func NewBuilder(includeInstruction bool) *Builder {
	return &Builder{IncludeInstruction: includeInstruction}
}

func (b *Builder) Build(userText string) string {
	return Build(userText, b.IncludeInstruction)
}

// Build never returns an empty string.
func Build(userText string, includeInstruction bool) string {
	if userText == "" {
		userText = FallbackRequest
	}
	if !includeInstruction {
		return userText
	}
	return Instruction + "\n" + userText
}
