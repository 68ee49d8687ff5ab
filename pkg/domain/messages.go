package domain

const (
	WelcomeMessage = "أهلاً بك يا دكتور! أنا البروفيسور أطلس. أرسل لي أي سؤال طبي، وسأقوم بتحليله فوراً.\n" +
		"نعتذر، في النسخة المجانية لا يمكن تحليل الصور أو ملفات PDF، فقط نصوص وأسئلة."

	AttachmentRejectedMessage = "عذراً، الذكاء الاصطناعي المجاني الحالي يدعم فقط تحليل النصوص وليس الصور أو الملفات. أرسل نصًا أو سؤالًا طبيًا!"

	NotAuthorizedMessage = "❌ Not authorized"

	// ErrorReplyFormat takes the failure as its only verb.
	ErrorReplyFormat = "عذراً يا دكتور، حدث خطأ تقني: %s"

	LivenessMessage = "Professor Atlas is Alive!"
)
