package template

// Defaults returns the compiled-in template set covering every notification
// type the platform emits. Bodies are bilingual (English + Arabic) because
// the recipient base is. Operators may shadow any of these per key; the
// returned map is a copy so callers can't mutate the built-in table.
func Defaults() map[string]string {
	m := make(map[string]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		m[k] = v
	}
	return m
}

var defaultTemplates = map[string]string{
	"course_published": "📚 New course published: {{title}}\n" +
		"تم نشر دورة جديدة: {{title}}",

	"lecture_added": "🎬 New lecture in {{course}}: {{title}}\n" +
		"محاضرة جديدة في {{course}}: {{title}}",

	"payment_confirmed": "✅ Payment of {{amount}} for {{course}} confirmed. Thank you!\n" +
		"تم تأكيد دفع {{amount}} لدورة {{course}}. شكراً لك!",

	"subscription_activated": "🎉 Your access to {{course}} is now active.\n" +
		"تم تفعيل اشتراكك في {{course}}.",

	"maintenance": "🔧 Scheduled maintenance {{window}} — the platform may be briefly unavailable.\n" +
		"صيانة مجدولة {{window}} — قد تكون المنصة غير متاحة مؤقتاً.",

	// Free-form operator announcement, body supplied via the data map.
	"announcement": "{{text}}",
}
