package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateServiceCreated corresponds to templates/emails/service_created.html
	TemplateServiceCreated Template = "service_created"
)
