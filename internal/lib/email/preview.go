package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps:
//
//	templateName -> (templateVariableName -> exampleValue)
var PreviewData = map[string]map[string]string{
	"service_created": {
		"ServiceName": "Audit",
		"AgencyID":    "org_2h6example",
		"CreatedBy":   "user_2h6example",
	},
}
