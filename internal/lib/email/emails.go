package email

// SendServiceCreatedEmail notifies the configured recipient that a new
// service was added to an agency's catalog.
func (c *Client) SendServiceCreatedEmail(to, serviceName, agencyID, createdBy string) error {
	// Data keys must match what the HTML template expects.
	data := map[string]string{
		"ServiceName": serviceName,
		"AgencyID":    agencyID,
		"CreatedBy":   createdBy,
	}

	return c.SendEmail(
		to,
		"New service added: "+serviceName,
		TemplateServiceCreated,
		data,
	)
}
