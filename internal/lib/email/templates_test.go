package email

import (
	"bytes"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Templates are loaded from disk at send time, so a broken template only
// surfaces when a notification fires. This renders every template with its
// preview data to catch that in CI instead.
func TestEmailTemplatesRenderWithPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(name, func(t *testing.T) {
			tmpl, err := template.ParseFiles(fmt.Sprintf("../../../templates/emails/%s.html", name))
			require.NoError(t, err)

			var body bytes.Buffer
			require.NoError(t, tmpl.Execute(&body, data))

			for _, value := range data {
				assert.Contains(t, body.String(), value)
			}
		})
	}
}

func TestPreviewDataCoversAllTemplates(t *testing.T) {
	templates := []Template{TemplateServiceCreated}

	for _, tmpl := range templates {
		_, ok := PreviewData[string(tmpl)]
		assert.True(t, ok, "missing preview data for template %s", tmpl)
	}
}
