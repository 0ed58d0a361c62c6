package templates

import (
	"bytes"
	"testing"

	"github.com/blossom2016/stripeConnect/models"
	"github.com/stretchr/testify/assert"
)

func TestLoad_RendersCatalog(t *testing.T) {
	tmpl, err := Load()
	assert.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, Catalog, map[string]interface{}{
		"Products": []models.Product{{ID: "1", Name: "Handmade Mug", Price: 2000, VendorID: "v3"}},
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Handmade Mug")
	assert.Contains(t, buf.String(), "$20.00")
	assert.Contains(t, buf.String(), `href="/buy/1"`)
}
