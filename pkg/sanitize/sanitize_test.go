package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "12 MG Road", Text("  <b>12 MG Road</b> "))
	assert.Equal(t, "Ravi & Sons", Text("Ravi &amp; Sons"))
	assert.Equal(t, "", Text("<script>alert(1)</script>"))
	assert.Equal(t, "plain", Text("plain"))
}

func TestFields(t *testing.T) {
	name, addr := "<i>Asha</i>", " Flat 4 "
	Fields(&name, &addr, nil)
	assert.Equal(t, "Asha", name)
	assert.Equal(t, "Flat 4", addr)
}
