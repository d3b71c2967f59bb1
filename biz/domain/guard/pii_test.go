package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPII(t *testing.T) {
	assert.Equal(t, "escríbeme a [EMAIL] por favor",
		RedactPII("escríbeme a maria.lopez@acme.com por favor"))
	assert.Equal(t, "ssn [SSN] registrado",
		RedactPII("ssn 123-45-6789 registrado"))
	assert.Equal(t, "tarjeta [CARD] usada",
		RedactPII("tarjeta 4111 1111 1111 1111 usada"))

	out := RedactPII("llámame al 555-123-4567 hoy")
	assert.Contains(t, out, "[PHONE]")
	assert.NotContains(t, out, "555")
}

func TestRedactPIIUntouched(t *testing.T) {
	in := "plan de contenido para la marca"
	assert.Equal(t, in, RedactPII(in))
}
