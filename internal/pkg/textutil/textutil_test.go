package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Posicion", StripDiacritics("Posición"))
	assert.Equal(t, "Trafico", StripDiacritics("Tráfico"))
	assert.Equal(t, "panaderia", StripDiacritics("panadería"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "posicion", Fold("  Posición  "))
	assert.Equal(t, "visibilidad [horno.es]", Fold("Visibilidad [horno.es]"))
	assert.Equal(t, Fold("Posición"), Fold("posicion"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "como llegar", CollapseWhitespace("  como \t llegar \n"))
	assert.Equal(t, "", CollapseWhitespace("   "))
	assert.Equal(t, "one", CollapseWhitespace("one"))
}
