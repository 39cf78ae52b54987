package counting

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCode normaliza lo que entrega un lector de código de barras o un teclado:
// compatibilidad Unicode (NFKC), ancho completo a medio ancho, sin espacios ni caracteres de control, en mayúsculas.
func NormalizeCode(raw string) string {
	s := width.Fold.String(norm.NFKC.String(raw))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToUpper(s)
}
