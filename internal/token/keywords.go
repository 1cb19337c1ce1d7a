package token

var labelKeywords = [...]string{
	LabelTipo:       "tipo:",
	LabelData:       "data:",
	LabelLocal:      "local:",
	LabelRelato:     "relato:",
	LabelEnvolvidos: "envolvidos:",
	LabelObjetos:    "objetos:",
}

// natures is the closed vocabulary of incident classifications, in match order.
var natures = [...]string{
	"furto",
	"roubo",
	"perda",
	"ameaça",
	"acidente",
	"estelionato",
}

// Labels lists the label kinds in record order.
var Labels = [...]Kind{LabelTipo, LabelData, LabelLocal, LabelRelato, LabelEnvolvidos, LabelObjetos}

// LabelKeyword возвращает литерал метки (вместе с ':') и true, если k является меткой.
func LabelKeyword(k Kind) (string, bool) {
	if !k.IsLabel() {
		return "", false
	}
	return labelKeywords[k], true
}

// Natures returns a copy of the nature vocabulary.
func Natures() []string {
	out := make([]string, len(natures))
	copy(out, natures[:])
	return out
}

// LookupNature reports whether s is exactly one of the nature keywords.
func LookupNature(s string) bool {
	for _, n := range natures {
		if n == s {
			return true
		}
	}
	return false
}
