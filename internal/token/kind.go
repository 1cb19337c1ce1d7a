package token

// Kind represents the category of a report token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the report buffer.
	EOF

	// LabelTipo represents the incident-type label.
	LabelTipo // tipo:
	// LabelData represents the date label.
	LabelData // data:
	// LabelLocal represents the place label.
	LabelLocal // local:
	// LabelRelato represents the narrative label.
	LabelRelato // relato:
	// LabelEnvolvidos represents the involved-parties label.
	LabelEnvolvidos // envolvidos:
	// LabelObjetos represents the objects label.
	LabelObjetos // objetos:

	// Word represents a run of digits or a hyphen-joined run of letters.
	Word
	// Date represents a DD/MM/YY literal.
	Date
	// Time represents an HH:MM literal.
	Time
	// Punct represents one of '.', ',' or ';'.
	Punct
	// Nature represents an incident-nature keyword.
	Nature

	kindCount
)

// KindCount is the number of declared kinds, for tables indexed by Kind.
const KindCount = int(kindCount)

var kindNames = [...]string{
	Invalid:         "INVALID",
	EOF:             "EOF",
	LabelTipo:       "TIPO_LABEL",
	LabelData:       "DATA_LABEL",
	LabelLocal:      "LOCAL_LABEL",
	LabelRelato:     "RELATO_LABEL",
	LabelEnvolvidos: "ENVOLVIDOS_LABEL",
	LabelObjetos:    "OBJETOS_LABEL",
	Word:            "PALAVRA",
	Date:            "DATA",
	Time:            "HORA",
	Punct:           "PONTUACAO",
	Nature:          "NATUREZA",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsLabel reports whether k marks the start of a record field.
func (k Kind) IsLabel() bool {
	return k >= LabelTipo && k <= LabelObjetos
}

// IsEOF reports whether k is the end-of-input marker.
func (k Kind) IsEOF() bool { return k == EOF }

// Describe returns a human readable name used in diagnostics.
func (k Kind) Describe() string {
	if kw, ok := LabelKeyword(k); ok {
		return "label '" + kw + "'"
	}
	switch k {
	case Word:
		return "word"
	case Date:
		return "date (DD/MM/YY)"
	case Time:
		return "time (HH:MM)"
	case Punct:
		return "punctuation"
	case Nature:
		return "incident nature"
	case EOF:
		return "end of input"
	}
	return "invalid token"
}
