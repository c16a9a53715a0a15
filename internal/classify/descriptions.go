package classify

type entry struct {
	symbol      string
	description string
}

// punctuation covers plain ASCII symbols plus currency signs and
// typographic quotes.
var punctuation = []entry{
	{"`", "Backtick"},
	{"@", "At sign"},
	{"#", "Hash"},
	{"$", "Dollar sign"},
	{"%", "Percent sign"},
	{"^", "Caret"},
	{"&", "Ampersand"},
	{"*", "Asterisk"},
	{"-", "Hyphen"},
	{"+", "Plus sign"},
	{"=", "Equals sign"},
	{"_", "Underscore"},
	{"~", "Tilde"},
	{"'", "Single quote"},
	{`"`, "Double quote"},
	{"(", "Left parenthesis"},
	{")", "Right parenthesis"},
	{"[", "Left bracket"},
	{"]", "Right bracket"},
	{"{", "Left brace"},
	{"}", "Right brace"},
	{"<", "Less than"},
	{">", "Greater than"},
	{"/", "Forward slash"},
	{`\`, "Backslash"},
	{"|", "Pipe"},
	{",", "Comma"},
	{".", "Period"},
	{":", "Colon"},
	{";", "Semicolon"},
	{"?", "Question mark"},
	{"!", "Exclamation mark"},
	{"€", "Euro sign"},
	{"£", "Pound sterling"},
	{"“", "Opening double quote"},
	{"”", "Closing double quote"},
	{"‘", "Opening single quote"},
	{"’", "Closing single quote"},
}

// altLetters are the glyphs macOS produces for Alt+key.
var altLetters = []entry{
	{"œ", "Latin ligature oe"},
	{"∑", "Summation"},
	{"´", "Acute accent"},
	{"®", "Registered trademark"},
	{"†", "Dagger"},
	{"¥", "Yen sign"},
	{"¨", "Diaeresis"},
	{"ˆ", "Circumflex"},
	{"ø", "O with stroke"},
	{"π", "Pi"},
	{"å", "A with ring"},
	{"ß", "Sharp S (eszett)"},
	{"∂", "Partial derivative"},
	{"ƒ", "Function (florin)"},
	{"©", "Copyright"},
	{"˙", "Dot above"},
	{"∆", "Delta"},
	{"˚", "Ring above"},
	{"¬", "Not sign"},
	{"…", "Ellipsis"},
	{"Ω", "Omega"},
	{"≈", "Approximately equal"},
	{"ç", "C cedilla"},
	{"√", "Square root"},
	{"∫", "Integral"},
	{"˜", "Small tilde"},
	{"~", "Tilde"},
	{"µ", "Micro sign"},
	{"≤", "Less than or equal"},
	{"≥", "Greater than or equal"},
	{"÷", "Division sign"},
}

// shiftAltLetters are the glyphs macOS produces for Shift+Alt+key.
// "ˆ" also appears in altLetters; the later definition wins.
// TODO: confirm with the layout maintainers whether Shift+Alt+I should map
// to a different accent than Alt+I.
var shiftAltLetters = []entry{
	{"Œ", "Latin ligature OE"},
	{"„", "Double low quote"},
	{"‰", "Per mille"},
	{"‡", "Double dagger"},
	{"ˇ", "Caron"},
	{"Á", "A acute"},
	{"Â", "A circumflex"},
	{"Ê", "E circumflex"},
	{"Ë", "E diaeresis"},
	{"¯", "Macron"},
	{"ˆ", "Circumflex"},
	{"Ø", "O with stroke"},
	{"∏", "Product"},
	{"Å", "A with ring"},
	{"Í", "I acute"},
	{"Î", "I circumflex"},
	{"Ï", "I diaeresis"},
	{"Ì", "I grave"},
	{"˝", "Double acute"},
	{"Ó", "O acute"},
	{"Ô", "O circumflex"},
	{"Ò", "O grave"},
	{"Ú", "U acute"},
	{"Û", "U circumflex"},
	{"Ù", "U grave"},
	{"Æ", "Latin ligature AE"},
	{"¸", "Cedilla"},
	{"⁄", "Fraction slash"},
	{"Ç", "C cedilla"},
	{"◊", "Lozenge"},
	{"ı", "Dotless i"},
	{"˘", "Breve"},
	{"¿", "Inverted question mark"},
}

// descriptions is built once from the tables above, in order.
var descriptions = buildDescriptions(punctuation, altLetters, shiftAltLetters)

func buildDescriptions(tables ...[]entry) map[string]string {
	n := 0
	for _, t := range tables {
		n += len(t)
	}

	m := make(map[string]string, n)
	for _, t := range tables {
		for _, e := range t {
			m[e.symbol] = e.description
		}
	}
	return m
}

// Describe returns the human description of symbol and whether the table
// has one.
func Describe(symbol string) (string, bool) {
	d, ok := descriptions[symbol]
	return d, ok
}
