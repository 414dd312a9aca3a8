package executor

// Language describes one supported language tag as exposed by the
// /api/languages endpoint: the identifier clients submit, a display name,
// and the conventional source file extension.
type Language struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// languages is the fixed catalog. It is initialized once and never mutated;
// the accessor below hands out copies so callers can't change it either.
var languages = []Language{
	{ID: "python", Name: "Python", Extension: ".py"},
	{ID: "c", Name: "C", Extension: ".c"},
	{ID: "cpp", Name: "C++", Extension: ".cpp"},
	{ID: "java", Name: "Java", Extension: ".java"},
	{ID: "kotlin", Name: "Kotlin", Extension: ".kt"},
	{ID: "javascript", Name: "JavaScript", Extension: ".js"},
	{ID: "rust", Name: "Rust", Extension: ".rs"},
	{ID: "sql", Name: "SQL", Extension: ".sql"},
	{ID: "text", Name: "Text", Extension: ".txt"},
}

// Languages returns the catalog of supported languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// IsSupported reports whether id names a language in the catalog.
func IsSupported(id string) bool {
	for _, l := range languages {
		if l.ID == id {
			return true
		}
	}
	return false
}
