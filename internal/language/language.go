package language

// Language represents a supported recognition locale
type Language struct {
	Tag        string // BCP-47 tag understood by the recognizer (e.g., "en-US")
	Name       string // English name (e.g., "English (US)")
	NativeName string // Native name (e.g., "English", "हिन्दी")
}

// Default is used when no language was configured
var Default = Language{Tag: "en-US", Name: "English (US)", NativeName: "English"}

// languages is the fixed catalog of supported recognition locales
var languages = []Language{
	{Tag: "en-US", Name: "English (US)", NativeName: "English"},
	{Tag: "en-GB", Name: "English (UK)", NativeName: "English"},
	{Tag: "en-IN", Name: "English (India)", NativeName: "English"},
	{Tag: "hi-IN", Name: "Hindi", NativeName: "हिन्दी"},
	{Tag: "bn-IN", Name: "Bengali", NativeName: "বাংলা"},
	{Tag: "ta-IN", Name: "Tamil", NativeName: "தமிழ்"},
	{Tag: "te-IN", Name: "Telugu", NativeName: "తెలుగు"},
	{Tag: "mr-IN", Name: "Marathi", NativeName: "मराठी"},
	{Tag: "gu-IN", Name: "Gujarati", NativeName: "ગુજરાતી"},
	{Tag: "kn-IN", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Tag: "ml-IN", Name: "Malayalam", NativeName: "മലയാളം"},
	{Tag: "pa-IN", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{Tag: "ur-IN", Name: "Urdu", NativeName: "اردو"},
	{Tag: "es-ES", Name: "Spanish (Spain)", NativeName: "Español"},
	{Tag: "es-MX", Name: "Spanish (Mexico)", NativeName: "Español"},
	{Tag: "fr-FR", Name: "French", NativeName: "Français"},
	{Tag: "de-DE", Name: "German", NativeName: "Deutsch"},
	{Tag: "it-IT", Name: "Italian", NativeName: "Italiano"},
	{Tag: "pt-BR", Name: "Portuguese (Brazil)", NativeName: "Português"},
	{Tag: "nl-NL", Name: "Dutch", NativeName: "Nederlands"},
	{Tag: "pl-PL", Name: "Polish", NativeName: "Polski"},
	{Tag: "sv-SE", Name: "Swedish", NativeName: "Svenska"},
	{Tag: "ru-RU", Name: "Russian", NativeName: "Русский"},
	{Tag: "uk-UA", Name: "Ukrainian", NativeName: "Українська"},
	{Tag: "tr-TR", Name: "Turkish", NativeName: "Türkçe"},
	{Tag: "ar-SA", Name: "Arabic", NativeName: "العربية"},
	{Tag: "ja-JP", Name: "Japanese", NativeName: "日本語"},
	{Tag: "ko-KR", Name: "Korean", NativeName: "한국어"},
	{Tag: "zh-CN", Name: "Chinese (Simplified)", NativeName: "中文(简体)"},
	{Tag: "zh-TW", Name: "Chinese (Traditional)", NativeName: "中文(繁體)"},
	{Tag: "id-ID", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Tag: "vi-VN", Name: "Vietnamese", NativeName: "Tiếng Việt"},
	{Tag: "th-TH", Name: "Thai", NativeName: "ไทย"},
}

// tagIndex maps locale tags to their Language structs for fast lookup
var tagIndex map[string]Language

func init() {
	tagIndex = make(map[string]Language, len(languages))
	for _, lang := range languages {
		tagIndex[lang.Tag] = lang
	}
}

// FromTag returns the Language for the given locale tag.
// Returns Default if the tag is not in the catalog.
func FromTag(tag string) Language {
	if lang, ok := tagIndex[tag]; ok {
		return lang
	}
	return Default
}

// List returns all supported locales in catalog order
func List() []Language {
	result := make([]Language, len(languages))
	copy(result, languages)
	return result
}

// Tags returns all supported locale tags
func Tags() []string {
	tags := make([]string, len(languages))
	for i, lang := range languages {
		tags[i] = lang.Tag
	}
	return tags
}

// IsValidTag returns true if the tag is in the catalog
func IsValidTag(tag string) bool {
	_, ok := tagIndex[tag]
	return ok
}
