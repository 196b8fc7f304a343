package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleVI = "vi"
	LocaleEN = "en"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleVI

var matcher = language.NewMatcher([]language.Tag{
	language.Vietnamese,
	language.English,
})

// Resolve 根据 lang 参数与 Accept-Language 选择语言
func Resolve(queryLang, acceptLanguage string) string {
	if lang := normalize(queryLang); lang != "" {
		return lang
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index == 1 {
		return LocaleEN
	}
	return LocaleVI
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch {
	case lang == "":
		return ""
	case strings.HasPrefix(lang, LocaleVI):
		return LocaleVI
	case strings.HasPrefix(lang, LocaleEN):
		return LocaleEN
	default:
		return ""
	}
}

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
