package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional values to embed in the message; placeholders are
// written as {name}, for example {expected} or {actual}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"path_not_found":      "path not found",
		"value_not_found":     "value not found, got null",
		"value_type_mismatch": "type mismatch: expected {expected}, got {actual}",
		"key_not_found":       "key not found",
		"key_type_mismatch":   "key type mismatch: expected {expected} key, got {actual}",
		"invalid_value":       "invalid value {value} for {type}",
		"date_time_format":    "date/time {value} does not match format {format}",
		"read_only":           "container is read-only",
		"encoding_failure":    "cannot encode {type}",
		"duplicate_key":       "duplicate key",
		"parse_error":         "parse error",
		"truncated":           "input truncated",
	},
	"nl": {
		"path_not_found":      "pad niet gevonden",
		"value_not_found":     "waarde ontbreekt, null ontvangen",
		"value_type_mismatch": "verkeerd type: {expected} verwacht, {actual} ontvangen",
		"key_not_found":       "sleutel niet gevonden",
		"key_type_mismatch":   "verkeerd sleuteltype: {expected} verwacht, {actual} ontvangen",
		"invalid_value":       "ongeldige waarde {value} voor {type}",
		"date_time_format":    "datum/tijd {value} voldoet niet aan formaat {format}",
		"read_only":           "container is alleen-lezen",
		"encoding_failure":    "kan {type} niet coderen",
		"duplicate_key":       "dubbele sleutel",
		"parse_error":         "leesfout",
		"truncated":           "invoer afgekapt",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"nl").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
