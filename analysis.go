package eskit

//////
// Analyzer configuration.
//////

// buildAnalysis derives the filter definitions and the analyzer for the given
// language. The filter chain order is fixed: possessive stemmer (english
// only), lowercase, stopwords, stemmer, and the synonym filter last, appended
// only when synonym rules are supplied.
func buildAnalysis(lang string, synonyms []string) (map[string]any, map[string]any) {
	chain := []string{}

	if lang == "english" {
		chain = append(chain, "english_possessive_stemmer")
	}

	chain = append(chain, "lowercase", lang+"_stop", lang+"_stemmer")

	filters := map[string]any{
		lang + "_stop": map[string]any{
			"type":      "stop",
			"stopwords": "_" + lang + "_",
		},
		lang + "_stemmer": map[string]any{
			"type":     "stemmer",
			"language": lang,
		},
	}

	if lang == "english" {
		filters["english_possessive_stemmer"] = map[string]any{
			"type":     "stemmer",
			"language": "possessive_english",
		}
	}

	if len(synonyms) > 0 {
		filters[lang+"_synonym"] = map[string]any{
			"type":     "synonym",
			"synonyms": synonyms,
		}

		chain = append(chain, lang+"_synonym")
	}

	analyzer := map[string]any{
		lang + "_syn": map[string]any{
			"tokenizer": "standard",
			"filter":    chain,
		},
	}

	return filters, analyzer
}

//////
// Mapping.
//////

// buildMapping derives the index mapping from the column roles. Text columns
// are analyzed with the language analyzer and have fielddata enabled, tag
// columns are keywords, geo-point columns are geo_point, and a completion
// "suggest" field is always present. Engines below major version 7 need the
// mapping nested under the document type.
func buildMapping(roles *ColumnRoles, lang, docType string, major uint64) map[string]any {
	if roles == nil {
		roles = &ColumnRoles{}
	}

	properties := map[string]any{}

	for _, col := range roles.Text {
		properties[col] = map[string]any{
			"type":      "text",
			"fielddata": true,
			"analyzer":  lang + "_syn",
		}
	}

	for _, col := range roles.Tag {
		properties[col] = map[string]any{"type": "keyword"}
	}

	for _, col := range roles.GeoPoint {
		properties[col] = map[string]any{"type": "geo_point"}
	}

	if roles.Date != "" {
		properties[roles.Date] = map[string]any{"type": "date"}
	}

	properties["suggest"] = map[string]any{"type": "completion"}

	mapping := map[string]any{"properties": properties}

	if major < 7 {
		mapping = map[string]any{docType: mapping}
	}

	return mapping
}

// BuildIndexBody derives the full settings+mappings body for an index-create
// call from the column roles, language, and synonym rules. The body is
// returned both for issuing the call and for inspection.
func BuildIndexBody(
	roles *ColumnRoles,
	lang string,
	synonyms []string,
	docType string,
	major uint64,
) map[string]any {
	if lang == "" {
		lang = "english"
	}

	if docType == "" {
		docType = "_doc"
	}

	filters, analyzer := buildAnalysis(lang, synonyms)

	return map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"filter":   filters,
				"analyzer": analyzer,
			},
		},
		"mappings": buildMapping(roles, lang, docType, major),
	}
}
