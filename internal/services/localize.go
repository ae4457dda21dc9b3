// internal/services/localize.go
package services

import (
	"github.com/javajoker/taxonomy-admin/internal/editor"
	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/schema"
)

// LocalizeResult renders validator messages in lang. Messages whose key is
// missing from the catalogue keep their English text.
func LocalizeResult(lang string, result schema.Result) schema.Result {
	return result.Localize(func(issue schema.Issue) string {
		return translate(lang, issue.MessageKey(), issue.Message, issue.MessageArgs())
	})
}

// LocalizeProblems renders editor problem messages in lang.
func LocalizeProblems(lang string, problems []editor.Problem) []editor.Problem {
	out := make([]editor.Problem, len(problems))
	for i, p := range problems {
		p.Message = translate(lang, p.MessageKey(), p.Message, p.MessageArgs())
		out[i] = p
	}
	return out
}

func translate(lang, key, fallback string, args []interface{}) string {
	if !i18n.Has(lang, key) {
		return fallback
	}
	return i18n.T(lang, key, args...)
}
