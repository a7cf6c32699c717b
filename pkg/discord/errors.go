package discord

import "schedbot/internal/domain"

// ErrorMessageKey maps an error to the i18n key of its user-facing message.
// Non-domain errors resolve to the generic key.
func ErrorMessageKey(err error) string {
	if code := domain.Code(err); code != "" {
		return "error." + code
	}
	return "error.generic"
}
