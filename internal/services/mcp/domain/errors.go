package domain

import (
	"fmt"

	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	"github.com/louisbranch/diceparser/internal/platform/errors/i18n"
)

// toolError turns an evaluator failure into the message an MCP client shows
// its user. Remote errors keep the message the roller localized; local
// domain errors are localized here.
func toolError(locale string, err error) error {
	code := apperrors.GetCode(err)
	if _, message, ok := apperrors.LocalizedMessage(err); ok && message != "" {
		return apperrors.Wrap(code, fmt.Sprintf("%s (%s)", message, code), err)
	}
	if code == apperrors.CodeUnknown {
		return err
	}
	_, message := i18n.Localize(locale, err)
	return apperrors.Wrap(code, fmt.Sprintf("%s (%s)", message, code), err)
}
