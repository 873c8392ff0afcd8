package autofill

import "formfill/pkg/fferrors"

// FeedbackPresenter receives the engine's user-visible side effects:
// loading state on the identifier field, success and error notices, and
// auto-fill markers on written fields. Implementations are dumb sinks and
// must not call back into the engine.
type FeedbackPresenter interface {
	ShowLoading(fieldName string)
	HideLoading(fieldName string)
	ShowSuccess(populatedCount int, cached bool)
	ShowError(code fferrors.Code, message string)
	MarkAutoFilled(fieldName string)
}

// NoopPresenter discards all feedback.
type NoopPresenter struct{}

func (NoopPresenter) ShowLoading(string)              {}
func (NoopPresenter) HideLoading(string)              {}
func (NoopPresenter) ShowSuccess(int, bool)           {}
func (NoopPresenter) ShowError(fferrors.Code, string) {}
func (NoopPresenter) MarkAutoFilled(string)           {}
