package filemanager

import "context"

// CustomEditorVerifier decides whether a file found in an opened fiddle that
// is not a known editor gets a custom editor of its own.
type CustomEditorVerifier interface {
	VerifyCreateCustomEditor(ctx context.Context, name string) (bool, error)
}

// VerifierFunc adapts a function to CustomEditorVerifier.
type VerifierFunc func(ctx context.Context, name string) (bool, error)

func (f VerifierFunc) VerifyCreateCustomEditor(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

var (
	// AcceptAll creates an editor for every extra file.
	AcceptAll = VerifierFunc(func(context.Context, string) (bool, error) { return true, nil })
	// RejectAll drops every extra file.
	RejectAll = VerifierFunc(func(context.Context, string) (bool, error) { return false, nil })
)
