package filemanager

import (
	"context"

	"fiddle-server/fiddle"
)

// Transform rewrites a whole buffer set before it is written.
type Transform func(ctx context.Context, files fiddle.Files) (fiddle.Files, error)

// GetFiles assembles the fiddle as it stands: every editor value, custom
// editors included, plus package.json derived from opts. With nil opts the
// package.json key is present but empty. If any transform fails, or returns
// no files, the untransformed set is returned.
func (m *Manager) GetFiles(ctx context.Context, opts *fiddle.PackageOptions, transforms ...Transform) fiddle.Files {
	base := m.state.Values()
	base[fiddle.PackageJSONName] = ""
	if opts != nil {
		content, err := fiddle.PackageJSON(m.state.Metadata(), *opts)
		if err != nil {
			m.log.WithError(err).Warn("failed to build package.json")
		} else {
			base[fiddle.PackageJSONName] = content
		}
	}

	files := base.Clone()
	for _, t := range transforms {
		out, err := t(ctx, files)
		if err != nil {
			m.log.WithError(err).Warn("transform failed, using untransformed files")
			return base
		}
		if out == nil {
			m.log.Warn("transform returned no files, using untransformed files")
			return base
		}
		files = out
	}
	if _, ok := files[fiddle.PackageJSONName]; !ok {
		files[fiddle.PackageJSONName] = ""
	}
	return files
}
