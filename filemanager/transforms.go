package filemanager

import (
	"context"
	"fmt"

	"fiddle-server/fiddle"
)

const forgeCLIVersion = "^7.4.0"

// ForgeTransform turns package.json into one Electron Forge can package.
func ForgeTransform(_ context.Context, files fiddle.Files) (fiddle.Files, error) {
	content := files[fiddle.PackageJSONName]
	if content == "" {
		return nil, fmt.Errorf("forge transform: no %s", fiddle.PackageJSONName)
	}
	pkg, err := fiddle.ParsePackage(content)
	if err != nil {
		return nil, fmt.Errorf("forge transform: %w", err)
	}

	pkg.Scripts["start"] = "electron-forge start"
	pkg.Scripts["package"] = "electron-forge package"
	pkg.Scripts["make"] = "electron-forge make"
	pkg.DevDependencies["@electron-forge/cli"] = forgeCLIVersion

	out, err := fiddle.EncodePackage(pkg)
	if err != nil {
		return nil, fmt.Errorf("forge transform: %w", err)
	}
	files[fiddle.PackageJSONName] = out
	return files, nil
}
