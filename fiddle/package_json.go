package fiddle

import (
	"encoding/json"
	"fmt"
)

// PackageOptions controls what goes into the derived package.json.
type PackageOptions struct {
	IncludeDependencies bool `json:"includeDependencies"`
	IncludeElectron     bool `json:"includeElectron"`
}

// DefaultPackageOptions is what a save to a directory uses.
var DefaultPackageOptions = PackageOptions{IncludeDependencies: true, IncludeElectron: true}

// Metadata is the application state package.json is built from.
type Metadata struct {
	Name            string            `json:"name"`
	Author          string            `json:"author,omitempty"`
	ElectronVersion string            `json:"electronVersion"`
	Modules         map[string]string `json:"modules,omitempty"`
}

// Package is the on-disk shape of package.json.
type Package struct {
	Name            string            `json:"name"`
	ProductName     string            `json:"productName"`
	Description     string            `json:"description"`
	Keywords        []string          `json:"keywords"`
	Main            string            `json:"main"`
	Version         string            `json:"version"`
	Author          string            `json:"author"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// PackageJSON derives the package.json content for meta.
func PackageJSON(meta Metadata, opts PackageOptions) (string, error) {
	name := meta.Name
	if name == "" {
		name = "electron-fiddle"
	}
	pkg := Package{
		Name:            name,
		ProductName:     name,
		Description:     "An Electron application",
		Keywords:        []string{},
		Main:            "./main.js",
		Version:         "1.0.0",
		Author:          meta.Author,
		Scripts:         map[string]string{"start": "electron ."},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	if opts.IncludeDependencies {
		for mod, ver := range meta.Modules {
			pkg.Dependencies[mod] = ver
		}
	}
	if opts.IncludeElectron && meta.ElectronVersion != "" {
		pkg.DevDependencies["electron"] = meta.ElectronVersion
	}
	return EncodePackage(pkg)
}

// ParsePackage decodes package.json content.
func ParsePackage(content string) (Package, error) {
	var pkg Package
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return Package{}, fmt.Errorf("invalid %s: %w", PackageJSONName, err)
	}
	if pkg.Scripts == nil {
		pkg.Scripts = map[string]string{}
	}
	if pkg.Dependencies == nil {
		pkg.Dependencies = map[string]string{}
	}
	if pkg.DevDependencies == nil {
		pkg.DevDependencies = map[string]string{}
	}
	return pkg, nil
}

// EncodePackage renders pkg the way package.json files are usually written.
func EncodePackage(pkg Package) (string, error) {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
