package variant

import (
	"github.com/Hans-byte2/Hochzeitsapp/internal/flutter"
	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
)

// ModuleView is the printable form of a Module. Passwords are reduced to
// their set/unset status.
type ModuleView struct {
	Namespace             string           `json:"namespace" yaml:"namespace"`
	ApplicationID         string           `json:"applicationId" yaml:"applicationId"`
	Versions              flutter.Versions `json:"versions" yaml:"versions"`
	JavaVersion           int              `json:"javaVersion" yaml:"javaVersion"`
	CoreLibraryDesugaring bool             `json:"coreLibraryDesugaring" yaml:"coreLibraryDesugaring"`
	MultiDex              bool             `json:"multiDex" yaml:"multiDex"`
	FlutterSource         string           `json:"flutterSource" yaml:"flutterSource"`
	Dependencies          []string         `json:"dependencies" yaml:"dependencies"`
	Variants              []VariantView    `json:"variants" yaml:"variants"`
}

type VariantView struct {
	Name            string       `json:"name" yaml:"name"`
	MinifyEnabled   bool         `json:"minifyEnabled" yaml:"minifyEnabled"`
	ShrinkResources bool         `json:"shrinkResources" yaml:"shrinkResources"`
	Debuggable      bool         `json:"debuggable" yaml:"debuggable"`
	Signing         *ProfileView `json:"signing,omitempty" yaml:"signing,omitempty"`
}

type ProfileView struct {
	Name          string   `json:"name" yaml:"name"`
	StoreFile     string   `json:"storeFile" yaml:"storeFile"`
	StorePassword string   `json:"storePassword" yaml:"storePassword"`
	KeyAlias      string   `json:"keyAlias" yaml:"keyAlias"`
	KeyPassword   string   `json:"keyPassword" yaml:"keyPassword"`
	Missing       []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Describe renders the module for display.
func (m *Module) Describe() ModuleView {
	spec := m.Spec()
	variants := m.Variants()

	view := ModuleView{
		Namespace:             spec.Namespace,
		ApplicationID:         spec.ApplicationID,
		Versions:              spec.Versions,
		JavaVersion:           spec.JavaVersion,
		CoreLibraryDesugaring: spec.CoreLibraryDesugaring,
		MultiDex:              spec.MultiDex,
		FlutterSource:         spec.FlutterSource,
		Dependencies:          spec.Dependencies,
		Variants:              make([]VariantView, 0, len(variants)),
	}
	for _, v := range variants {
		view.Variants = append(view.Variants, m.describeVariant(v))
	}
	return view
}

// DescribeVariant renders a single variant.
func (m *Module) DescribeVariant(name string) (VariantView, error) {
	v, err := m.Variant(name)
	if err != nil {
		return VariantView{}, err
	}
	return m.describeVariant(v), nil
}

func (m *Module) describeVariant(v Variant) VariantView {
	out := VariantView{
		Name:            v.Name,
		MinifyEnabled:   v.MinifyEnabled,
		ShrinkResources: v.ShrinkResources,
		Debuggable:      v.Debuggable,
	}
	if v.SigningConfig == "" {
		return out
	}
	if p, ok := m.SigningProfile(v.SigningConfig); ok {
		out.Signing = &ProfileView{
			Name:          p.Name,
			StoreFile:     p.StoreFile,
			StorePassword: signing.Status(p.Credentials.StorePassword),
			KeyAlias:      signing.Value(p.Credentials.KeyAlias),
			KeyPassword:   signing.Status(p.Credentials.KeyPassword),
			Missing:       p.Credentials.Missing(),
		}
	}
	return out
}
