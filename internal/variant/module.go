package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Hans-byte2/Hochzeitsapp/internal/flutter"
	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
)

// Build variant names every app module starts with.
const (
	Debug   = "debug"
	Release = "release"
)

var (
	// ErrUnknownVariant is returned when a named build variant does not exist.
	ErrUnknownVariant = errors.New("unknown build variant")
	// ErrInvalidModule indicates the module identity is incomplete.
	ErrInvalidModule = errors.New("module requires a namespace and an application id")
)

// Spec describes the static part of an Android app module.
type Spec struct {
	Namespace             string
	ApplicationID         string
	Versions              flutter.Versions
	JavaVersion           int
	CoreLibraryDesugaring bool
	MultiDex              bool
	FlutterSource         string
	Dependencies          []string
	// ModuleDir is the app module directory; relative keystore paths resolve against it.
	ModuleDir string
}

// Variant is a named build configuration.
type Variant struct {
	Name            string
	MinifyEnabled   bool
	ShrinkResources bool
	Debuggable      bool
	// SigningConfig names the attached signing profile. Empty means the
	// toolchain's default debug key.
	SigningConfig string
}

// SigningProfile is a named set of credentials attached to a variant.
type SigningProfile struct {
	Name        string
	Credentials signing.Credentials
	StoreFile   string
}

// Module holds the build variants of one app module and the signing
// profiles attached to them. It is safe for concurrent use.
type Module struct {
	spec Spec

	mu       sync.RWMutex
	variants map[string]Variant
	profiles map[string]SigningProfile
}

// NewModule creates a module with the default debug and release variants.
func NewModule(spec Spec) (*Module, error) {
	if strings.TrimSpace(spec.Namespace) == "" || strings.TrimSpace(spec.ApplicationID) == "" {
		return nil, ErrInvalidModule
	}
	spec.Dependencies = cloneStrings(spec.Dependencies)

	return &Module{
		spec: spec,
		variants: map[string]Variant{
			Debug:   {Name: Debug, Debuggable: true},
			Release: {Name: Release, MinifyEnabled: false, ShrinkResources: false},
		},
		profiles: make(map[string]SigningProfile),
	}, nil
}

// AttachSigningProfile creates a signing profile named after variantName
// from creds and makes that variant sign with it. Completeness of creds is
// not checked here.
func (m *Module) AttachSigningProfile(variantName string, creds signing.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variants[variantName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, variantName)
	}

	m.profiles[variantName] = SigningProfile{
		Name:        variantName,
		Credentials: creds,
		StoreFile:   creds.ResolveStoreFile(m.spec.ModuleDir),
	}
	v.SigningConfig = variantName
	m.variants[variantName] = v
	return nil
}

// Variant returns a copy of the named variant.
func (m *Module) Variant(name string) (Variant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Variants returns copies of all variants sorted by name.
func (m *Module) Variants() []Variant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Variant, 0, len(m.variants))
	for _, v := range m.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SigningProfile returns the profile attached under name.
func (m *Module) SigningProfile(name string) (SigningProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[name]
	return p, ok
}

// Spec returns a copy of the module description.
func (m *Module) Spec() Spec {
	spec := m.spec
	spec.Dependencies = cloneStrings(m.spec.Dependencies)
	return spec
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return []string{}
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
