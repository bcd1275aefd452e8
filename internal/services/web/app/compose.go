package app

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/routepath"
	webhttp "github.com/madrasahweb/site/internal/services/web/transport/http"
	"github.com/madrasahweb/site/internal/services/web/transport/httpmux"
)

// ComposeInput carries the modules and shared assets mounted on the root
// mux.
type ComposeInput struct {
	Modules []module.Module
	// StaticFS is served under /static/ when set.
	StaticFS fs.FS
}

// Compose builds the root mux from module mounts.
func Compose(input ComposeInput) (*http.ServeMux, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	if input.StaticFS != nil {
		seen[routepath.StaticPrefix] = "static"
		httpmux.MountStatic(root, input.StaticFS, webhttp.WithStaticMime)
	}
	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		if err := mountModule(root, feature, seen); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, seen map[string]string) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if err := claim(seen, prefix, feature.ID()); err != nil {
		return err
	}
	root.Handle(prefix, mount.Handler)

	for _, route := range mount.Routes {
		if err := validateRoute(route); err != nil {
			return fmt.Errorf("mount module %q has invalid route %q: %w", feature.ID(), route, err)
		}
		if err := claim(seen, route, feature.ID()); err != nil {
			return err
		}
		root.Handle(route, mount.Handler)
	}
	return nil
}

func claim(seen map[string]string, pattern, id string) error {
	if previous, ok := seen[pattern]; ok {
		return fmt.Errorf("module %q duplicates pattern %q owned by %q", id, pattern, previous)
	}
	seen[pattern] = id
	return nil
}

func resolveMount(feature module.Module) (module.Mount, string, error) {
	if feature == nil {
		return module.Mount{}, "", fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := mount.Prefix
	if err := validatePrefix(prefix); err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), mount.Prefix, err)
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

// validateRoute accepts exact paths only; subtrees belong in Prefix.
func validateRoute(route string) error {
	if strings.TrimSpace(route) != route || route == "" {
		return fmt.Errorf("route must be a non-empty path without surrounding whitespace")
	}
	if !strings.HasPrefix(route, "/") {
		return fmt.Errorf("route must begin with /")
	}
	if strings.HasSuffix(route, "/") || strings.ContainsAny(route, "{} ") {
		return fmt.Errorf("route must be an exact path")
	}
	return nil
}
