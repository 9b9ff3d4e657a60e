// Command manifestgen generates the view manifest from a views directory.
//
// The directory convention is views/<tenant>/<object>/<viewName>.json, where
// <viewName> carries the generation suffix (.layout, .detail_view_meta,
// .detail-view) or is the bare object code for a list view. A handlers.json
// file in an object directory binds that (tenant, object) pair to a named
// compiled-in handler.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bizview/backend/internal/infrastructure/manifest"
)

const handlersFileName = "handlers.json"

type handlersFile struct {
	Handler string `json:"handler"`
}

func main() {
	root := flag.String("root", "./views", "views directory to scan")
	out := flag.String("out", "./manifest.json", "output manifest path")
	flag.Parse()

	m, err := scan(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "manifestgen:", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "manifestgen:", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "manifestgen:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %d views, %d handler bindings\n", *out, len(m.Views), len(m.Handlers))
}

// scan walks the views directory and collects the full candidate set.
func scan(root string) (*manifest.Manifest, error) {
	m := &manifest.Manifest{Version: 1}

	tenants, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read views root %q: %w", root, err)
	}

	for _, tenant := range tenants {
		if !tenant.IsDir() {
			continue
		}
		tenantDir := filepath.Join(root, tenant.Name())
		objects, err := os.ReadDir(tenantDir)
		if err != nil {
			return nil, fmt.Errorf("read tenant dir %q: %w", tenantDir, err)
		}

		for _, object := range objects {
			if !object.IsDir() {
				continue
			}
			objectDir := filepath.Join(tenantDir, object.Name())
			files, err := os.ReadDir(objectDir)
			if err != nil {
				return nil, fmt.Errorf("read object dir %q: %w", objectDir, err)
			}

			for _, f := range files {
				if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
					continue
				}
				rel := filepath.ToSlash(filepath.Join(tenant.Name(), object.Name(), f.Name()))

				if f.Name() == handlersFileName {
					binding, err := readHandlersFile(filepath.Join(objectDir, f.Name()))
					if err != nil {
						return nil, err
					}
					m.Handlers = append(m.Handlers, manifest.HandlerBinding{
						Tenant:  tenant.Name(),
						Object:  object.Name(),
						Handler: binding.Handler,
					})
					continue
				}

				m.Views = append(m.Views, manifest.ViewModule{
					Tenant: tenant.Name(),
					Object: object.Name(),
					View:   strings.TrimSuffix(f.Name(), ".json"),
					Module: rel,
				})
			}
		}
	}

	sort.Slice(m.Views, func(i, j int) bool {
		return m.Views[i].Module < m.Views[j].Module
	})
	sort.Slice(m.Handlers, func(i, j int) bool {
		if m.Handlers[i].Tenant != m.Handlers[j].Tenant {
			return m.Handlers[i].Tenant < m.Handlers[j].Tenant
		}
		return m.Handlers[i].Object < m.Handlers[j].Object
	})

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func readHandlersFile(path string) (*handlersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	var hf handlersFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	if hf.Handler == "" {
		return nil, fmt.Errorf("%q: handler name is required", path)
	}
	return &hf, nil
}
